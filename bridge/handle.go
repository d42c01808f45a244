// Copyright © 2026 The Crisp authors

package bridge

import (
	"reflect"
	"sync"
)

// Handle is the integer an entity travels as.  Zero is never issued.
type Handle int64

// HandleTable interns entities.  Interning the same entity twice returns
// the same handle.  Entities are keyed by identity: pointers by address and
// comparable values, such as a qualified type reference, by value.
type HandleTable struct {
	mu   sync.Mutex
	ids  map[any]Handle
	objs []any
}

// NewHandleTable returns an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{ids: map[any]Handle{}}
}

// Intern returns the handle of obj.  A nil obj yields 0.
func (t *HandleTable) Intern(obj any) Handle {
	if isNil(obj) {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.ids[obj]; ok {
		return h
	}
	t.objs = append(t.objs, obj)
	h := Handle(len(t.objs))
	t.ids[obj] = h
	return h
}

// Lookup returns the entity of h.
func (t *HandleTable) Lookup(h Handle) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h <= 0 || int(h) > len(t.objs) {
		return nil, false
	}
	return t.objs[h-1], true
}

// Len returns the number of interned entities.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objs)
}

// Reset forgets every entity.  Handles issued before are unknown after.
func (t *HandleTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = map[any]Handle{}
	t.objs = nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
