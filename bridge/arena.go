// Copyright © 2026 The Crisp authors

package bridge

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Slot names a cursor held by an Arena.  A slot is invalid once released,
// even if its storage is reused.
type Slot struct {
	index uint32
	gen   uint32
}

func (s Slot) String() string { return fmt.Sprintf("slot %d.%d", s.index, s.gen) }

type slotEntry struct {
	value any
	gen   uint32
	live  bool
}

// Arena owns the boxed iteration contexts of a session.
type Arena struct {
	mu      sync.Mutex
	entries []slotEntry
	free    []uint32
	faults  int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc stores v in a fresh slot.
func (a *Arena) Alloc(v any) Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = uint32(len(a.entries))
		a.entries = append(a.entries, slotEntry{})
	}
	e := &a.entries[i]
	e.gen++
	e.value = v
	e.live = true
	return Slot{index: i, gen: e.gen}
}

// Get returns the value in s.
func (a *Arena) Get(s Slot) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entry(s)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Release frees s.  Releasing a slot twice is a fault: it is logged and
// reported false.
func (a *Arena) Release(s Slot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.entry(s)
	if !ok {
		a.faults++
		glog.Warningf("cursor arena: release of dead %v", s)
		return false
	}
	e.value = nil
	e.live = false
	a.free = append(a.free, s.index)
	return true
}

// Live returns the number of slots in use.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries) - len(a.free)
}

// Faults returns the number of bad releases seen.
func (a *Arena) Faults() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.faults
}

func (a *Arena) entry(s Slot) (*slotEntry, bool) {
	if int(s.index) >= len(a.entries) {
		return nil, false
	}
	e := &a.entries[s.index]
	if !e.live || e.gen != s.gen {
		return nil, false
	}
	return e, true
}
