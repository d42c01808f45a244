// Copyright © 2026 The Crisp authors

package bridge

import (
	"sort"
	"sync"
)

// Ledger tracks the live iteration contexts of non-deterministic
// predicates.  An entry leaves the ledger before Redo is delivered to it;
// entries left when the enclosing query finishes are pruned.
type Ledger struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]func()
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{live: map[uint64]func(){}}
}

// Open records a live context and the function that prunes it.
func (l *Ledger) Open(prune func()) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.live[l.next] = prune
	return l.next
}

// Take removes entry id.  It reports false if the entry was already pruned.
func (l *Ledger) Take(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[id]; !ok {
		return false
	}
	delete(l.live, id)
	return true
}

// Live returns the number of live entries.
func (l *Ledger) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// PruneAll prunes every live entry, newest first, and returns how many it
// pruned.
func (l *Ledger) PruneAll() int {
	l.mu.Lock()
	ids := make([]uint64, 0, len(l.live))
	for id := range l.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	prunes := make([]func(), len(ids))
	for i, id := range ids {
		prunes[i] = l.live[id]
		delete(l.live, id)
	}
	l.mu.Unlock()

	for _, prune := range prunes {
		prune()
	}
	return len(prunes)
}
