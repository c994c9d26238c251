// File: allocator/locked.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package allocator

import (
	"sync"

	"github.com/lvyuemeng/evering/api"
)

// Locked guards a core with a single coarse mutex (spec §4.6 "A coarse
// mutex protects the allocator"). Reference implementation; safe for use
// from multiple goroutines across one process.
type Locked struct {
	mu sync.Mutex
	c  *core
}

var _ api.Allocator = (*Locked)(nil)

// NewLocked creates a Locked allocator over heap.
func NewLocked(heap []byte) *Locked {
	return &Locked{c: newCore(heap)}
}

func (l *Locked) Allocate(layout api.Layout) (int64, api.Meta, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.allocate(layout)
}

func (l *Locked) Deallocate(offset int64, meta api.Meta, layout api.Layout) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.deallocate(offset, meta, layout)
}

func (l *Locked) BasePtr() uintptr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.basePtr()
}

// FreeBytes reports total free bytes across all bins, for tests.
func (l *Locked) FreeBytes() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.freeBytes()
}

// DeallocateBulk frees every entry under a single critical section,
// staging the batch through a qback.Backlog before coalescing (see
// core.deallocateBulk). Returns one error per failed entry, in no
// particular correspondence to entries' input order.
func (l *Locked) DeallocateBulk(entries []BulkEntry) []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.deallocateBulk(entries)
}
