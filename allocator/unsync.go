// File: allocator/unsync.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package allocator

import "github.com/lvyuemeng/evering/api"

// Unsync is the bare, single-threaded core exposed directly — no locking,
// for use from one goroutine within one process (spec §4.6 "a separate
// unsynchronized core is provided for single-threaded use").
type Unsync struct {
	c *core
}

var _ api.Allocator = (*Unsync)(nil)

// NewUnsync creates an Unsync allocator over heap.
func NewUnsync(heap []byte) *Unsync {
	return &Unsync{c: newCore(heap)}
}

func (u *Unsync) Allocate(layout api.Layout) (int64, api.Meta, error) {
	return u.c.allocate(layout)
}

func (u *Unsync) Deallocate(offset int64, meta api.Meta, layout api.Layout) error {
	return u.c.deallocate(offset, meta, layout)
}

func (u *Unsync) BasePtr() uintptr { return u.c.basePtr() }

// FreeBytes reports total free bytes across all bins, for tests.
func (u *Unsync) FreeBytes() int64 { return u.c.freeBytes() }

// DeallocateBulk frees every entry, staging the batch through a
// qback.Backlog before coalescing (see core.deallocateBulk). Returns one
// error per failed entry, in no particular correspondence to entries'
// input order.
func (u *Unsync) DeallocateBulk(entries []BulkEntry) []error {
	return u.c.deallocateBulk(entries)
}
