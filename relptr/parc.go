// File: relptr/parc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PArc[T] is shared ownership with an intrusive atomic reference count
// prefixed to the payload (spec §3 "Smart pointers"). Go's atomic package
// already sequences CompareAndSwap/Add as if sequentially consistent, so
// the acquire/release-fence dance spec.md describes for the Rust original
// falls out of using atomic.Int64 directly; the count is capped at
// math.MaxInt64, the Go analogue of isize::MAX.

package relptr

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/lvyuemeng/evering/api"
)

type arcBlock[T any] struct {
	refs atomic.Int64
	val  T
}

// PArc is a shared, reference-counted handle to a T allocated from alloc.
type PArc[T any] struct {
	off   Rel[arcBlock[T]]
	alloc api.Allocator
	meta  api.Meta
}

// NewPArc allocates a ref-counted T, starting at one reference.
func NewPArc[T any](alloc api.Allocator, value T) (*PArc[T], error) {
	var zero arcBlock[T]
	layout := api.Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
	offset, meta, err := alloc.Allocate(layout)
	if err != nil {
		return nil, err
	}
	a := &PArc[T]{off: Rel[arcBlock[T]](offset), alloc: alloc, meta: meta}
	block := a.off.Resolve(basePtr(alloc))
	block.refs.Store(1)
	block.val = value
	return a, nil
}

// Get returns a pointer to the shared value.
func (a *PArc[T]) Get() *T {
	return &a.off.Resolve(basePtr(a.alloc)).val
}

// Clone increments the reference count and returns a new handle sharing
// the same storage. Panics if the count would overflow math.MaxInt64, the
// same invariant violation spec §5 reserves panics for.
func (a *PArc[T]) Clone() *PArc[T] {
	block := a.off.Resolve(basePtr(a.alloc))
	if n := block.refs.Add(1); n > math.MaxInt64-1 {
		panic("relptr: PArc refcount overflow")
	}
	return &PArc[T]{off: a.off, alloc: a.alloc, meta: a.meta}
}

// Release decrements the reference count; the last release frees the
// underlying storage.
func (a *PArc[T]) Release() {
	block := a.off.Resolve(basePtr(a.alloc))
	if block.refs.Add(-1) == 0 {
		var zero arcBlock[T]
		layout := api.Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
		_ = a.alloc.Deallocate(int64(a.off), a.meta, layout)
	}
}

// RefCount reports the current reference count, for diagnostics.
func (a *PArc[T]) RefCount() int64 {
	return a.off.Resolve(basePtr(a.alloc)).refs.Load()
}
