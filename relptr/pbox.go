// File: relptr/pbox.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PBox[T] is unique ownership of a value allocated from a specific
// allocator: (offset, allocator handle, Meta). Release frees through that
// allocator. Rendered with an api.Buffer.Release()-style explicit
// lifecycle idiom since Go has no destructors.

package relptr

import (
	"unsafe"

	"github.com/lvyuemeng/evering/api"
)

// PBox owns one T allocated from alloc. The zero value is not usable;
// construct with NewPBox.
type PBox[T any] struct {
	off    Rel[T]
	alloc  api.Allocator
	meta   api.Meta
	layout api.Layout
	freed  bool
}

func layoutOf[T any]() api.Layout {
	var zero T
	return api.Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// NewPBox allocates room for a T from alloc, writes value into it, and
// returns the owning box.
func NewPBox[T any](alloc api.Allocator, value T) (*PBox[T], error) {
	layout := layoutOf[T]()
	offset, meta, err := alloc.Allocate(layout)
	if err != nil {
		return nil, err
	}
	b := &PBox[T]{off: Rel[T](offset), alloc: alloc, meta: meta, layout: layout}
	*b.off.Resolve(basePtr(alloc)) = value
	return b, nil
}

func basePtr(alloc api.Allocator) unsafe.Pointer {
	return unsafe.Pointer(alloc.BasePtr())
}

// Get returns a pointer to the owned value, valid only for the duration of
// the current operation (the box's base may differ across participants).
func (b *PBox[T]) Get() *T {
	return b.off.Resolve(basePtr(b.alloc))
}

// Offset returns the raw relocatable offset, e.g. to embed in an SQE.
func (b *PBox[T]) Offset() Rel[T] { return b.off }

// Meta returns the allocator metadata needed to free or to reconstruct this
// box on another participant via FromParts.
func (b *PBox[T]) Meta() api.Meta { return b.meta }

// FromParts reconstructs a PBox from a previously returned offset/meta pair,
// e.g. after it crossed a ring as part of a token.
func FromParts[T any](alloc api.Allocator, off Rel[T], meta api.Meta) *PBox[T] {
	return &PBox[T]{off: off, alloc: alloc, meta: meta, layout: layoutOf[T]()}
}

// Release frees the box's storage through its allocator. Calling it more
// than once is a programming error; the box is left unusable afterward.
func (b *PBox[T]) Release() {
	if b.freed {
		return
	}
	b.freed = true
	_ = b.alloc.Deallocate(int64(b.off), b.meta, b.layout)
}
