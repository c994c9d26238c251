// File: relptr/rel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Rel[T] is a relocatable offset pointer: target - base, signed so it can
// point either direction within a region. Reconstruction requires the
// caller to supply the current base explicitly (spec §3 "Offset pointer");
// never cache the resolved *T beyond a single call, since the region may
// be mapped at a different base address in each participant.

package relptr

import "unsafe"

// Rel is an offset, in bytes, from some region base to a T. Any negative
// offset, NilRel among them, is the null offset and Resolve returns nil
// for it; use IsNil to check. The zero value is offset 0, the base itself.
type Rel[T any] int64

// NilRel is the sentinel offset representing "no target".
const NilRel = Rel[any](-1)

// IsNil reports whether r is the null offset.
func (r Rel[T]) IsNil() bool { return int64(r) < 0 }

// FromAbs computes the Rel for target relative to base.
func FromAbs[T any](base unsafe.Pointer, target *T) Rel[T] {
	return Rel[T](uintptr(unsafe.Pointer(target)) - uintptr(base))
}

// Resolve reconstructs the absolute pointer given the current base. Callers
// must not retain the result past the lifetime of a single operation,
// because a different participant may map the same region at a different
// base (spec §9 "Relocatable pointers").
func (r Rel[T]) Resolve(base unsafe.Pointer) *T {
	if r.IsNil() {
		return nil
	}
	return (*T)(unsafe.Add(base, uintptr(r)))
}

// RelSlice carries an offset alongside an explicit length, since unsized
// targets must never encode their length inside the offset itself
// (spec §3 "For unsized targets... the length travels alongside").
type RelSlice[T any] struct {
	Off Rel[T]
	Len int
}

// Resolve reconstructs the slice view given the current base.
func (s RelSlice[T]) Resolve(base unsafe.Pointer) []T {
	if s.Off.IsNil() || s.Len == 0 {
		return nil
	}
	p := s.Off.Resolve(base)
	return unsafe.Slice(p, s.Len)
}
