// File: ringbuf/either.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UringEither lets two symmetric participants run the exact same code
// against one Ring: each calls NewUringEither against the same *Ring
// value, and the runtime hands out side A to whichever call arrives first
// and side B to the other (see Ring.AssignSide) (spec.md §4.1
// "UringEither<T> picks side A or B at construction and indexes through a
// runtime side flag").
package ringbuf

// UringEither wraps whichever side this participant was assigned,
// exposing the same Endpoint API either way.
type UringEither[T any] struct {
	*Endpoint[T]
}

// NewUringEither assigns this call the next free side of r.
func NewUringEither[T any](r *Ring[T]) (*UringEither[T], error) {
	ep, err := r.AssignSide()
	if err != nil {
		return nil, err
	}
	return &UringEither[T]{Endpoint: ep}, nil
}
