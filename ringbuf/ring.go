// File: ringbuf/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring is the paired buf_a/buf_b transport (spec.md §3/§4.1). Endpoint A
// owns the producer side of buf_a and the consumer side of buf_b;
// Endpoint B mirrors. New builds a process-local ring (both lanes
// allocated here); NewManual builds one over externally supplied header
// and buffer storage, for shared-memory placement.
package ringbuf

import (
	"fmt"
	"sync/atomic"

	"github.com/lvyuemeng/evering/api"
)

// Ring is the shared transport state both endpoints operate on.
type Ring[T any] struct {
	bufA        *dirBuf[T]
	bufB        *dirBuf[T]
	aAlive      atomic.Bool
	bAlive      atomic.Bool
	sideCounter atomic.Uint32
	mode        Mode
}

// New allocates a process-local ring with both lanes sized to capacity
// (must be a power of two).
func New[T any](capacity uint64, mode Mode) *Ring[T] {
	r := &Ring[T]{
		bufA: newDirBuf[T](capacity, mode),
		bufB: newDirBuf[T](capacity, mode),
		mode: mode,
	}
	r.aAlive.Store(true)
	r.bAlive.Store(true)
	return r
}

// NewManual builds a ring over externally supplied header and buffer
// storage (e.g. carved out of a shmregion.Region's heap), for shared-
// memory placement between two processes. Each participant calls this
// independently over the same underlying bytes. Only the head/tail
// counters live in header; the endpoint liveness flags and the side
// counter AssignSide uses are fields of the returned Ring and are not
// shared between participants.
func NewManual[T any](header *Header, bufA, bufB []T, mode Mode) *Ring[T] {
	r := &Ring[T]{
		bufA: dirBufFromParts[T](bufA, &header.HeadA, &header.TailA, mode),
		bufB: dirBufFromParts[T](bufB, &header.HeadB, &header.TailB, mode),
		mode: mode,
	}
	r.aAlive.Store(true)
	r.bAlive.Store(true)
	return r
}

// EndpointA returns the fixed A-side view.
func (r *Ring[T]) EndpointA() *Endpoint[T] {
	return &Endpoint[T]{ring: r, isA: true, send: r.bufA, recv: r.bufB}
}

// EndpointB returns the fixed B-side view.
func (r *Ring[T]) EndpointB() *Endpoint[T] {
	return &Endpoint[T]{ring: r, isA: false, send: r.bufB, recv: r.bufA}
}

// AssignSide hands out A to the first caller on this Ring value and B to
// the second, regardless of which goroutine calls first. The counter is
// per Ring value: two participants that each build a Ring with NewManual
// over the same Header both get side A. This is the runtime
// side-selection UringEither needs (spec.md §4.1 "UringEither<T> picks
// side A or B at construction").
func (r *Ring[T]) AssignSide() (*Endpoint[T], error) {
	switch r.sideCounter.Add(1) {
	case 1:
		return r.EndpointA(), nil
	case 2:
		return r.EndpointB(), nil
	default:
		return nil, fmt.Errorf("ringbuf: both sides already assigned")
	}
}

// IntoParts returns the raw buffer slices backing each lane, for reuse or
// inspection, but only once both endpoints have reported dropped; while
// either side is still live it returns ErrRingInUse (spec.md §4.1).
func (r *Ring[T]) IntoParts() ([]T, []T, error) {
	if r.aAlive.Load() || r.bAlive.Load() {
		return nil, nil, api.ErrRingInUse
	}
	return r.bufA.data, r.bufB.data, nil
}
