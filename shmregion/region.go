// File: shmregion/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Region is a contiguous shared-memory block laid out as
// [Header | Heap] (spec.md §3 "Region"), built over whichever Backend the
// caller selects. Map attaches to an existing region; Create allocates a
// fresh one. Grounded on facade.Config's lifecycle pattern (api/config-
// style construction) generalized to the attach/create split
// spec.md §4.5 specifies.

package shmregion

import (
	"fmt"
	"time"

	"github.com/lvyuemeng/evering/api"
	"github.com/lvyuemeng/evering/internal/evlog"
)

var logger = evlog.New("shmregion")

// attachRetries/attachBackoff bound the spin-wait on Initializing before
// an attacher gives up (spec.md §4.5: "Attachers spin-wait on
// Initializing with a bounded retry, then fail").
const (
	attachRetries = 200
	attachBackoff = 2 * time.Millisecond
)

// Region is a handle to a mapped shared-memory block. The zero value is
// not usable; construct with Map or Create.
type Region struct {
	mem     []byte
	header  *Header
	backend Backend
	closeFn func() error
	dropped bool
}

// Map attaches to an existing region created by another participant
// (possibly in another process). It verifies the magic, spin-waits for
// Initialized if the creator is still bootstrapping, and increments the
// refcount on success.
func Map(backend Backend, spec Spec) (*Region, error) {
	addr, length, closeFn, err := backend.Open(spec)
	if err != nil {
		return nil, fmt.Errorf("shmregion: map: %w", err)
	}
	mem := bytesFromAddr(addr, length)
	if len(mem) < HeaderSize {
		closeFn()
		return nil, fmt.Errorf("shmregion: map: region shorter than header (%d < %d)", len(mem), HeaderSize)
	}
	h := headerAt(mem)

	if !h.CheckMagic() {
		closeFn()
		return nil, fmt.Errorf("shmregion: map: %w", api.NewError(api.ErrCodeMagicMismatch, "shmregion: magic mismatch"))
	}

	status := h.Status()
	for i := 0; status == StatusInitializing && i < attachRetries; i++ {
		time.Sleep(attachBackoff)
		status = h.Status()
	}
	switch status {
	case StatusCorrupted:
		closeFn()
		return nil, fmt.Errorf("shmregion: map: %w", api.NewError(api.ErrCodeRegionCorrupted, "shmregion: region corrupted"))
	case StatusInitializing:
		closeFn()
		return nil, fmt.Errorf("shmregion: map: creator never finished initializing")
	}

	h.IncRef()
	logger.Debugf("mapped region %q, refcount=%d", spec.Name, h.Refcount())
	return &Region{mem: mem, header: h, backend: backend, closeFn: closeFn}, nil
}

// Create allocates a fresh region of the given total length (header +
// heap) through backend, writes the header as Initializing, and leaves
// it to the caller to finish bootstrapping (e.g. constructing an
// allocator over Heap()) before calling Finalize.
func Create(backend Backend, spec Spec, length int) (*Region, error) {
	if length < HeaderSize {
		return nil, fmt.Errorf("shmregion: create: length %d shorter than header %d", length, HeaderSize)
	}
	spec.Length = length
	addr, closeFn, err := backend.Create(spec, length)
	if err != nil {
		return nil, fmt.Errorf("shmregion: create: %w", err)
	}
	mem := bytesFromAddr(addr, length)
	h := headerAt(mem)
	h.WriteMagic()
	h.SetStatus(StatusInitializing)
	h.refcountWord().Store(1)

	logger.Debugf("created region %q, length=%d", spec.Name, length)
	return &Region{mem: mem, header: h, backend: backend, closeFn: closeFn}, nil
}

// Finalize transitions a freshly Created region from Initializing to
// Initialized with release ordering, publishing it for attachers. Call
// after any bootstrap writes (e.g. seeding the allocator) are complete.
// A region already marked Corrupted stays Corrupted.
func (r *Region) Finalize() {
	r.header.statusWord().CompareAndSwap(uint32(StatusInitializing), uint32(StatusInitialized))
}

// MarkCorrupted transitions the region to the absorbing Corrupted state.
func (r *Region) MarkCorrupted() {
	r.header.SetStatus(StatusCorrupted)
}

// BasePtr returns the region's base address as a raw uintptr, from which
// Rel[T] offsets are resolved.
func (r *Region) BasePtr() uintptr {
	return addrOf(r.mem)
}

// Len returns the region's total length in bytes, header included.
func (r *Region) Len() int {
	return len(r.mem)
}

// Header exposes the region's header for status/refcount/boot-offset
// access.
func (r *Region) Header() *Header {
	return r.header
}

// Heap returns the byte slice following the header, where the allocator
// is seeded.
func (r *Region) Heap() []byte {
	return r.mem[HeaderSize:]
}

// WithOffset resolves a byte offset within the region to an absolute
// address, bounds-checked. Spec.md §4.5's "with_offset::<T>" — callers
// cast the returned address to *T themselves via relptr.Rel[T].
func (r *Region) WithOffset(off int64) (uintptr, error) {
	if off < 0 || off >= int64(len(r.mem)) {
		return 0, fmt.Errorf("shmregion: offset %d out of bounds [0,%d)", off, len(r.mem))
	}
	return r.BasePtr() + uintptr(off), nil
}

// Drop decrements the refcount and, if it reaches zero, runs the
// backend's close callback exactly once (spec.md §8: "final drop of the
// region runs the backend close exactly once").
func (r *Region) Drop() error {
	if r.dropped {
		return nil
	}
	r.dropped = true
	if r.header.DecRef() == 0 {
		logger.Debugf("region refcount reached zero, closing backend")
		return r.closeFn()
	}
	return nil
}
