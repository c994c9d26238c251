// File: ringbuf/dirbuf.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// dirBuf is one direction of the paired ring (spec.md §3 "buf_a"/"buf_b"):
// a power-of-two sized SPSC slot array with monotonically increasing
// head/tail counters. Grounded directly on
// internal/concurrency/ring.go's RingBuffer[T] (same mask-indexed slot
// array, same head/tail atomic counter shape); generalized here so the
// head/tail words can either be owned locally (New) or overlay memory
// supplied by a shmregion (NewManual), the way shmregion.Header overlays
// atomic wrapper types on shared bytes.
package ringbuf

import (
	"sync/atomic"
	"unsafe"
)

// dirBuf is one SPSC lane: producer's tail store is release, consumer's
// head store is release too (spec.md §5: "producer's store of tail is
// release; consumer's load of tail is acquire; the inverse for head"),
// which Go's atomic package gives for free on every load/store.
type dirBuf[T any] struct {
	data     []T
	mask     uint64
	head     *atomic.Uint64 // consumer-owned
	tail     *atomic.Uint64 // producer-owned
	notifier waiter
}

func mustPow2(capacity uint64) {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		panic("ringbuf: capacity must be a power of two")
	}
}

// newDirBuf allocates a process-local lane with its own head/tail words.
func newDirBuf[T any](capacity uint64, mode Mode) *dirBuf[T] {
	mustPow2(capacity)
	return &dirBuf[T]{
		data:     make([]T, capacity),
		mask:     capacity - 1,
		head:     new(atomic.Uint64),
		tail:     new(atomic.Uint64),
		notifier: newWaiter(mode),
	}
}

// dirBufFromParts builds a lane over externally supplied storage: a data
// slice (which may be backed by shared memory via unsafe.Slice elsewhere)
// and raw head/tail words (e.g. fields of a ringbuf.Header placed inside
// a shmregion). The waiter remains process-local — cross-process readers
// each construct their own.
func dirBufFromParts[T any](data []T, headWord, tailWord *uint64, mode Mode) *dirBuf[T] {
	mustPow2(uint64(len(data)))
	return &dirBuf[T]{
		data:     data,
		mask:     uint64(len(data)) - 1,
		head:     (*atomic.Uint64)(unsafe.Pointer(headWord)),
		tail:     (*atomic.Uint64)(unsafe.Pointer(tailWord)),
		notifier: newWaiter(mode),
	}
}

// trySend publishes one record if space exists, notifying any waiting
// reader if the lane transitioned from empty to non-empty.
func (d *dirBuf[T]) trySend(item T) bool {
	tail := d.tail.Load()
	head := d.head.Load()
	if tail-head >= uint64(len(d.data)) {
		return false
	}
	wasEmpty := head == tail
	d.data[tail&d.mask] = item
	d.tail.Store(tail + 1)
	if wasEmpty {
		d.notifier.notify()
	}
	return true
}

// tryRecv consumes one record if available.
func (d *dirBuf[T]) tryRecv() (T, bool) {
	head := d.head.Load()
	tail := d.tail.Load()
	if head >= tail {
		var zero T
		return zero, false
	}
	item := d.data[head&d.mask]
	d.head.Store(head + 1)
	return item, true
}

func (d *dirBuf[T]) len() int {
	return int(d.tail.Load() - d.head.Load())
}

func (d *dirBuf[T]) cap() int {
	return len(d.data)
}
