// File: internal/qback/qback.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backlog is a mutex-guarded FIFO backed by github.com/eapache/queue (a
// ring-growable queue with no per-push allocation once warmed up). Grounded
// on internal/concurrency/executor.go, which wires the same library as the
// backlog behind its lock-free fast path.
//
// opdriver's Unlocked driver pushes every freed slot index onto a
// Backlog[uint32] and pops from it before growing the slab (there is no
// separate CAS free stack); allocator's Locked/Unsync
// core uses one during bulk coalescing to stage chunks that haven't yet
// been re-inserted into their bin.
package qback

import (
	"sync"

	"github.com/eapache/queue"
)

// Backlog is a FIFO of T, safe for concurrent Push/Pop.
type Backlog[T any] struct {
	mu sync.Mutex
	q  *queue.Queue
}

// New creates an empty backlog.
func New[T any]() *Backlog[T] {
	return &Backlog[T]{q: queue.New()}
}

// Push appends v to the back of the backlog.
func (b *Backlog[T]) Push(v T) {
	b.mu.Lock()
	b.q.Add(v)
	b.mu.Unlock()
}

// Pop removes and returns the front of the backlog; ok is false if empty.
func (b *Backlog[T]) Pop() (v T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.q.Length() == 0 {
		return v, false
	}
	item := b.q.Remove()
	return item.(T), true
}

// Len reports the current backlog length.
func (b *Backlog[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q.Length()
}
