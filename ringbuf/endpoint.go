// File: ringbuf/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint is the per-side typed view over a Ring (spec.md §4.1's public
// per-endpoint contract: send, send_bulk, recv, recv_bulk, is_connected).
package ringbuf

import (
	"context"

	"github.com/lvyuemeng/evering/api"
)

// Endpoint is one side (A or B) of a Ring.
type Endpoint[T any] struct {
	ring    *Ring[T]
	isA     bool
	send    *dirBuf[T]
	recv    *dirBuf[T]
	dropped bool
}

func (e *Endpoint[T]) peerAlive() bool {
	if e.isA {
		return e.ring.bAlive.Load()
	}
	return e.ring.aAlive.Load()
}

// Send publishes one record, or returns ErrRingFull / ErrRingDisconnected.
func (e *Endpoint[T]) Send(item T) error {
	if !e.peerAlive() {
		return api.ErrRingDisconnected
	}
	if !e.send.trySend(item) {
		return api.ErrRingFull
	}
	return nil
}

// SendBulk publishes as many of items as fit, stopping at the first full
// lane, and returns the count actually sent.
func (e *Endpoint[T]) SendBulk(items []T) (int, error) {
	if !e.peerAlive() {
		return 0, api.ErrRingDisconnected
	}
	n := 0
	for _, it := range items {
		if !e.send.trySend(it) {
			break
		}
		n++
	}
	if n == 0 && len(items) > 0 {
		return 0, api.ErrRingFull
	}
	return n, nil
}

// Recv makes one non-blocking attempt to consume a record.
func (e *Endpoint[T]) Recv() (T, bool) {
	return e.recv.tryRecv()
}

// RecvBulk drains up to max currently-available records, non-blocking.
func (e *Endpoint[T]) RecvBulk(max int) []T {
	out := make([]T, 0, max)
	for len(out) < max {
		item, ok := e.recv.tryRecv()
		if !ok {
			break
		}
		out = append(out, item)
	}
	return out
}

// RecvWait blocks (per the ring's Mode) until a record is available, the
// peer disconnects with nothing left to drain, or ctx is done.
func (e *Endpoint[T]) RecvWait(ctx context.Context) (T, error) {
	for {
		if item, ok := e.recv.tryRecv(); ok {
			return item, nil
		}
		if !e.peerAlive() {
			if item, ok := e.recv.tryRecv(); ok {
				return item, nil
			}
			var zero T
			return zero, api.ErrRingDisconnected
		}
		if err := e.recv.notifier.wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}

// IsConnected reports whether the peer endpoint is still alive and this
// endpoint has not itself been closed.
func (e *Endpoint[T]) IsConnected() bool {
	return !e.dropped && e.peerAlive()
}

// Close marks this endpoint dropped, so the peer observes disconnection
// and IntoParts can eventually reclaim the ring's storage.
func (e *Endpoint[T]) Close() {
	if e.dropped {
		return
	}
	e.dropped = true
	if e.isA {
		e.ring.aAlive.Store(false)
	} else {
		e.ring.bAlive.Store(false)
	}
}
