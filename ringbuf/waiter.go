// File: ringbuf/waiter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Three peer modes share the same index protocol (dirbuf.go) and differ
// only in how a reader sleeps when its lane is empty (spec.md §4.1/§5):
// async (event-listener channel), sync (mutex + cond park/wake), bare
// (busy-wait with a scheduler hint). None of this state is placed in
// shared memory — it is purely local to whichever process is draining,
// exactly as spec.md §5 requires ("all blocking on the ring is
// externalized").
package ringbuf

import (
	"context"
	"runtime"
	"sync"
)

// Mode selects how Endpoint.RecvWait parks when its lane is empty.
type Mode int

const (
	// ModeAsync signals readers through a buffered channel, the pattern
	// EventLoop's inbox channel uses.
	ModeAsync Mode = iota
	// ModeSync parks on a sync.Mutex + sync.Cond pair.
	ModeSync
	// ModeBare busy-waits with runtime.Gosched(), as the MPMC stress
	// tests do.
	ModeBare
)

type waiter interface {
	notify()
	wait(ctx context.Context) error
}

func newWaiter(mode Mode) waiter {
	switch mode {
	case ModeAsync:
		return newAsyncWaiter()
	case ModeSync:
		return newSyncWaiter()
	default:
		return bareWaiter{}
	}
}

// asyncWaiter is a single-slot buffered-channel signal: multiple notifies
// before a wait coalesce into one wakeup, which is fine since the reader
// always rechecks the actual lane state after waking.
type asyncWaiter struct {
	ch chan struct{}
}

func newAsyncWaiter() *asyncWaiter {
	return &asyncWaiter{ch: make(chan struct{}, 1)}
}

func (w *asyncWaiter) notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *asyncWaiter) wait(ctx context.Context) error {
	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// syncWaiter parks on a cond variable; a background goroutine wakes it
// early if ctx is cancelled, since sync.Cond has no context-aware wait.
type syncWaiter struct {
	mu        sync.Mutex
	cond      *sync.Cond
	signalled bool
}

func newSyncWaiter() *syncWaiter {
	w := &syncWaiter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *syncWaiter) notify() {
	w.mu.Lock()
	w.signalled = true
	w.mu.Unlock()
	w.cond.Broadcast()
}

func (w *syncWaiter) wait(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.cond.Broadcast()
			w.mu.Unlock()
		case <-done:
		}
	}()

	w.mu.Lock()
	defer w.mu.Unlock()
	for !w.signalled {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.cond.Wait()
	}
	w.signalled = false
	return nil
}

// bareWaiter never actually parks: notify is a no-op and wait yields once
// to the scheduler, leaving the retry loop in Endpoint.RecvWait to spin.
type bareWaiter struct{}

func (bareWaiter) notify() {}

func (bareWaiter) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}
