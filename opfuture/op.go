// File: opfuture/op.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Op is the pollable handle over an opdriver.OpId spec.md §4.3 describes:
// on Poll it queries the driver; on not-yet-ready it waits on the
// driver's readiness channel; on ready it returns the output and stops
// referencing the driver. Close (the Go rendering of "drop") runs
// exactly one of two distinct glue callbacks, per spec.md §4.3 and §6's
// operation-description interface: the submit-time cancel callback if
// the op never completed (its resources were never consumed and must be
// freed), or the result-typed complete callback if the op had already
// completed but was never polled (the submit-time resources were
// already consumed by the completer, so only the queued result — which
// may itself name a separate shared-memory allocation — needs release).
//
// The op holds only a driver reference, never extending its lifetime
// beyond what the caller already keeps alive — spec.md §9's "weak handle
// from op to driver" is rendered in Go simply as holding the driver
// interface value itself, since Go has no reference-counted Rc/Arc whose
// strength needs to be chosen. Neither driver implementation has a
// teardown path: when a driver is discarded, the cancellations stored
// for ops still outstanding in it are never run.
package opfuture

import (
	"context"

	"github.com/lvyuemeng/evering/opdriver"
)

// Op wraps one in-flight operation on driver d.
type Op[R any, Ext any] struct {
	id       opdriver.OpId
	driver   opdriver.Driver[R, Ext]
	cancel   func() opdriver.Cancellation
	complete func(R)
	finished bool
}

// New wraps id on driver d. cancel produces the cancellation payload to
// submit if the op is dropped before completion (spec.md §4.3: "a
// cancellation payload produced by the user-supplied cancel callback of
// the operation's description"); it is invoked at most once. complete is
// the result-typed release glue run instead, at most once, if the op
// was already Completed by the time it is dropped unpolled (spec.md §6's
// "complete(self, &driver, raw_result) -> Output", here specialized to
// releasing rather than transforming); pass nil if R needs no release
// (e.g. it carries no shared-memory allocation of its own).
func New[R any, Ext any](driver opdriver.Driver[R, Ext], id opdriver.OpId, cancel func() opdriver.Cancellation, complete func(R)) *Op[R, Ext] {
	return &Op[R, Ext]{id: id, driver: driver, cancel: cancel, complete: complete}
}

// Poll queries the driver once. If the result is not yet ready it waits
// on the driver's readiness channel until one arrives or ctx is done.
func (o *Op[R, Ext]) Poll(ctx context.Context) (R, error) {
	var zero R
	if o.finished {
		return zero, ErrAlreadyFinished
	}
	for {
		result, ok, err := o.driver.Poll(o.id)
		if err != nil {
			o.finished = true
			return zero, err
		}
		if ok {
			o.finished = true
			return result, nil
		}
		select {
		case <-o.driver.Ready(o.id):
			// loop and re-poll; Poll() itself frees the slot on success
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close runs the cancellation callback if the op never completed, or the
// result-typed complete callback if it had already completed unpolled,
// freeing the slot either way. Calling Close more than once is a no-op.
func (o *Op[R, Ext]) Close() {
	if o.finished {
		return
	}
	o.finished = true
	var cancellation opdriver.Cancellation
	if o.cancel != nil {
		cancellation = o.cancel()
	} else {
		cancellation = opdriver.NoopCancellation()
	}
	if result, reclaimed := o.driver.Cancel(o.id, cancellation); reclaimed {
		if o.complete != nil {
			o.complete(result)
		}
	}
}
