// File: bridge/submit.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Submit is the submitter's half of the uring<->driver bridge (spec.md
// §4.4): it can allocate ops on the shared driver and publish their
// descriptions on the submission ring, and it drains the completion
// ring to feed results back into that same driver. It cannot complete
// an op directly — that half of the API lives only on Receive, so a
// misdirected call is a compile error rather than a runtime check.
package bridge

import (
	"github.com/lvyuemeng/evering/opdriver"
	"github.com/lvyuemeng/evering/opfuture"
	"github.com/lvyuemeng/evering/ringbuf"
)

// Submit is the submit-side role object for a Q/R/Ext bridge instance.
type Submit[Q any, R any, Ext any] struct {
	driver opdriver.Driver[R, Ext]
	sq     *ringbuf.Endpoint[SQEnvelope[Q]]
	cq     *ringbuf.Endpoint[CQEnvelope[R]]
}

// NewSubmit builds the submit-side role over sqRing (submission ring,
// this side takes endpoint A) and cqRing (completion ring, this side
// takes endpoint B), both sharing driver with the paired Receive.
func NewSubmit[Q any, R any, Ext any](driver opdriver.Driver[R, Ext], sqRing *ringbuf.Ring[SQEnvelope[Q]], cqRing *ringbuf.Ring[CQEnvelope[R]]) *Submit[Q, R, Ext] {
	return &Submit[Q, R, Ext]{driver: driver, sq: sqRing.EndpointA(), cq: cqRing.EndpointB()}
}

// Submit allocates a fresh op, publishes payload on the submission ring,
// and returns a pollable Op. cancel is the submit-time release glue for
// payload's resources if the op is dropped before completing; complete
// is the result-typed release glue run instead if the op completes but
// is dropped unpolled (nil if R needs no release). If the ring is full
// the op is cancelled immediately and the ring error is returned.
func (s *Submit[Q, R, Ext]) Submit(payload Q, cancel func() opdriver.Cancellation, complete func(R)) (*opfuture.Op[R, Ext], error) {
	id := s.driver.Submit()
	if err := s.sq.Send(SQEnvelope[Q]{Id: id, Payload: payload}); err != nil {
		s.driver.Cancel(id, opdriver.NoopCancellation())
		return nil, err
	}
	return opfuture.New(s.driver, id, cancel, complete), nil
}

// SubmitExt is the SubmitExt-carrying variant, storing ext on the driver
// slot alongside the op so a cancelled completion can report it back.
func (s *Submit[Q, R, Ext]) SubmitExt(payload Q, ext Ext, cancel func() opdriver.Cancellation, complete func(R)) (*opfuture.Op[R, Ext], error) {
	id := s.driver.SubmitExt(ext)
	if err := s.sq.Send(SQEnvelope[Q]{Id: id, Payload: payload}); err != nil {
		s.driver.Cancel(id, opdriver.NoopCancellation())
		return nil, err
	}
	return opfuture.New(s.driver, id, cancel, complete), nil
}

// DrainCompletions applies up to max completions currently waiting on
// the completion ring to the driver, returning the number applied. Stale
// or cancelled completions are silently dropped by the driver itself
// (spec.md §4.2); DrainCompletions does not surface that as an error.
func (s *Submit[Q, R, Ext]) DrainCompletions(max int) int {
	envs := s.cq.RecvBulk(max)
	for _, env := range envs {
		_ = s.driver.Complete(env.Id, env.Result)
	}
	return len(envs)
}

// IsConnected reports whether the receive side is still attached.
func (s *Submit[Q, R, Ext]) IsConnected() bool {
	return s.sq.IsConnected() && s.cq.IsConnected()
}

// Close detaches this side's ring endpoints. The driver is not owned by
// Submit and is left running for Receive to keep using.
func (s *Submit[Q, R, Ext]) Close() {
	s.sq.Close()
	s.cq.Close()
}
