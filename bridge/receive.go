// File: bridge/receive.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Receive is the completer's half of the bridge (spec.md §4.4): it
// drains the submission ring for payloads to act on, and it is the only
// side permitted to call the driver's complete, publishing the result
// on the completion ring in the same step. It cannot submit new ops.
package bridge

import (
	"context"

	"github.com/lvyuemeng/evering/internal/pin"
	"github.com/lvyuemeng/evering/opdriver"
	"github.com/lvyuemeng/evering/ringbuf"
)

// Receive is the receive-side role object for a Q/R/Ext bridge instance.
type Receive[Q any, R any, Ext any] struct {
	driver opdriver.Driver[R, Ext]
	sq     *ringbuf.Endpoint[SQEnvelope[Q]]
	cq     *ringbuf.Endpoint[CQEnvelope[R]]
}

// NewReceive builds the receive-side role over the same sqRing/cqRing
// pair handed to NewSubmit, taking the opposite endpoints, and sharing
// driver with the paired Submit.
func NewReceive[Q any, R any, Ext any](driver opdriver.Driver[R, Ext], sqRing *ringbuf.Ring[SQEnvelope[Q]], cqRing *ringbuf.Ring[CQEnvelope[R]]) *Receive[Q, R, Ext] {
	return &Receive[Q, R, Ext]{driver: driver, sq: sqRing.EndpointB(), cq: cqRing.EndpointA()}
}

// PinDrainLoop pins the calling goroutine's OS thread to cpuID before
// entering a long-running drain loop, keeping repeated reads of a
// shared-memory submission ring NUMA-local. cpuID < 0 leaves placement
// to the scheduler. Call this once from the goroutine that will run
// RecvWait/RecvBulk in a loop, not per-call.
func (r *Receive[Q, R, Ext]) PinDrainLoop(cpuID int) error {
	return pin.CurrentThread(cpuID)
}

// RecvBulk drains up to max pending submission-ring records without
// blocking.
func (r *Receive[Q, R, Ext]) RecvBulk(max int) []SQEnvelope[Q] {
	return r.sq.RecvBulk(max)
}

// RecvWait blocks (per the submission ring's Mode) for the next record.
func (r *Receive[Q, R, Ext]) RecvWait(ctx context.Context) (SQEnvelope[Q], error) {
	return r.sq.RecvWait(ctx)
}

// Complete applies result to id on the shared driver and publishes it on
// the completion ring. If the driver reports the op as cancelled, the
// caller must still run any extension-drop glue it was handed back; the
// completion is not republished on the ring in that case since there is
// no live op future left to observe it.
func (r *Receive[Q, R, Ext]) Complete(id opdriver.OpId, result R) error {
	if err := r.driver.Complete(id, result); err != nil {
		return err
	}
	return r.cq.Send(CQEnvelope[R]{Id: id, Result: result})
}

// CompleteExt is the complete_ext variant: on the cancelled path it
// returns the stored extension instead of publishing to the ring.
func (r *Receive[Q, R, Ext]) CompleteExt(id opdriver.OpId, result R) (Ext, error) {
	ext, err := r.driver.CompleteExt(id, result)
	if err != nil {
		return ext, err
	}
	return ext, r.cq.Send(CQEnvelope[R]{Id: id, Result: result})
}

// IsConnected reports whether the submit side is still attached.
func (r *Receive[Q, R, Ext]) IsConnected() bool {
	return r.sq.IsConnected() && r.cq.IsConnected()
}

// Close detaches this side's ring endpoints.
func (r *Receive[Q, R, Ext]) Close() {
	r.sq.Close()
	r.cq.Close()
}
