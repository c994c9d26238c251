// File: opdriver/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Driver is the contract spec.md §4.2 specifies, implemented twice:
// Locked (a mutex-guarded slab, reference implementation) and Unlocked
// (a lock-free slab using per-slot CAS transitions). Both satisfy this
// same interface and are tested against the identical state machine.
package opdriver

// Driver allocates op ids, holds per-op state while in flight, and
// routes completions to their awaiters. R is the completion result type;
// Ext is an optional driver-side extension value associated with an id
// at submit time (spec.md §4.2 "submit_ext").
type Driver[R any, Ext any] interface {
	// Submit allocates a fresh id with a unique generation.
	Submit() OpId
	// SubmitExt is Submit, additionally storing ext for later retrieval
	// on the cancelled-completion edge.
	SubmitExt(ext Ext) OpId
	// Complete installs a result. If the op is cancelled, runs the
	// cancellation's drop glue and returns ErrOpCancelled; an unknown or
	// stale id also returns ErrOpCancelled (late arrival).
	Complete(id OpId, result R) error
	// CompleteExt is Complete, returning the stored extension on the
	// cancelled path.
	CompleteExt(id OpId, result R) (Ext, error)
	// Contains reports whether id still names a live (non-free) slot.
	Contains(id OpId) bool
	// Poll consumes a completed result and frees the slot; returns
	// (zero, false, nil) while still pending, and an error for an
	// unknown, stale, or cancelled id.
	Poll(id OpId) (R, bool, error)
	// Cancel marks the slot cancelled and stores cancellation, unless the
	// slot is already Completed, in which case cancellation is never run
	// (the submit-time resources it guards were already consumed by the
	// completer) and Cancel instead reclaims the slot immediately and
	// hands the queued result back via (result, true), so the caller can
	// run result-typed release glue on it rather than silently dropping
	// it. The ordinary not-yet-completed path returns (zero, false).
	Cancel(id OpId, cancellation Cancellation) (result R, reclaimed bool)
	// Ready returns a channel that becomes readable once id's slot
	// transitions to Completed, for the op future to wait on.
	Ready(id OpId) <-chan struct{}
}
