// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types shared across ringbuf, opdriver, shmregion, allocator
// and token. Recoverable kinds are plain sentinels; kinds that need extra
// context carry an ErrorCode via Error.

package api

import "fmt"

// Sentinel errors. Ring transport and op driver errors are recoverable at
// the call site (caller retries, or treats as a late/unknown completion);
// region errors are terminal for the affected region; an allocator error
// fails only the one call and leaves the allocator usable.
var (
	ErrRingFull         = fmt.Errorf("ring: full")
	ErrRingEmpty        = fmt.Errorf("ring: empty")
	ErrRingDisconnected = fmt.Errorf("ring: peer endpoint disconnected")
	ErrRingInUse        = fmt.Errorf("ring: still in use, cannot reclaim parts")

	ErrOpCancelled = fmt.Errorf("op: cancelled or unknown id")

	ErrOutOfMemory    = fmt.Errorf("allocator: out of memory")
	ErrLayoutMismatch = fmt.Errorf("allocator: layout mismatch on deallocate")

	ErrTypeMismatch = fmt.Errorf("token: fingerprint mismatch")
)

// ErrorCode distinguishes region-attach failure modes that callers may
// want to branch on without string-matching an error.
type ErrorCode int

const (
	ErrCodeRegionCorrupted ErrorCode = iota
	ErrCodeMagicMismatch
	ErrCodeVersionMismatch
)

// Error is a structured error for region-attach failures (spec §7:
// RegionCorrupted, MagicMismatch, VersionMismatch — terminal, not retried).
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}
