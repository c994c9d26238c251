//go:build !linux && !windows

// File: internal/pin/pin_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub for platforms without a supported pinning syscall, grounded on
// affinity_stub.go.

package pin

func pinCurrentThread(cpuID int) error { return nil }
