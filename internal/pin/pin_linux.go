//go:build linux

// File: internal/pin/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux pinning via golang.org/x/sys/unix.SchedSetaffinity — pure Go, no
// CGO. affinity_linux.go ships both a CGO pthread_setaffinity_np path
// and a nocgo stub (pin_linux_nocgo.go); this follows the nocgo
// alternative rather than introduce CGO into a library whose point is
// portability.

package pin

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func pinCurrentThread(cpuID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
