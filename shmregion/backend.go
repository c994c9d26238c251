// File: shmregion/backend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backend abstracts the OS-specific mapping mechanism behind the shape
// spec.md §6 specifies: "open(spec) -> (raw_addr, len, close_fn)" /
// "create(spec, len) -> ...". Concrete backends live in
// backend_unix.go (golang.org/x/sys/unix Mmap/Munmap, grounded on
// DanielLaubacher-gogrep/internal/input/mmap.go), backend_windows.go
// (golang.org/x/sys/windows section objects, grounded on
// pool/numa_windows.go's VirtualAllocExNuma pattern), and
// backend_inprocess.go (make([]byte, n), supplementing spec.md for
// single-address-space / channel-mode use, spec.md §1).

package shmregion

// Spec names the backing object a region maps: a path for file-backed
// shared memory, or an opaque name for a named OS mapping. The
// in-process backend uses only Name, as the key of its process-wide
// store. Length is required by Open on
// backends that have no fstat-equivalent way to recover a mapping's size
// (Windows); Unix ignores it and trusts Fstat instead.
type Spec struct {
	Path   string
	Name   string
	Length int
}

// Backend is the OS-mapping contract a Region is built on.
type Backend interface {
	// Open attaches to an existing mapping and returns its base address,
	// length, and a close callback that unmaps it.
	Open(spec Spec) (addr uintptr, length int, closeFn func() error, err error)
	// Create allocates a new mapping of the given length, zero-initialized.
	Create(spec Spec, length int) (addr uintptr, closeFn func() error, err error)
}
