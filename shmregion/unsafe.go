// File: shmregion/unsafe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package shmregion

import "unsafe"

// addrOf returns the base address of a freshly-mapped byte slice, for
// backends to report through the Backend.Open/Create contract (which
// speaks in raw addresses per spec.md §6, not Go slices, since the
// region must also be reconstructible from an address handed across a
// process boundary).
func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// bytesFromAddr reconstructs a []byte view over length bytes starting at
// addr. Used once per Region to turn a backend's raw address back into a
// slice the header/allocator code can index into safely.
func bytesFromAddr(addr uintptr, length int) []byte {
	if addr == 0 || length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

// ptrTo reinterprets a field pointer as an unsafe.Pointer, the bridge used
// to overlay atomic.Uint32/Uint64 wrapper types directly on shared memory
// bytes (spec.md §6: "atomic fields use atomic wrapper types over the raw
// memory"), mirroring core/concurrency/ring.go's cell pattern.
func ptrTo[T any](p *T) unsafe.Pointer {
	return unsafe.Pointer(p)
}

// headerAt reinterprets the first HeaderSize bytes of mem as a *Header.
// mem must be at least HeaderSize bytes and 8-byte aligned, which holds
// for every backend in this package (mmap and make([]byte) both return
// page/slice-aligned memory).
func headerAt(mem []byte) *Header {
	return (*Header)(unsafe.Pointer(&mem[0]))
}
