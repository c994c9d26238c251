//go:build windows

// File: shmregion/backend_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows shared-memory backend: a region is a named file mapping object
// created with CreateFileMappingW / opened and viewed with
// MapViewOfFile, the section-object analogue of Unix mmap. Grounded on
// pool/numa_windows.go's VirtualAllocExNuma pattern (syscall.NewLazyDLL /
// kernel32 procs); unlike that file, it calls the golang.org/x/sys/windows
// wrappers for the file-mapping APIs directly rather than through
// LazyDLL + NewProc.

package shmregion

import (
	"fmt"

	"golang.org/x/sys/windows"
)

const (
	fileMapAllAccess = 0xF001F
	pageReadWrite    = 0x04
)

type windowsBackend struct{}

// NewOSBackend returns the platform's real shared-memory backend.
func NewOSBackend() Backend { return windowsBackend{} }

func (windowsBackend) Open(spec Spec) (uintptr, int, func() error, error) {
	namePtr, err := windows.UTF16PtrFromString(spec.Name)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("shmregion: encode name %s: %w", spec.Name, err)
	}
	handle, err := windows.OpenFileMapping(fileMapAllAccess, false, namePtr)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("shmregion: OpenFileMapping %s: %w", spec.Name, err)
	}
	addr, err := windows.MapViewOfFile(handle, fileMapAllAccess, 0, 0, uintptr(spec.Length))
	if err != nil {
		windows.CloseHandle(handle)
		return 0, 0, nil, fmt.Errorf("shmregion: MapViewOfFile %s: %w", spec.Name, err)
	}
	length := spec.Length
	closeFn := func() error {
		err := windows.UnmapViewOfFile(addr)
		windows.CloseHandle(handle)
		return err
	}
	return addr, length, closeFn, nil
}

func (windowsBackend) Create(spec Spec, length int) (uintptr, func() error, error) {
	namePtr, err := windows.UTF16PtrFromString(spec.Name)
	if err != nil {
		return 0, nil, fmt.Errorf("shmregion: encode name %s: %w", spec.Name, err)
	}
	hi := uint32(uint64(length) >> 32)
	lo := uint32(uint64(length) & 0xFFFFFFFF)
	handle, err := windows.CreateFileMapping(windows.InvalidHandle, nil, pageReadWrite, hi, lo, namePtr)
	if err != nil {
		return 0, nil, fmt.Errorf("shmregion: CreateFileMapping %s: %w", spec.Name, err)
	}
	addr, err := windows.MapViewOfFile(handle, fileMapAllAccess, 0, 0, uintptr(length))
	if err != nil {
		windows.CloseHandle(handle)
		return 0, nil, fmt.Errorf("shmregion: MapViewOfFile %s: %w", spec.Name, err)
	}
	closeFn := func() error {
		err := windows.UnmapViewOfFile(addr)
		windows.CloseHandle(handle)
		return err
	}
	return addr, closeFn, nil
}
