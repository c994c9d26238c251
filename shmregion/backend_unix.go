//go:build linux || darwin

// File: shmregion/backend_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unix shared-memory backend: a region is a file (typically under
// /dev/shm or a path the caller provisions) mapped with
// golang.org/x/sys/unix.Mmap, following the same mmap/fstat/close
// sequencing as DanielLaubacher-gogrep/internal/input/mmap.go (unix.Mmap,
// unix.Munmap, unix.Fstat, unix.Madvise).

package shmregion

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

type unixBackend struct{}

// NewOSBackend returns the platform's real shared-memory backend.
func NewOSBackend() Backend { return unixBackend{} }

func (unixBackend) Open(spec Spec) (uintptr, int, func() error, error) {
	f, err := os.OpenFile(spec.Path, os.O_RDWR, 0)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("shmregion: open %s: %w", spec.Path, err)
	}
	fd := int(f.Fd())

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		f.Close()
		return 0, 0, nil, fmt.Errorf("shmregion: fstat %s: %w", spec.Path, err)
	}
	length := int(stat.Size)

	data, err := unix.Mmap(fd, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return 0, 0, nil, fmt.Errorf("shmregion: mmap %s: %w", spec.Path, err)
	}
	unix.Madvise(data, unix.MADV_WILLNEED)

	addr := addrOf(data)
	closeFn := func() error {
		err := unix.Munmap(data)
		f.Close()
		return err
	}
	return addr, length, closeFn, nil
}

func (unixBackend) Create(spec Spec, length int) (uintptr, func() error, error) {
	f, err := os.OpenFile(spec.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, nil, fmt.Errorf("shmregion: create %s: %w", spec.Path, err)
	}
	fd := int(f.Fd())
	if err := unix.Ftruncate(fd, int64(length)); err != nil {
		f.Close()
		return 0, nil, fmt.Errorf("shmregion: truncate %s: %w", spec.Path, err)
	}

	data, err := unix.Mmap(fd, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return 0, nil, fmt.Errorf("shmregion: mmap %s: %w", spec.Path, err)
	}

	addr := addrOf(data)
	closeFn := func() error {
		err := unix.Munmap(data)
		f.Close()
		return err
	}
	return addr, closeFn, nil
}
