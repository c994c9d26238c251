// File: shmregion/backend_inprocess.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// inprocessBackend supplements spec.md: §1 requires Evering to be usable
// "within a single address space" (channel mode), but §4.5's OS-backend
// contract is written as if a region always comes from a real OS mapping.
// This backend closes that gap with a plain make([]byte, n) heap, keyed
// by Spec.Name so multiple Region handles in one process can attach to
// the same backing slice the way two real processes attach to the same
// file — which is exactly what the cross-process-attach test (spec.md
// §8 scenario 5) uses to simulate two participants in one test binary.

package shmregion

import (
	"fmt"
	"sync"
)

var (
	inprocessMu    sync.Mutex
	inprocessStore = map[string][]byte{}
)

type inprocessBackend struct{}

// NewInProcessBackend returns a backend with no OS dependency, for
// channel-mode single-address-space use and for tests.
func NewInProcessBackend() Backend { return inprocessBackend{} }

func (inprocessBackend) Open(spec Spec) (uintptr, int, func() error, error) {
	inprocessMu.Lock()
	defer inprocessMu.Unlock()
	data, ok := inprocessStore[spec.Name]
	if !ok {
		return 0, 0, nil, fmt.Errorf("shmregion: no in-process region named %q", spec.Name)
	}
	return addrOf(data), len(data), func() error { return nil }, nil
}

func (inprocessBackend) Create(spec Spec, length int) (uintptr, func() error, error) {
	inprocessMu.Lock()
	defer inprocessMu.Unlock()
	data := make([]byte, length)
	inprocessStore[spec.Name] = data
	closeFn := func() error {
		inprocessMu.Lock()
		delete(inprocessStore, spec.Name)
		inprocessMu.Unlock()
		return nil
	}
	return addrOf(data), closeFn, nil
}
