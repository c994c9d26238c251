package shmregion

import (
	"testing"
	"unsafe"

	"github.com/lvyuemeng/evering/allocator"
	"github.com/lvyuemeng/evering/relptr"
	"github.com/lvyuemeng/evering/token"
)

type payload struct {
	X int64
	Y int64
}

// TestCrossProcessAttachSimulated exercises spec.md §8 scenario 5 within
// one test binary: the in-process backend stands in for two real
// processes sharing one named mapping.
func TestCrossProcessAttachSimulated(t *testing.T) {
	backend := NewInProcessBackend()
	const name = "evering-test-region"

	creator, err := Create(backend, Spec{Name: name}, 1<<16)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	alloc := allocator.NewLocked(creator.Heap())
	creator.Header().SetAllocatorRoot(0)
	creator.Finalize()

	box, err := relptr.NewPBox[payload](alloc, payload{X: 11, Y: 22})
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	tok := token.FromBox[payload](box)
	erased := tok.Erase()

	attacher, err := Map(backend, Spec{Name: name})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if attacher.Header().Refcount() != 2 {
		t.Fatalf("expected refcount 2 after attach, got %d", attacher.Header().Refcount())
	}

	typed, ok := token.Identify[payload](erased, tok.Offset)
	if !ok {
		t.Fatalf("identify should succeed")
	}
	rebuilt := typed.Reconstruct(alloc)
	got := *rebuilt.Get()
	if got != (payload{X: 11, Y: 22}) {
		t.Fatalf("unexpected payload: %+v", got)
	}
	rebuilt.Release()

	if err := attacher.Drop(); err != nil {
		t.Fatalf("attacher drop: %v", err)
	}
	if attacher.Header().Refcount() != 1 {
		t.Fatalf("expected refcount 1 after attacher drop, got %d", attacher.Header().Refcount())
	}
	if err := creator.Drop(); err != nil {
		t.Fatalf("creator drop: %v", err)
	}
	if _, _, _, err := backend.Open(Spec{Name: name}); err == nil {
		t.Fatalf("expected backing region to be removed after final drop")
	}
}

func TestMapRejectsMagicMismatch(t *testing.T) {
	backend := NewInProcessBackend()
	const name = "evering-test-bad-magic"
	_, closeFn, err := backend.Create(Spec{Name: name}, 256)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer closeFn()

	if _, err := Map(backend, Spec{Name: name}); err == nil {
		t.Fatalf("expected magic mismatch error")
	}
}

func TestHeaderSizeMatchesStruct(t *testing.T) {
	if HeaderSize != int(unsafe.Sizeof(Header{})) {
		t.Fatalf("HeaderSize constant (%d) diverged from struct size (%d)", HeaderSize, unsafe.Sizeof(Header{}))
	}
}
