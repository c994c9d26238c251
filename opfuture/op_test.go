package opfuture

import (
	"context"
	"testing"
	"time"

	"github.com/lvyuemeng/evering/allocator"
	"github.com/lvyuemeng/evering/opdriver"
	"github.com/lvyuemeng/evering/relptr"
)

func TestOpPollBlocksUntilComplete(t *testing.T) {
	d := opdriver.NewLocked[int, struct{}]()
	id := d.Submit()
	op := New[int, struct{}](d, id, nil, nil)

	done := make(chan struct{})
	var result int
	var pollErr error
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		result, pollErr = op.Poll(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	if err := d.Complete(id, 123); err != nil {
		t.Fatalf("complete: %v", err)
	}
	<-done
	if pollErr != nil || result != 123 {
		t.Fatalf("result=%d err=%v", result, pollErr)
	}
}

func TestOpCloseBeforeCompleteRunsCancellation(t *testing.T) {
	d := opdriver.NewLocked[int, struct{}]()
	id := d.Submit()
	ran := false
	op := New[int, struct{}](d, id, func() opdriver.Cancellation {
		return opdriver.RecycleCancellation(func() { ran = true })
	}, nil)

	op.Close()
	if !d.Contains(id) {
		t.Fatalf("cancelled slot stays tracked until the late completion lands")
	}
	if err := d.Complete(id, 0); err != opdriver.ErrOpCancelled {
		t.Fatalf("expected ErrOpCancelled, got %v", err)
	}
	if !ran {
		t.Fatalf("cancellation glue should have run")
	}
	if d.Contains(id) {
		t.Fatalf("slot should be freed after the late completion")
	}
}

func TestOpCloseAfterCompleteDrainsResult(t *testing.T) {
	d := opdriver.NewLocked[int, struct{}]()
	id := d.Submit()
	op := New[int, struct{}](d, id, nil, nil)

	if err := d.Complete(id, 7); err != nil {
		t.Fatalf("complete: %v", err)
	}
	op.Close()
	if d.Contains(id) {
		t.Fatalf("slot should be freed immediately")
	}
}

// TestOpCloseAfterCompleteRunsCompleteGlueOnResult exercises the case a
// bare int result hides: a completed-but-unpolled result that itself
// names a separate shared-memory allocation. Close must run the
// result-typed complete glue, not the submit-time cancel glue, so the
// completer-produced allocation is released instead of leaked.
func TestOpCloseAfterCompleteRunsCompleteGlueOnResult(t *testing.T) {
	heap := make([]byte, 1<<16)
	alloc := allocator.NewLocked(heap)
	before := alloc.FreeBytes()

	inputBox, err := relptr.NewPBox[[64]byte](alloc, [64]byte{})
	if err != nil {
		t.Fatalf("allocate input: %v", err)
	}

	d := opdriver.NewLocked[*relptr.PBox[[128]byte], struct{}]()
	id := d.Submit()
	cancelRan := false
	completeRan := false
	op := New[*relptr.PBox[[128]byte], struct{}](d, id,
		func() opdriver.Cancellation {
			return opdriver.RecycleCancellation(func() {
				cancelRan = true
				inputBox.Release()
			})
		},
		func(result *relptr.PBox[[128]byte]) {
			completeRan = true
			result.Release()
		},
	)

	outputBox, err := relptr.NewPBox[[128]byte](alloc, [128]byte{})
	if err != nil {
		t.Fatalf("allocate output: %v", err)
	}
	if err := d.Complete(id, outputBox); err != nil {
		t.Fatalf("complete: %v", err)
	}

	op.Close()

	if cancelRan {
		t.Fatalf("submit-time cancellation must not run once the op already completed")
	}
	if !completeRan {
		t.Fatalf("result-typed complete glue should have run")
	}
	// Stands in for the completer having consumed/freed the staged input
	// itself once it produced outputBox.
	inputBox.Release()
	if got := alloc.FreeBytes(); got != before {
		t.Fatalf("both allocations should be reclaimed: free bytes %d want %d", got, before)
	}
}

func TestOpPollAfterFinishErrors(t *testing.T) {
	d := opdriver.NewLocked[int, struct{}]()
	id := d.Submit()
	op := New[int, struct{}](d, id, nil, nil)
	d.Complete(id, 1)

	ctx := context.Background()
	if _, err := op.Poll(ctx); err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if _, err := op.Poll(ctx); err != ErrAlreadyFinished {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}
}
