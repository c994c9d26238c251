package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/lvyuemeng/evering/opdriver"
	"github.com/lvyuemeng/evering/ringbuf"
)

type request struct {
	A, B int
}

func newBridgePair(t *testing.T) (*Submit[request, int, struct{}], *Receive[request, int, struct{}]) {
	t.Helper()
	driver := opdriver.NewLocked[int, struct{}]()
	sqRing := ringbuf.New[SQEnvelope[request]](8, ringbuf.ModeBare)
	cqRing := ringbuf.New[CQEnvelope[int]](8, ringbuf.ModeBare)
	sub := NewSubmit[request, int, struct{}](driver, sqRing, cqRing)
	recv := NewReceive[request, int, struct{}](driver, sqRing, cqRing)
	return sub, recv
}

func TestSubmitReceiveRoundTrip(t *testing.T) {
	sub, recv := newBridgePair(t)

	op, err := sub.Submit(request{A: 3, B: 4}, nil, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	envs := recv.RecvBulk(4)
	if len(envs) != 1 {
		t.Fatalf("expected 1 pending sqe, got %d", len(envs))
	}
	req := envs[0].Payload
	if err := recv.Complete(envs[0].Id, req.A+req.B); err != nil {
		t.Fatalf("complete: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err := op.Poll(ctx)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if result != 7 {
		t.Fatalf("result = %d, want 7", result)
	}

	// The completion ring still carries the record Receive.Complete
	// published; draining it now is harmless since the driver slot was
	// already freed by Poll and the stale-generation apply is dropped.
	if n := sub.DrainCompletions(4); n != 1 {
		t.Fatalf("expected 1 leftover completion record, got %d", n)
	}
}

func TestSubmitCancelBeforeReceiveProcesses(t *testing.T) {
	sub, recv := newBridgePair(t)
	ran := false

	op, err := sub.Submit(request{A: 1, B: 1}, func() opdriver.Cancellation {
		return opdriver.RecycleCancellation(func() { ran = true })
	}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	op.Close()

	envs := recv.RecvBulk(4)
	if len(envs) != 1 {
		t.Fatalf("expected 1 pending sqe, got %d", len(envs))
	}
	if err := recv.Complete(envs[0].Id, 2); err != opdriver.ErrOpCancelled {
		t.Fatalf("expected ErrOpCancelled, got %v", err)
	}
	if !ran {
		t.Fatalf("cancellation glue should have run")
	}
}

func TestReceiveCompleteExtSurvivesCancelledPath(t *testing.T) {
	driver := opdriver.NewLocked[int, string]()
	sqRing := ringbuf.New[SQEnvelope[request]](8, ringbuf.ModeBare)
	cqRing := ringbuf.New[CQEnvelope[int]](8, ringbuf.ModeBare)
	sub := NewSubmit[request, int, string](driver, sqRing, cqRing)
	recv := NewReceive[request, int, string](driver, sqRing, cqRing)

	op, err := sub.SubmitExt(request{A: 1, B: 1}, "payload", nil, nil)
	if err != nil {
		t.Fatalf("submit ext: %v", err)
	}
	op.Close()

	envs := recv.RecvBulk(4)
	ext, err := recv.CompleteExt(envs[0].Id, 2)
	if err != opdriver.ErrOpCancelled {
		t.Fatalf("expected ErrOpCancelled, got %v", err)
	}
	if ext != "payload" {
		t.Fatalf("expected extension to survive, got %q", ext)
	}
}

func TestReceivePinDrainLoopNoopsOnNegativeCPU(t *testing.T) {
	_, recv := newBridgePair(t)
	if err := recv.PinDrainLoop(-1); err != nil {
		t.Fatalf("PinDrainLoop(-1): %v", err)
	}
}

func TestBridgeCloseMarksDisconnected(t *testing.T) {
	sub, recv := newBridgePair(t)
	if !sub.IsConnected() || !recv.IsConnected() {
		t.Fatalf("expected both sides connected initially")
	}
	sub.Close()
	if recv.IsConnected() {
		t.Fatalf("receive should observe submit side disconnected")
	}
}
