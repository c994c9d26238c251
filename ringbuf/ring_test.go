package ringbuf

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestBasicRoundTrip implements spec.md §8 scenario 1: A sends [1..5] via
// SendBulk, B drains, doubles each, returns via its own send; A drains
// and expects [2,4,6,8,10] in order.
func TestBasicRoundTrip(t *testing.T) {
	r := New[int](8, ModeSync)
	a := r.EndpointA()
	b := r.EndpointB()

	sent := []int{1, 2, 3, 4, 5}
	n, err := a.SendBulk(sent)
	if err != nil || n != len(sent) {
		t.Fatalf("send_bulk: n=%d err=%v", n, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for i := 0; i < len(sent); i++ {
			v, err := b.RecvWait(ctx)
			if err != nil {
				t.Errorf("b recv: %v", err)
				return
			}
			if err := b.Send(v * 2); err != nil {
				t.Errorf("b send: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i, want := range []int{2, 4, 6, 8, 10} {
		got, err := a.RecvWait(ctx)
		if err != nil {
			t.Fatalf("a recv[%d]: %v", i, err)
		}
		if got != want {
			t.Fatalf("a recv[%d]: got %d want %d", i, got, want)
		}
	}
}

// TestPeerSymmetricEcho implements spec.md §8 scenario 4: both sides
// construct a UringEither[int] against one ring, each sends [1..5] and
// expects to receive [1..5].
func TestPeerSymmetricEcho(t *testing.T) {
	r := New[int](8, ModeBare)

	run := func(ep *UringEither[int], wg *sync.WaitGroup, errs chan<- error) {
		defer wg.Done()
		if n, err := ep.SendBulk([]int{1, 2, 3, 4, 5}); err != nil || n != 5 {
			if err == nil {
				err = fmt.Errorf("sent %d of 5", n)
			}
			errs <- err
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for i := 1; i <= 5; i++ {
			got, err := ep.RecvWait(ctx)
			if err != nil {
				errs <- err
				return
			}
			if got != i {
				errs <- fmt.Errorf("got %d want %d", got, i)
				return
			}
		}
	}

	epA, err := NewUringEither[int](r)
	if err != nil {
		t.Fatalf("assign side 1: %v", err)
	}
	epB, err := NewUringEither[int](r)
	if err != nil {
		t.Fatalf("assign side 2: %v", err)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go run(epA, &wg, errs)
	go run(epB, &wg, errs)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("echo failed: %v", err)
		}
	}
}

func TestSendFullAndDisconnected(t *testing.T) {
	r := New[int](2, ModeBare)
	a := r.EndpointA()
	b := r.EndpointB()

	if err := a.Send(1); err != nil {
		t.Fatalf("send 1: %v", err)
	}
	if err := a.Send(2); err != nil {
		t.Fatalf("send 2: %v", err)
	}
	if err := a.Send(3); err == nil {
		t.Fatalf("expected ring full error")
	}

	b.Close()
	if err := a.Send(4); err == nil {
		t.Fatalf("expected disconnected error after peer closed")
	}
}

func TestIntoPartsRequiresBothDropped(t *testing.T) {
	r := New[int](4, ModeBare)
	a := r.EndpointA()
	b := r.EndpointB()

	if _, _, err := r.IntoParts(); err == nil {
		t.Fatalf("expected ErrRingInUse while both endpoints live")
	}
	a.Close()
	if _, _, err := r.IntoParts(); err == nil {
		t.Fatalf("expected ErrRingInUse while one endpoint still live")
	}
	b.Close()
	bufA, bufB, err := r.IntoParts()
	if err != nil {
		t.Fatalf("into_parts: %v", err)
	}
	if len(bufA) != 4 || len(bufB) != 4 {
		t.Fatalf("unexpected part lengths: %d %d", len(bufA), len(bufB))
	}
}
