package lifecycle

import (
	"context"
	"testing"
	"time"
)

func TestSlotFillThenWait(t *testing.T) {
	var s Slot[int]
	guard, ok := s.Open(SlotDiscard, nil)
	if !ok {
		t.Fatal("expected Open to succeed")
	}
	guard.Fill(42)

	v, ok := s.WaitForData(context.Background())
	if !ok || v != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", v, ok)
	}
}

func TestSlotOpenIsSingleUse(t *testing.T) {
	var s Slot[int]
	if _, ok := s.Open(SlotDiscard, nil); !ok {
		t.Fatal("first Open should succeed")
	}
	if _, ok := s.Open(SlotDiscard, nil); ok {
		t.Fatal("second Open should fail")
	}
}

func TestSlotDiscardWithoutFillReleasesWaiters(t *testing.T) {
	var s Slot[int]
	guard, _ := s.Open(SlotDiscard, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := s.WaitForData(context.Background())
		if ok {
			t.Error("expected ok=false for a discarded slot")
		}
	}()

	guard.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForData did not unblock after discard")
	}
}

type fakeReleaser struct {
	closed bool
}

func (f *fakeReleaser) Close() { f.closed = true }

func TestSlotWaitPolicyClosesFlushGuardOnCompletion(t *testing.T) {
	var s Slot[int]
	fr := &fakeReleaser{}
	guard, _ := s.Open(SlotWait, fr)
	guard.Fill(1)

	if !fr.closed {
		t.Fatal("expected onWait releaser to be closed once slot completes")
	}
}

func TestSlotWaitForDataContextCancel(t *testing.T) {
	var s Slot[int]
	_, _ = s.Open(SlotDiscard, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := s.WaitForData(ctx)
	if ok {
		t.Fatal("expected ok=false on context cancellation")
	}
}

func TestSlotSnapshotNonBlocking(t *testing.T) {
	var s Slot[int]
	if _, ok := s.Snapshot(); ok {
		t.Fatal("expected empty snapshot before fill")
	}
	guard, _ := s.Open(SlotDiscard, nil)
	guard.Fill(9)
	v, ok := s.Snapshot()
	if !ok || v != 9 {
		t.Fatalf("got (%v, %v)", v, ok)
	}
}
