package lifecycle

import (
	"context"
	"sync"
)

// SlotPolicy controls what a Slot does when its writer side is dropped
// without ever filling it.
type SlotPolicy int

const (
	// SlotDiscard leaves the slot permanently empty.
	SlotDiscard SlotPolicy = iota
	// SlotWait holds a flush guard open until the slot is filled or
	// discarded, so the parent record is not emitted before the writer side
	// has made a final decision.
	SlotWait
)

// Slot models a value that may arrive asynchronously on another goroutine:
// Empty -> Open(writer) -> Filled(value) | Closed(still empty). A zero
// Slot is ready to use.
type Slot[T any] struct {
	mu       sync.Mutex
	opened   bool
	filled   bool
	value    T
	waitCh   chan struct{}
	onWait   Releaser
	policy   SlotPolicy
}

// Open reserves the writer side of the slot, returning a SlotGuard that
// must eventually be filled or closed. Open may be called at most once;
// subsequent calls return ok=false.
//
// If policy is SlotWait, onWait (typically a FlushGuard) is held open
// until the returned guard is closed or filled, deferring the owning
// record's emission until then. A non-nil onWait is held and closed the
// same way under SlotDiscard.
func (s *Slot[T]) Open(policy SlotPolicy, onWait Releaser) (*SlotGuard[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil, false
	}
	s.opened = true
	s.policy = policy
	s.onWait = onWait
	s.waitCh = make(chan struct{})
	return &SlotGuard[T]{slot: s}, true
}

func (s *Slot[T]) complete(v T, filled bool) {
	s.mu.Lock()
	if s.waitCh == nil || isClosed(s.waitCh) {
		s.mu.Unlock()
		return
	}
	s.filled = filled
	s.value = v
	ch := s.waitCh
	onWait := s.onWait
	s.onWait = nil
	s.mu.Unlock()

	close(ch)
	if onWait != nil {
		onWait.Close()
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// WaitForData blocks until the slot is filled, its writer closes it
// without filling, or ctx is done. ok is false in the latter two cases.
// On a slot that was never opened it returns at once with ok=false.
func (s *Slot[T]) WaitForData(ctx context.Context) (T, bool) {
	s.mu.Lock()
	ch := s.waitCh
	if ch == nil {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	s.mu.Unlock()

	select {
	case <-ch:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.value, s.filled
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Snapshot returns the slot's current value without blocking, for use on
// a record's own close path where waiting is not an option.
func (s *Slot[T]) Snapshot() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.filled
}

// SlotGuard is the single-use writer handle returned by Slot.Open.
type SlotGuard[T any] struct {
	slot   *Slot[T]
	closed bool
}

// Fill supplies the value and releases any waiters.
func (g *SlotGuard[T]) Fill(v T) {
	if g.closed {
		return
	}
	g.closed = true
	g.slot.complete(v, true)
}

// Close releases the slot without filling it. Under SlotDiscard the slot
// stays empty; under SlotWait this still releases waiters (the releaser
// handed to Open is closed regardless of outcome).
func (g *SlotGuard[T]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	var zero T
	g.slot.complete(zero, false)
}
