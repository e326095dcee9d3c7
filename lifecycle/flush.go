package lifecycle

import "uowmetrics/entry"

// FlushGuard holds open a record's emission window without itself owning
// write access. While any flush-guard is outstanding the owning Guard's
// Close cannot trigger emission, even once its strong count reaches zero.
type FlushGuard[T entry.Closable] struct {
	st     *state[T]
	closed bool
}

// Close releases this flush-guard's hold.
func (f *FlushGuard[T]) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.st.release(func() { f.st.flush-- })
}

// ForceFlushGuard is a flush-guard whose Close unconditionally forces
// emission, regardless of outstanding strong owners or other flush-guards.
// Force-flush takes precedence over any other outstanding guard.
type ForceFlushGuard[T entry.Closable] struct {
	st     *state[T]
	closed bool
}

// Close forces immediate emission, once.
func (f *ForceFlushGuard[T]) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.st.release(func() { f.st.forced = true })
}
