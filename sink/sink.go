// Package sink defines the EntrySink contract: the destination a closed
// RootEntry is appended to once a record's owning guard chain terminates.
package sink

import "uowmetrics/entry"

// EntrySink accepts closed root entries for eventual emission. Append must
// be callable from any goroutine and must never block longer than an
// internal small critical section; failures are surfaced asynchronously
// through the diagnostic channel, never returned here.
type EntrySink interface {
	Append(root *entry.RootEntry)
}

// Func adapts a plain function to EntrySink, mainly useful in tests.
type Func func(root *entry.RootEntry)

func (f Func) Append(root *entry.RootEntry) { f(root) }
