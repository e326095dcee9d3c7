package sink

import (
	"sync"

	"uowmetrics/entry"
)

// TestSink collects appended root entries in memory for assertions.
type TestSink struct {
	mu      sync.Mutex
	entries []*entry.RootEntry
}

func NewTestSink() *TestSink {
	return &TestSink{}
}

func (s *TestSink) Append(root *entry.RootEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, root)
}

// Entries returns a snapshot of everything appended so far, in order.
func (s *TestSink) Entries() []*entry.RootEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entry.RootEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find returns the first entry of the given type with a field set matching
// the given name, or nil.
func (s *TestSink) Find(entryType, fieldName string) *entry.Field {
	for _, root := range s.Entries() {
		if root.EntryType != entryType {
			continue
		}
		for i := range root.Fields {
			if root.Fields[i].Name == fieldName {
				return &root.Fields[i]
			}
		}
	}
	return nil
}

// Reset clears all collected entries.
func (s *TestSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
