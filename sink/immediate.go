package sink

import (
	"context"
	"io"
	"sync"

	"uowmetrics/diag"
	"uowmetrics/entry"
	"uowmetrics/format"
	"uowmetrics/internal/selfmetrics"
	appErrors "uowmetrics/pkg/errors"
)

// Immediate is an EntrySink that formats and writes each root entry
// synchronously, serialized behind a mutex so a single underlying writer
// can be shared safely. It is the building block Background wraps to get
// non-blocking delivery; used directly it is mainly useful for tests and
// for command-line tools that want synchronous, ordered output.
type Immediate struct {
	mu     sync.Mutex
	w      io.Writer
	format format.Format
	name   string
}

// NewImmediate writes entries formatted by f to w, one at a time.
func NewImmediate(w io.Writer, f format.Format, name string) *Immediate {
	return &Immediate{w: w, format: f, name: name}
}

func (s *Immediate) Append(root *entry.RootEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.format.Write(s.w, root); err != nil {
		selfmetrics.IncWriteError(s.name)
		wrapped := appErrors.FormatError(s.name, "write failed").Wrap(err)
		diag.Report(context.Background(), diag.Event{
			Kind:      diag.KindIOError,
			EntryType: root.EntryType,
			Err:       wrapped,
		})
	}
}
