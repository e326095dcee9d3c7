// Package stream implements the framed-byte-record boundary a format
// writes into and an immediate or background sink eventually flushes.
package stream

import (
	"fmt"
	"io"
)

// Framed wraps w so every Write call is either fully accepted or reported
// as an error: a short write by w is returned as an error. The bytes w did
// accept stay written; Framed does not undo or delimit them.
type Framed struct {
	w io.Writer
}

// NewFramed adapts w into a Framed writer.
func NewFramed(w io.Writer) *Framed {
	return &Framed{w: w}
}

func (f *Framed) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, fmt.Errorf("stream: short write: wrote %d of %d bytes", n, len(p))
	}
	return n, nil
}
