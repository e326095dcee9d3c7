// Package format defines the wire-rendering contract a sink writes closed
// root entries through.
package format

import (
	"io"

	"uowmetrics/entry"
)

// Format renders a single RootEntry to w. Implementations own their own
// framing (newline-delimited JSON, length-prefixed, etc.) and must treat
// each call as one complete, independently-parseable unit.
type Format interface {
	Write(w io.Writer, root *entry.RootEntry) error
}
