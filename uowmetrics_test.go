package uowmetrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uowmetrics/config"
	"uowmetrics/entry"
	"uowmetrics/format/emf"
)

func TestSinkPanicsBeforeAttach(t *testing.T) {
	globalMu.Lock()
	globalSink = nil
	globalMu.Unlock()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Sink() to panic before anything is attached")
		}
	}()
	Sink()
}

func TestAttachInstallsSink(t *testing.T) {
	ts, handle := SetTestSink()
	defer handle.Close()

	assert.NotNil(t, Sink())
	root := &entry.RootEntry{EntryType: "X", Fields: []entry.Field{{Name: "n", Value: entry.IntValue(1)}}}
	Sink().Append(root)
	assert.Len(t, ts.Entries(), 1)
}

func TestSetTestSinkForTestRestoresPreviousSink(t *testing.T) {
	ts, outerHandle := SetTestSink()
	defer outerHandle.Close()

	func() {
		inner := &recordingT{}
		SetTestSinkForTest(inner)
		assert.NotSame(t, ts, Sink(), "expected SetTestSinkForTest to install a fresh sink")
		inner.runCleanups()
	}()

	assert.Same(t, ts, Sink(), "expected the outer test sink to be restored after cleanup")
}

func TestAttachToStreamWritesFormattedEntries(t *testing.T) {
	var buf bytes.Buffer
	handle := AttachToStream(&buf, emf.Format{}, 8, "test")
	defer handle.Close()

	root := &entry.RootEntry{EntryType: "X", Fields: []entry.Field{{Name: "n", Value: entry.IntValue(1)}}}
	Sink().Append(root)
	handle.Close()

	assert.NotZero(t, buf.Len(), "expected output bytes after closing the attach handle")
}

func TestAttachFromConfigWiresCompressionAndFormat(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	handle, err := AttachFromConfig(&buf, cfg)
	require.NoError(t, err)
	defer handle.Close()

	root := &entry.RootEntry{EntryType: "X", Fields: []entry.Field{{Name: "n", Value: entry.IntValue(1)}}}
	Sink().Append(root)
	handle.Close()

	assert.NotZero(t, buf.Len(), "expected output bytes from the configured stream")
}

type recordingT struct {
	cleanups []func()
}

func (r *recordingT) Cleanup(f func()) { r.cleanups = append(r.cleanups, f) }

func (r *recordingT) runCleanups() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}
