package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uowmetrics/entry"
	"uowmetrics/internal/inflect"
)

type counterRecord struct {
	n int64
}

func (c *counterRecord) WriteFields(w entry.Writer, style inflect.Style) {
	w.Metric("n", entry.IntValue(c.n))
}

func (c *counterRecord) Close() entry.Entry {
	return c
}

func TestGuardEmitsExactlyOnce(t *testing.T) {
	var appended []*entry.RootEntry
	snk := sinkFunc(func(r *entry.RootEntry) { appended = append(appended, r) })

	g := Bind[*counterRecord]("Counter", &counterRecord{n: 3}, snk, inflect.Preserve)
	g.Close()
	g.Close()
	g.Close()

	assert.Len(t, appended, 1)
}

func TestGuardHandleDefersEmission(t *testing.T) {
	var appended []*entry.RootEntry
	snk := sinkFunc(func(r *entry.RootEntry) { appended = append(appended, r) })

	g := Bind[*counterRecord]("Counter", &counterRecord{n: 1}, snk, inflect.Preserve)
	h := g.Handle()

	g.Close()
	assert.Empty(t, appended, "guard close with outstanding handle must not emit")

	h.Close()
	assert.Len(t, appended, 1, "last handle close must emit")
}

func TestFlushGuardHoldsEmissionOpen(t *testing.T) {
	var appended []*entry.RootEntry
	snk := sinkFunc(func(r *entry.RootEntry) { appended = append(appended, r) })

	g := Bind[*counterRecord]("Counter", &counterRecord{n: 1}, snk, inflect.Preserve)
	fg := g.FlushGuard()

	g.Close()
	assert.Empty(t, appended, "outstanding flush guard must suppress emission")

	fg.Close()
	assert.Len(t, appended, 1, "flush guard close must trigger emission")
}

func TestForceFlushGuardTakesPrecedence(t *testing.T) {
	var appended []*entry.RootEntry
	snk := sinkFunc(func(r *entry.RootEntry) { appended = append(appended, r) })

	g := Bind[*counterRecord]("Counter", &counterRecord{n: 1}, snk, inflect.Preserve)
	_ = g.Handle()
	_ = g.FlushGuard()
	ffg := g.ForceFlushGuard()

	ffg.Close()
	assert.Len(t, appended, 1, "force-flush guard must emit despite outstanding handle and flush guard")
}

type sinkFunc func(*entry.RootEntry)

func (f sinkFunc) Append(r *entry.RootEntry) { f(r) }
