package sink

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"uowmetrics/entry"
)

func rootNamed(name string) *entry.RootEntry {
	return &entry.RootEntry{EntryType: name}
}

func TestBackgroundDeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := NewTestSink()
	b := NewBackground(ts, 16, "test")
	defer b.Close()

	for i := 0; i < 5; i++ {
		b.Append(rootNamed("E"))
	}
	b.Close()

	if got := len(ts.Entries()); got != 5 {
		t.Fatalf("got %d entries, want 5", got)
	}
}

// TestBackgroundDropsOldestWhenFull feeds a capacity-2 queue 3 entries
// faster than the consumer can drain, expecting the oldest dropped to
// make room.
func TestBackgroundDropsOldestWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := sinkBlockingOnFirst(release, started)

	b := NewBackground(blocking, 2, "test")

	b.Append(rootNamed("first"))
	<-started // consumer goroutine has picked up "first" and is blocked on release

	b.Append(rootNamed("second"))
	b.Append(rootNamed("third"))
	b.Append(rootNamed("fourth")) // queue cap 2: "second" should be dropped for "fourth"

	close(release)
	b.Close()

	got := collectAppended(blocking)
	want := []string{"first", "third", "fourth"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

type recordingBlockingSink struct {
	release  chan struct{}
	started  chan struct{}
	first    bool
	appended chan string
}

func sinkBlockingOnFirst(release chan struct{}, started chan struct{}) *recordingBlockingSink {
	return &recordingBlockingSink{release: release, started: started, first: true, appended: make(chan string, 16)}
}

func (s *recordingBlockingSink) Append(root *entry.RootEntry) {
	if s.first {
		s.first = false
		s.started <- struct{}{}
		<-s.release
	}
	s.appended <- root.EntryType
}

func collectAppended(s *recordingBlockingSink) []string {
	var out []string
	for {
		select {
		case v := <-s.appended:
			out = append(out, v)
		case <-time.After(50 * time.Millisecond):
			return out
		}
	}
}
