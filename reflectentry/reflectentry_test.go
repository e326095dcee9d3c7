package reflectentry

import (
	"testing"
	"time"

	"uowmetrics/entry"
	"uowmetrics/internal/inflect"
)

type ducksRequest struct {
	Operation     string        `uow:"name=operation"`
	NumberOfDucks int           `uow:""`
	Latency       time.Duration `uow:"unit=Milliseconds"`
	secret        string
}

func TestWrapClosesPlainFields(t *testing.T) {
	v := ducksRequest{Operation: "CountDucks", NumberOfDucks: 5, Latency: 12 * time.Millisecond, secret: "x"}
	root, err := entry.CloseRoot("DucksRequest", Wrap(&v, Options{}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]entry.Value{}
	for _, f := range root.Fields {
		got[f.Name] = f.Value
	}

	if got["operation"].Str != "CountDucks" {
		t.Fatalf("got operation %+v", got["operation"])
	}
	if got["NumberOfDucks"].Int != 5 {
		t.Fatalf("got NumberOfDucks %+v", got["NumberOfDucks"])
	}
	if _, ok := got["secret"]; ok {
		t.Fatal("unexported field must not be emitted")
	}
	if got["Latency"].Unit != entry.UnitMillisecond {
		t.Fatalf("got unit %v, want Milliseconds", got["Latency"].Unit)
	}
}

type nested struct {
	Host string `uow:""`
	Port int    `uow:""`
}

type withFlatten struct {
	RequestID string `uow:""`
	Server    nested `uow:"flatten"`
}

func TestFlattenTagRecursesIntoNestedStruct(t *testing.T) {
	v := withFlatten{RequestID: "abc", Server: nested{Host: "localhost", Port: 8080}}
	root, err := entry.CloseRoot("WithFlatten", Wrap(&v, Options{}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := map[string]bool{}
	for _, f := range root.Fields {
		names[f.Name] = true
	}
	if !names["Host"] || !names["Port"] || !names["RequestID"] {
		t.Fatalf("missing expected fields: %+v", names)
	}
}

type withFlattenEntry struct {
	Tags map[string]string `uow:"flatten_entry"`
}

func TestFlattenEntryBypassesComposition(t *testing.T) {
	v := withFlattenEntry{Tags: map[string]string{"region": "us-east-1"}}
	root, err := entry.CloseRoot("WithFlattenEntry", Wrap(&v, Options{}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Fields) != 1 || root.Fields[0].Name != "region" {
		t.Fatalf("got fields %+v", root.Fields)
	}
}

type withNoClose struct {
	Visible string `uow:""`
	Hidden  string `uow:"no_close"`
}

func TestNoCloseSkipsField(t *testing.T) {
	v := withNoClose{Visible: "yes", Hidden: "no"}
	root, err := entry.CloseRoot("WithNoClose", Wrap(&v, Options{}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Fields) != 1 || root.Fields[0].Name != "Visible" {
		t.Fatalf("got fields %+v", root.Fields)
	}
}

type withTimestamp struct {
	StartedAt time.Time `uow:"timestamp"`
}

func TestTimestampTagPopulatesRootTimestamp(t *testing.T) {
	now := time.Now()
	v := withTimestamp{StartedAt: now}
	root, err := entry.CloseRoot("WithTimestamp", Wrap(&v, Options{}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Timestamp == nil || !root.Timestamp.Equal(now) {
		t.Fatalf("got timestamp %v, want %v", root.Timestamp, now)
	}
}

func TestRenameAllOptionAppliesContainerStyle(t *testing.T) {
	v := ducksRequest{Operation: "CountDucks", NumberOfDucks: 5}
	root, err := entry.CloseRoot("DucksRequest", Wrap(&v, Options{RenameAll: inflect.SnakeCase}), inflect.Preserve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range root.Fields {
		names[f.Name] = true
	}
	if !names["number_of_ducks"] {
		t.Fatalf("expected snake_case name, got %+v", names)
	}
}

func TestWrapPanicsOnNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Wrap to panic on a non-struct argument")
		}
	}()
	Wrap(5, Options{})
}
