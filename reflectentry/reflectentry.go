// Package reflectentry lets a plain Go struct act as an entry.Entry
// without hand-writing WriteFields, using a single `uow` struct tag to
// carry the field-level attributes a code generator would otherwise
// encode directly into generated source. This is the reflection-driven
// analogue of encoding/json's Marshaler-plus-struct-tags idiom, standing
// in for a macro or build-time generator.
package reflectentry

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"uowmetrics/diag"
	"uowmetrics/entry"
	"uowmetrics/internal/inflect"
	"uowmetrics/internal/names"
)

// Options supplies the container-level attributes Go has no annotation
// syntax for: rename_all, prefix, and explicit_prefix.
type Options struct {
	RenameAll      inflect.Style
	Prefix         string
	ExplicitPrefix bool
}

func (o Options) prefix() names.Prefix {
	return names.Prefix{Text: o.Prefix, Exact: o.ExplicitPrefix}
}

// Wrap adapts v (a struct or pointer to struct annotated with `uow` tags)
// into an entry.Entry. Wrap panics if v is not a struct or struct pointer;
// tag-level mistakes (invalid unit names, flatten on a non-struct field)
// panic as well, since they are caught once during development rather than
// at arbitrary runtime call sites.
func Wrap(v interface{}, opts Options) entry.Entry {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			panic("reflectentry: Wrap called with a nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("reflectentry: Wrap requires a struct, got %s", rv.Kind()))
	}
	return structEntry{v: rv, opts: opts}
}

type structEntry struct {
	v    reflect.Value
	opts Options
}

func (s structEntry) WriteFields(w entry.Writer, style inflect.Style) {
	if s.opts.RenameAll != inflect.Preserve {
		style = s.opts.RenameAll
	}
	containerPrefix := s.opts.prefix()
	if err := containerPrefix.Validate(true); err != nil {
		diag.Report(context.Background(), diag.Event{
			Kind:      diag.KindForbiddenPrefix,
			EntryType: s.v.Type().Name(),
			Err:       err,
		})
		containerPrefix = names.Prefix{}
	}

	t := s.v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		tag := parseTag(sf.Tag.Get("uow"))
		if tag.skip {
			continue
		}
		fv := s.v.Field(i)

		switch {
		case tag.flattenEntry:
			writeFlattenEntry(w, fv)
		case tag.flatten:
			writeFlatten(w, style, containerPrefix, fv, tag)
		default:
			writeScalar(w, style, containerPrefix, fv, sf.Name, tag)
		}
	}
}

type fieldTag struct {
	name         string
	flatten      bool
	flattenEntry bool
	skip         bool
	unit         entry.Unit
	timestamp    bool
	fieldPrefix  string
	format       string // parsed and stored; not used when emitting
	sampleGroup  string // parsed and stored; not used when emitting
}

func parseTag(raw string) fieldTag {
	var t fieldTag
	if raw == "" {
		return t
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "flatten":
			t.flatten = true
		case part == "flatten_entry":
			t.flattenEntry = true
		case part == "no_close":
			t.skip = true
		case part == "timestamp":
			t.timestamp = true
		case strings.HasPrefix(part, "unit="):
			t.unit = MustParseUnit(strings.TrimPrefix(part, "unit="))
		case strings.HasPrefix(part, "name="):
			t.name = strings.TrimPrefix(part, "name=")
		case strings.HasPrefix(part, "prefix="):
			t.fieldPrefix = strings.TrimPrefix(part, "prefix=")
		case strings.HasPrefix(part, "format="):
			// Custom per-metric formatting is not implemented; recorded so
			// the fragment does not fall through and overwrite name.
			t.format = strings.TrimPrefix(part, "format=")
		case strings.HasPrefix(part, "sample_group="):
			t.sampleGroup = strings.TrimPrefix(part, "sample_group=")
		default:
			if strings.Contains(part, "=") {
				panic(fmt.Sprintf("reflectentry: unrecognized uow tag directive %q", part))
			}
			if t.name == "" {
				t.name = part
			}
		}
	}
	return t
}

func writeFlatten(w entry.Writer, style inflect.Style, containerPrefix names.Prefix, fv reflect.Value, tag fieldTag) {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct {
		panic("reflectentry: flatten tag used on a non-struct field")
	}
	prefix := containerPrefix
	if tag.fieldPrefix != "" {
		prefix = names.Prefix{Text: tag.fieldPrefix}
	}
	entry.FlattenInto(w, style, prefix, structEntry{v: fv, opts: Options{}})
}

// writeFlattenEntry streams a map[string]V field as dynamic keys that
// bypass name composition entirely.
func writeFlattenEntry(w entry.Writer, fv reflect.Value) {
	if fv.Kind() != reflect.Map {
		panic("reflectentry: flatten_entry tag used on a non-map field")
	}
	w.FlattenEntry(func(yield func(key string, v entry.Value) bool) {
		iter := fv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			val, ok := valueOf(iter.Value(), entry.Unit(""))
			if !ok {
				continue
			}
			if !yield(key, val) {
				return
			}
		}
	})
}

func writeScalar(w entry.Writer, style inflect.Style, containerPrefix names.Prefix, fv reflect.Value, goName string, tag fieldTag) {
	name := names.Compose(goName, tag.name, names.Prefix{}, containerPrefix, style)

	val, isTime, t, ok := closeValue(fv, tag.unit)
	if !ok {
		panic(fmt.Sprintf("reflectentry: field %q has a type reflectentry cannot close (%s); add no_close, flatten, or flatten_entry, or implement entry.ValueClosable", goName, fv.Type()))
	}

	if tag.timestamp || isTime {
		w.Timestamp(name, t)
		return
	}
	if val.Kind == entry.KindString {
		w.Property(name, val.Str)
		return
	}
	w.Metric(name, val)
}

// closeValue resolves fv (possibly a ValueClosable/ValueClosableRef, or a
// plain scalar Go type) into an entry.Value. isTime+t are set when the
// resolved value is a timestamp, so the caller can route it through
// Writer.Timestamp instead of Writer.Metric.
func closeValue(fv reflect.Value, unit entry.Unit) (val entry.Value, isTime bool, t time.Time, ok bool) {
	if fv.CanInterface() {
		if cv, is := fv.Interface().(entry.ValueClosable); is {
			v := cv.CloseValue()
			return finishValue(v, unit)
		}
		if fv.CanAddr() {
			if cvr, is := fv.Addr().Interface().(entry.ValueClosableRef); is {
				v := cvr.CloseValueRef()
				return finishValue(v, unit)
			}
		}
	}

	v, resolved := valueOf(fv, unit)
	if !resolved {
		return entry.Value{}, false, time.Time{}, false
	}
	return finishValue(v, unit)
}

func finishValue(v entry.Value, unit entry.Unit) (entry.Value, bool, time.Time, bool) {
	if unit != "" {
		v = v.WithUnit(unit)
	}
	if v.Kind == entry.KindTimestamp {
		return v, true, v.Time, true
	}
	return v, false, time.Time{}, true
}

// valueOf converts a plain Go scalar (no close-protocol methods) into an
// entry.Value. Returns ok=false for types this package does not know how
// to snapshot directly.
func valueOf(fv reflect.Value, unit entry.Unit) (entry.Value, bool) {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fv.Type() == reflect.TypeOf(time.Duration(0)) {
			return entry.DurationValue(time.Duration(fv.Int()), unit), true
		}
		return entry.IntValue(fv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return entry.IntValue(int64(fv.Uint())), true
	case reflect.Float32, reflect.Float64:
		return entry.FloatValue(fv.Float()), true
	case reflect.Bool:
		return entry.BoolValue(fv.Bool()), true
	case reflect.String:
		return entry.StringValue(fv.String()), true
	case reflect.Struct:
		if t, is := fv.Interface().(time.Time); is {
			return entry.TimestampValue(t), true
		}
	}
	return entry.Value{}, false
}

// MustParseUnit validates a unit string at registration time rather than
// letting a typo surface only when an entry is closed.
func MustParseUnit(s string) entry.Unit {
	switch entry.Unit(s) {
	case entry.UnitNone, entry.UnitMillisecond, entry.UnitSecond, entry.UnitMicrosecond,
		entry.UnitByte, entry.UnitKilobyte, entry.UnitCount, entry.UnitPercent:
		return entry.Unit(s)
	default:
		panic("reflectentry: unrecognized unit " + strconv.Quote(s))
	}
}
