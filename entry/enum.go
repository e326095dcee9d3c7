package entry

import (
	"uowmetrics/internal/inflect"
	"uowmetrics/internal/names"
)

// Variant is a closable enum record. Go has no sum types, so a
// hand-written type switch (or a small discriminated wrapper) plays the
// role a Rust enum derive would; Variant is the contract both the tagged
// and value renderings close over.
type Variant interface {
	// Discriminant is the variant's name as declared (before inflection).
	Discriminant() string
}

// TaggedEntry renders a Variant in "tagged entry" mode: the discriminant is
// emitted as a string property under tagKey, and the variant's own fields
// (if it carries an Entry view) are flattened at the current position.
type TaggedEntry struct {
	Variant Variant
	TagKey  string
	// Fields is nil for variants with no associated data.
	Fields Entry
}

func (t TaggedEntry) WriteFields(w Writer, style inflect.Style) {
	w.Property(t.TagKey, t.Variant.Discriminant())
	if t.Fields != nil {
		FlattenInto(w, style, names.Prefix{}, t.Fields)
	}
}

// ValueVariant renders a Variant in "value" mode: the enum is a scalar,
// rendered as the discriminant string.
type ValueVariant struct {
	Variant Variant
}

func (v ValueVariant) CloseValue() Value { return StringValue(v.Variant.Discriminant()) }
