// Package names implements the entry model's name composition algorithm:
// combining a field's base identifier with an optional explicit name, a
// flatten-site prefix, a container prefix, and an active inflection style
// into the single key that ends up in an emitted entry.
package names

import (
	"fmt"
	"strings"

	"uowmetrics/internal/inflect"
)

// Prefix is a container- or flatten-site-level name prefix. Exact
// corresponds to explicit_prefix (inserted verbatim); non-exact corresponds
// to prefix (tokenized and re-cased along with the rest of the name).
type Prefix struct {
	Text  string
	Exact bool
}

// Validate enforces the prefix invariants: a non-exact prefix may not
// contain the path delimiter '.', and a root-level exact prefix that does
// not end in '.' is rejected (it would otherwise run into the first field's
// own name with no boundary). Non-exact root-level prefixes are only subject
// to the first rule.
func (p Prefix) Validate(atRoot bool) error {
	if p.Text == "" {
		return nil
	}
	if !p.Exact && strings.Contains(p.Text, ".") {
		return fmt.Errorf("names: inflected prefix %q may not contain delimiter %q", p.Text, ".")
	}
	if atRoot && p.Exact && !strings.HasSuffix(p.Text, ".") {
		return fmt.Errorf("names: root-level explicit prefix %q must end in a delimiter", p.Text)
	}
	return nil
}

// Compose combines a base identifier with an explicit name, a flatten-site
// prefix, and a container prefix, minus the flatten_entry case (whose keys
// pass through unchanged and never call Compose at all — see
// entry.Writer.FlattenEntry).
//
// An explicit name skips the container prefix and is never itself re-cased
// (only the flatten-site prefix glued in front of it is); otherwise
// flatten-prefix, container prefix and base are tokenized together and
// cased as one identifier.
func Compose(base, explicitName string, flattenPrefix, containerPrefix Prefix, style inflect.Style) string {
	if explicitName != "" {
		return renderPrefix(flattenPrefix, style) + explicitName
	}
	if style == inflect.Preserve {
		return flattenPrefix.Text + containerPrefix.Text + base
	}
	return joinParts([]Prefix{flattenPrefix, containerPrefix, {Text: base}}, style)
}

func renderPrefix(p Prefix, style inflect.Style) string {
	if p.Text == "" {
		return ""
	}
	if p.Exact || style == inflect.Preserve {
		return p.Text
	}
	return inflect.Apply(p.Text, style)
}

// joinParts tokenizes every non-exact part and cases the combined word
// stream as a single identifier; exact parts are spliced in verbatim (no
// style separator is added after them) and advance the word position past
// the first word so the part that follows an exact
// literal is never lower-cased under camelCase (the literal already
// supplied a prefix, so the next word is not the identifier's first word).
func joinParts(parts []Prefix, style inflect.Style) string {
	var b strings.Builder
	wordIndex := 0
	afterExact := false
	for _, p := range parts {
		if p.Text == "" {
			continue
		}
		if p.Exact {
			b.WriteString(p.Text)
			wordIndex++
			afterExact = true
			continue
		}
		sep := inflect.Separator(style)
		for _, w := range inflect.Split(p.Text) {
			if sep != "" && wordIndex > 0 && !afterExact {
				b.WriteString(sep)
			}
			b.WriteString(inflect.CaseWord(w, wordIndex, style))
			wordIndex++
			afterExact = false
		}
	}
	return b.String()
}
