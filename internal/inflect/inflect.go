// Package inflect implements the field-name casing styles recognized by
// the entry model's rename_all container attribute.
package inflect

import (
	"strings"
	"unicode"
)

// Style is a field-name casing style. The zero value is Preserve.
type Style int

const (
	// Preserve leaves the identifier exactly as written.
	Preserve Style = iota
	PascalCase
	CamelCase
	SnakeCase
	KebabCase
)

func (s Style) String() string {
	switch s {
	case PascalCase:
		return "PascalCase"
	case CamelCase:
		return "camelCase"
	case SnakeCase:
		return "snake_case"
	case KebabCase:
		return "kebab-case"
	default:
		return "Preserve"
	}
}

// Apply inflects name under style s. Applying the same style a second time
// to the result is a no-op.
func Apply(name string, s Style) string {
	if s == Preserve || name == "" {
		return name
	}
	words := split(name)
	if len(words) == 0 {
		return name
	}
	switch s {
	case PascalCase:
		return joinCased(words, true)
	case CamelCase:
		return joinCased(words, false)
	case SnakeCase:
		return strings.Join(lower(words), "_")
	case KebabCase:
		return strings.Join(lower(words), "-")
	default:
		return name
	}
}

// Split exposes the word-tokenizer so callers composing a name out of
// several independently-sourced pieces (internal/names) can tokenize each
// piece and join the combined word stream once, rather than inflecting
// each piece in isolation and losing the boundary between them.
func Split(name string) []string {
	return split(name)
}

// Separator is the inter-word glue a style inserts; Pascal/Camel/Preserve
// insert none (the case transform itself carries the boundary).
func Separator(s Style) string {
	switch s {
	case SnakeCase:
		return "_"
	case KebabCase:
		return "-"
	default:
		return ""
	}
}

// CaseWord renders a single word at position index (0-based, counted across
// the whole composed identifier) under style s. CamelCase lower-cases the
// word at index 0 and title-cases the rest; PascalCase title-cases every
// word; SnakeCase and KebabCase lower-case every word; Preserve returns w
// unchanged.
func CaseWord(w string, index int, s Style) string {
	switch s {
	case CamelCase:
		if index == 0 {
			return strings.ToLower(w)
		}
		return titleWord(w)
	case SnakeCase, KebabCase:
		return strings.ToLower(w)
	case Preserve:
		return w
	default: // PascalCase
		return titleWord(w)
	}
}

func lower(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// joinCased title-cases every word (Pascal), or every word but the first
// (camel, whose first word is lower-cased instead).
func joinCased(words []string, pascal bool) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 && !pascal {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(titleWord(w))
	}
	return b.String()
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// split breaks an identifier into words on explicit delimiters (_, -, ., space)
// and on camel-hump boundaries, treating runs of capitals ("HTTP" in
// "HTTPServer") as a single word that yields its boundary to the following
// capitalized word.
func split(name string) []string {
	var words []string
	var cur []rune
	runes := []rune(name)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			if len(cur) > 0 {
				prev := cur[len(cur)-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}
