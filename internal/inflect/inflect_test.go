package inflect

import "testing"

func TestApply(t *testing.T) {
	cases := []struct {
		in    string
		style Style
		want  string
	}{
		{"number_of_ducks", PascalCase, "NumberOfDucks"},
		{"number_of_ducks", CamelCase, "numberOfDucks"},
		{"NumberOfDucks", SnakeCase, "number_of_ducks"},
		{"NumberOfDucks", KebabCase, "number-of-ducks"},
		{"downstream_success", PascalCase, "DownstreamSuccess"},
		{"HTTPServerLatency", SnakeCase, "http_server_latency"},
		{"httpServerLatency", PascalCase, "HttpServerLatency"},
		{"already_there", Preserve, "already_there"},
		{"", PascalCase, ""},
	}
	for _, c := range cases {
		got := Apply(c.in, c.style)
		if got != c.want {
			t.Errorf("Apply(%q, %v) = %q, want %q", c.in, c.style, got, c.want)
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	styles := []Style{Preserve, PascalCase, CamelCase, SnakeCase, KebabCase}
	inputs := []string{"number_of_ducks", "DownstreamSuccess", "operationTime", "a", "ABTest"}
	for _, s := range styles {
		for _, in := range inputs {
			once := Apply(in, s)
			twice := Apply(once, s)
			if once != twice {
				t.Errorf("Apply not idempotent under %v: Apply(%q)=%q, Apply(that)=%q", s, in, once, twice)
			}
		}
	}
}
