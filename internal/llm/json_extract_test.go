package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"prose around fence", "Here you go:\n```json\n{\"a\":1}\n```\nDone.", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	if got := ExtractFirstJSONObject(`noise {"a":{"b":"}"}} trailing`); got != `{"a":{"b":"}"}}` {
		t.Errorf("nested with brace-in-string: got %q", got)
	}
	if got := ExtractFirstJSONObject(`{"a":"\"quoted\" {"}`); got != `{"a":"\"quoted\" {"}` {
		t.Errorf("escaped quote: got %q", got)
	}
	if got := ExtractFirstJSONObject("no json here"); got != "" {
		t.Errorf("no object: got %q", got)
	}
	if got := ExtractFirstJSONObject(`{"unterminated": 1`); got != "" {
		t.Errorf("unterminated: got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	korean := strings.Repeat("개발자", 10) // 9 bytes per repetition

	for _, max := range []int{1, 2, 8, 25, 26, 27} {
		got := TruncateRunes(korean, max)
		if len(got) > max {
			t.Errorf("max=%d: len=%d exceeds cap", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Errorf("max=%d: split a rune: %q", max, got)
		}
	}

	if got := TruncateRunes("ascii", 100); got != "ascii" {
		t.Errorf("short input altered: %q", got)
	}
	if got := TruncateRunes("ascii", 0); got != "" {
		t.Errorf("zero cap: %q", got)
	}
}
