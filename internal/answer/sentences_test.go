package answer

import "testing"

func TestLimitSentences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"One. Two. Three. Four.", "One. Two. Three."},
		{"Just one", "Just one."},
		{"Shouted! Asked? Stated.", "Shouted. Asked. Stated."},
		{"", ""},
		{"...", ""},
		{"  Trailing spaces.  ", "Trailing spaces."},
	}
	for _, tc := range cases {
		if got := LimitSentences(tc.in, 3); got != tc.want {
			t.Fatalf("LimitSentences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLimitSentencesIdempotent(t *testing.T) {
	inputs := []string{
		"One. Two. Three. Four. Five.",
		"A single sentence without punctuation",
		"What happens on a seven? The robber moves! Production stops.",
	}
	for _, in := range inputs {
		once := LimitSentences(in, 3)
		twice := LimitSentences(once, 3)
		if once != twice {
			t.Fatalf("not idempotent: once = %q, twice = %q", once, twice)
		}
	}
}
