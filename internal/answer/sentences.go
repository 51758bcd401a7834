package answer

import (
	"regexp"
	"strings"
)

var sentenceEndPattern = regexp.MustCompile(`[.!?]+`)

// LimitSentences keeps at most max non-empty sentences, rejoined with ". "
// and a trailing period. Idempotent: limiting an already-limited answer
// yields the same text. An input with no sentences yields "".
func LimitSentences(text string, max int) string {
	parts := sentenceEndPattern.Split(text, -1)
	kept := make([]string, 0, max)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, p)
		if len(kept) == max {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ". ") + "."
}
