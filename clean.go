package tosfetch

import (
	"regexp"
	"strings"
)

var (
	// Go's \s is ASCII-only; page text routinely carries NBSP and other
	// Unicode separators.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{0085}]+`)
	blankLineRun  = regexp.MustCompile(`\n[ \t]*\n[ \t]*\n+`)
)

// Clean normalizes extracted page text: runs of whitespace become a single
// space, three or more consecutive blank lines become one, every line is
// trimmed, empty lines are dropped and the result is trimmed.
//
// Clean is idempotent.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
