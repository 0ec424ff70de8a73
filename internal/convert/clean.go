package convert

import (
	"strings"
	"unicode/utf8"
)

// CleanText removes control characters and invalid UTF-8 sequences that
// break tokenization and database storage. Tabs, newlines and carriage
// returns are kept.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			// Control character, drop it.
		case r == utf8.RuneError:
			// Invalid byte sequence, drop it.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
