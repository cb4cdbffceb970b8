package api

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// maxErrorBody caps the response body kept in an HTTPError.
const maxErrorBody = 2048

// sanitizeBody makes an error response body safe to show on one terminal
// line: escape sequences and control characters are removed and whitespace
// runs collapse to a single space. Bodies over maxErrorBody bytes are cut.
func sanitizeBody(data []byte) string {
	s := ansi.Strip(string(data))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r <= 0x1F || r == 0x7F:
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}
