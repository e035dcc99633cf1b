// Package textnorm reduces generated text to the printable ASCII subset the
// PDF core fonts can render.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// punctuation maps typographic characters that models like to emit onto
// their plain ASCII spelling. Anything not listed here is dropped later.
var punctuation = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"–", "-", // en dash
	"—", "-", // em dash
	"•", "-", // bullet
	"…", "...", // ellipsis
	"‑", "-", // non-breaking hyphen
)

// unprintable reports runes that must not reach the document. Line structure
// (newline, carriage return, tab) survives so callers can still split lines.
var unprintable = runes.Predicate(func(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return r > unicode.MaxASCII || r < 0x20 || r == 0x7f
})

// Normalize replaces known typographic punctuation with ASCII equivalents and
// silently deletes every other non-ASCII or control character. It never
// fails; information outside the table is lost on purpose.
func Normalize(s string) string {
	s = punctuation.Replace(s)
	out, _, _ := transform.String(runes.Remove(unprintable), s)
	return out
}
