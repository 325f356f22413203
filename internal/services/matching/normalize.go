package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Academic and honorific titles dropped before name comparison. Czech bank
// statements routinely carry these in the counterparty field.
var titleTokens = map[string]struct{}{
	"ing": {}, "mgr": {}, "bc": {}, "mudr": {}, "judr": {}, "phdr": {},
	"rndr": {}, "paeddr": {}, "dis": {}, "phd": {}, "csc": {}, "dr": {},
	"prof": {}, "doc": {},
}

// NormalizeName lowercases, strips diacritics (NFD decomposition, nonspacing
// marks removed) and punctuation, drops academic titles and collapses
// whitespace, so "Jiří Novák" and "jiri novak" compare equal.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			// punctuation separates tokens rather than gluing them
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := titleTokens[f]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// NameTokens returns the normalized tokens of a name.
func NameTokens(s string) []string {
	return strings.Fields(NormalizeName(s))
}
