// Package ident implements the fixed, deterministic, injective
// substitution table spec §6 requires for mapping source identifiers
// and atom names onto characters legal in the target language.
package ident

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// table holds the documented substitutions for characters that are
// legal in source names but not in target identifiers. Unlisted
// non-alphanumeric, non-underscore runes fall back to a deterministic
// __uXXXX__ escape (escapeRune) so the mapping stays total and
// injective.
var table = map[rune]string{
	'?': "__qmark__",
	'!': "__emark__",
}

// FilterIdentifier rewrites a source identifier into one legal in the
// target language, applying the fixed substitution table to every
// disallowed rune. NFC-normalizes first so that Unicode identifiers
// with distinct encodings of the same visible name filter identically.
func FilterIdentifier(name string) string {
	normalized := norm.NFC.String(name)

	var b strings.Builder
	for _, r := range normalized {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			if sub, ok := table[r]; ok {
				b.WriteString(sub)
			} else {
				b.WriteString(escapeRune(r))
			}
		}
	}
	return b.String()
}

// escapeRune is the fallback branch of the documented substitution
// table: deterministic and injective for any rune not explicitly
// listed, so two distinct legal source names can never collide after
// filtering.
func escapeRune(r rune) string {
	return fmt.Sprintf("__u%04x__", r)
}

// EscapeAtom returns the string literal used inside
// SpecialForms.atom(...) for a given atom name. Atom names pass through
// unchanged (including non-ASCII characters, per spec §8 "Boundaries") —
// only NFC normalization is applied, not the identifier filter table,
// since the atom constructor takes a runtime string rather than an
// identifier.
func EscapeAtom(name string) string {
	return norm.NFC.String(name)
}
