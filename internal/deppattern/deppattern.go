// Package deppattern compiles a single dependency-matching pattern: either a
// literal path prefix or a small glob vocabulary translated to regexp ahead
// of time (never re-parsed per match).
package deppattern

import (
	"regexp"
	"strings"

	"github.com/monodeps/monodeps/internal/pathinfo"
)

// Pattern is a compiled dependency matcher.
type Pattern struct {
	raw     string
	literal pathinfo.Info
	regex   *regexp.Regexp
}

// isGlob reports whether raw should be compiled as a regex instead of a
// literal prefix.
func isGlob(raw string) bool {
	return strings.ContainsAny(raw, "?*")
}

// Compile builds a Pattern from raw resolved against base. Compilation only
// fails when the derived regex fails to compile.
func Compile(raw, base string) (Pattern, error) {
	if !isGlob(raw) {
		return Pattern{raw: raw, literal: pathinfo.New(raw, base)}, nil
	}

	info := pathinfo.New(raw, base)
	re, err := regexp.Compile(translateGlob(info.Canonical))
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{raw: raw, regex: re}, nil
}

// translateGlob turns the limited glob vocabulary into an equivalent regexp,
// anchored nowhere (Matches uses MatchString, an unanchored search).
//
// Vocabulary: "." is a literal dot, "**" matches any non-empty run of
// characters, "*" matches any run not containing "/" or "\", "?" matches
// exactly one character.
func translateGlob(pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.':
			b.WriteString(`\.`)
		case '?':
			b.WriteString(`.`)
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(`.+`)
				i++
			} else {
				b.WriteString(`[^/\\]*`)
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}
	return b.String()
}

// Matches reports whether p matches the canonical path. Literal patterns
// match by prefix; regex patterns match anywhere in the string.
func (p Pattern) Matches(path string) bool {
	if p.regex != nil {
		return p.regex.MatchString(path)
	}
	return strings.HasPrefix(path, p.literal.Canonical)
}

// IsChildOf reports whether p is a literal pattern whose canonical form is
// nested under dir. Always false for regex patterns.
func (p Pattern) IsChildOf(dir pathinfo.Info) bool {
	if p.regex != nil {
		return false
	}
	return p.literal.IsChildOf(dir)
}

// Hash returns the canonical form for literal patterns so callers can
// deduplicate; regex patterns have no stable hash.
func (p Pattern) Hash() (string, bool) {
	if p.regex != nil {
		return "", false
	}
	return p.literal.Canonical, true
}

// Raw returns the original, uncompiled pattern string.
func (p Pattern) Raw() string {
	return p.raw
}

// IsLiteral reports whether p compiled to a literal prefix matcher.
func (p Pattern) IsLiteral() bool {
	return p.regex == nil
}
