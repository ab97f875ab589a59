package slug

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxInputLength is the ceiling on display names accepted for
	// canonicalization. Longer inputs are rejected, not truncated.
	MaxInputLength = 200

	// MaxSlugLength is the ceiling on generated slugs.
	MaxSlugLength = 100
)

var (
	ErrInvalidInput     = errors.New("invalid input for slug generation")
	ErrGenerationFailed = errors.New("slug generation produced no usable output")
)

var (
	unsafeChars  = regexp.MustCompile(`[<>"/\\]`)
	ampersands   = regexp.MustCompile(`&+`)
	whitespace   = regexp.MustCompile(`\s+`)
	disallowed   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	marksRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Canonicalize converts a display name (a cuisine or caterer name) into its
// canonical URL-safe slug. The produced slug is lowercase, hyphen delimited,
// matches ^[a-z0-9-]+$ and is a fixed point: canonicalizing a slug returns
// the same slug.
func Canonicalize(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return "", ErrInvalidInput
	}
	// The ceiling is characters, not bytes; accented names must not hit it
	// early.
	if utf8.RuneCountInString(s) > MaxInputLength {
		return "", ErrInvalidInput
	}

	s = strings.ToLower(s)

	// Fold accented characters to their base form so "Café" and "Cafe"
	// produce the same slug.
	if folded, _, err := transform.String(marksRemover, s); err == nil {
		s = folded
	}

	// Characters that must never survive into a route segment.
	s = unsafeChars.ReplaceAllString(s, "")

	// "A&B" becomes "a and b", never "aandb".
	s = ampersands.ReplaceAllString(s, " and ")
	s = strings.TrimSpace(s)

	s = whitespace.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" || len(s) > MaxSlugLength {
		return "", ErrGenerationFailed
	}

	return s, nil
}

// IsValid reports whether a candidate string already has canonical slug shape.
func IsValid(candidate string) bool {
	if candidate == "" || len(candidate) > MaxSlugLength {
		return false
	}
	return slugPattern.MatchString(candidate)
}
