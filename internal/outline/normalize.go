package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// splitLines breaks text on any line terminator; form feeds (page breaks in
// PDF text) count as line breaks.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	return strings.Split(text, "\n")
}

// foldForMatch normalizes a string for fuzzy comparison: NFKC folds PDF
// ligatures and full-width forms, then case and whitespace are flattened.
func foldForMatch(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// wordsOf splits on anything that is not a letter or digit.
func wordsOf(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

var (
	mdMarkerRe     = regexp.MustCompile(`^#{1,6}\s+`)
	mdTrailingRe   = regexp.MustCompile(`\s+#+$`)
	numberPrefixRe = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)
	romanPrefixRe  = regexp.MustCompile(`^[IVXLCDM]+\.\s+`)
	letterPrefixRe = regexp.MustCompile(`^([A-Z]\.|\([a-z]\))\s+`)
	bulletPrefixRe = regexp.MustCompile(`^[•·▪◦‣\-\*]\s*`)
	leaderTailRe   = regexp.MustCompile(`[\s.…·]+$`)
)

// cleanHeading strips markdown markers, bold wrappers, list numbering and a
// trailing colon from a heading line. The input is returned unchanged if
// nothing would be left.
func cleanHeading(line string) string {
	s := strings.TrimSpace(line)
	orig := s

	s = mdMarkerRe.ReplaceAllString(s, "")
	s = mdTrailingRe.ReplaceAllString(s, "")
	s = unwrapBold(s)
	s = stripNumbering(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, ":"))
	s = unwrapBold(s)

	if s == "" {
		return orig
	}
	return s
}

// cleanTOCTitle strips bullets, numbering and dot leaders from a TOC title.
func cleanTOCTitle(title string) string {
	s := strings.TrimSpace(title)
	s = bulletPrefixRe.ReplaceAllString(s, "")
	s = stripNumbering(s)
	s = leaderTailRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func stripNumbering(s string) string {
	for _, re := range []*regexp.Regexp{numberPrefixRe, romanPrefixRe, letterPrefixRe} {
		if loc := re.FindStringIndex(s); loc != nil && loc[1] < len(s) {
			return strings.TrimSpace(s[loc[1]:])
		}
	}
	return s
}

// unwrapBold removes a single **...** or __...__ wrapper around the whole string.
func unwrapBold(s string) string {
	for _, m := range []string{"**", "__"} {
		if inner, ok := boldInner(s, m); ok {
			return strings.TrimSpace(inner)
		}
	}
	return s
}

func boldInner(s, marker string) (string, bool) {
	if len(s) <= 2*len(marker) || !strings.HasPrefix(s, marker) || !strings.HasSuffix(s, marker) {
		return "", false
	}
	inner := s[len(marker) : len(s)-len(marker)]
	if strings.TrimSpace(inner) == "" || strings.Contains(inner, marker) {
		return "", false
	}
	return inner, true
}
