package outline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TOCEntry is one line of a table of contents.
type TOCEntry struct {
	Title string
	Page  int
	Level int
	Line  int // index into the scanned lines
}

// TOC is a detected table of contents. Body is the index of the first line
// after the last entry.
type TOC struct {
	Entries []TOCEntry
	Body    int
}

var tocHeaders = map[string]bool{
	"table of contents":   true,
	"contents":            true,
	"index":               true,
	"table des matières":  true,
	"sommaire":            true,
	"matières":            true,
	"índice":              true,
	"indice":              true,
	"contenido":           true,
	"contenidos":          true,
	"tabla de contenido":  true,
	"tabla de contenidos": true,
}

// Words that end prose, not titles.
var tocStopwords = map[string]bool{
	"our": true, "for": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "a": true, "an": true, "with": true, "by": true,
	"on": true, "at": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "this": true, "that": true,
	"these": true, "their": true, "its": true, "your": true, "we": true,
	"which": true,
}

var (
	tocEntryRe  = regexp.MustCompile(`^(.+?)[\s.…·_]{2,}(\d+)$`)
	dotLeaderRe = regexp.MustCompile(`(\.{3,}|…|·{3,}|_{3,})`)
	numberingRe = regexp.MustCompile(`^(\d+(?:\.\d+)+)\.?\s`)
)

func isTOCHeader(line string) bool {
	t := strings.ToLower(strings.TrimSpace(line))
	t = strings.TrimSpace(strings.TrimSuffix(t, ":"))
	return tocHeaders[t]
}

// DetectTOC finds the first table of contents in lines. A TOC starts at a
// header line such as "Contents" or, without a header, at three consecutive
// dot-leader entries. It returns false when no entries are found.
func DetectTOC(lines []string, maxLines int) (TOC, bool) {
	if maxLines <= 0 {
		maxLines = 100
	}
	for i := 0; i < len(lines); i++ {
		start := -1
		switch {
		case isTOCHeader(lines[i]):
			start = i + 1
		case leaderRunAt(lines, i):
			start = i
		}
		if start < 0 {
			continue
		}
		if toc := scanTOC(lines, start, maxLines); len(toc.Entries) > 0 {
			return toc, true
		}
	}
	return TOC{}, false
}

// leaderRunAt reports whether lines[i] and the next two non-blank lines are
// all entries with dot leaders.
func leaderRunAt(lines []string, i int) bool {
	found := 0
	for j := i; j < len(lines) && found < 3; j++ {
		if strings.TrimSpace(lines[j]) == "" {
			if j == i {
				return false
			}
			continue
		}
		if !dotLeaderRe.MatchString(lines[j]) {
			return false
		}
		if _, ok := parseTOCEntry(lines[j]); !ok {
			return false
		}
		found++
	}
	return found == 3
}

func scanTOC(lines []string, start, maxLines int) TOC {
	var toc TOC
	limit := min(len(lines), start+maxLines)
	for j := start; j < limit; j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		e, ok := parseTOCEntry(lines[j])
		if !ok {
			if len(toc.Entries) >= 3 {
				break
			}
			continue
		}
		e.Line = j
		toc.Entries = append(toc.Entries, e)
	}
	if n := len(toc.Entries); n > 0 {
		toc.Body = toc.Entries[n-1].Line + 1
	}
	return toc
}

// parseTOCEntry parses "Title ..... 12". Entries with a page outside
// 1..1000, a lowercase start or a trailing stopword are rejected.
func parseTOCEntry(line string) (TOCEntry, bool) {
	raw := strings.TrimRight(line, " \t\r")
	trimmed := strings.TrimSpace(raw)
	m := tocEntryRe.FindStringSubmatch(trimmed)
	if m == nil {
		return TOCEntry{}, false
	}
	page, err := strconv.Atoi(m[2])
	if err != nil || page < 1 || page > 1000 {
		return TOCEntry{}, false
	}
	first := firstRune(trimmed)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) && !isBullet(first) {
		return TOCEntry{}, false
	}

	title := cleanTOCTitle(m[1])
	if title == "" {
		return TOCEntry{}, false
	}
	words := strings.Fields(strings.ToLower(title))
	if tocStopwords[strings.Trim(words[len(words)-1], ",;:")] {
		return TOCEntry{}, false
	}

	level := indentLevel(raw)
	if nm := numberingRe.FindStringSubmatch(bulletPrefixRe.ReplaceAllString(trimmed, "")); nm != nil {
		level = max(level, min(strings.Count(nm[1], ".")+1, 6))
	}
	return TOCEntry{Title: title, Page: page, Level: level}, true
}

func isBullet(r rune) bool {
	return strings.ContainsRune("•·▪◦‣-*", r)
}

// indentLevel maps leading whitespace to a level: under 2 columns is 1,
// under 4 is 2, otherwise 3. A tab is 4 columns.
func indentLevel(line string) int {
	cols := 0
scan:
	for _, r := range line {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += 4
		default:
			break scan
		}
	}
	switch {
	case cols < 2:
		return 1
	case cols < 4:
		return 2
	default:
		return 3
	}
}
