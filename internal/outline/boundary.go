package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// draft is a section before IDs and selection are assigned.
type draft struct {
	Title   string
	Level   int
	Content string
	Page    int
}

type foldedLine struct {
	text  string
	words []string
}

type foldedTitle struct {
	text  string
	words []string
}

// matchStrategy compares a folded title with a folded body line.
type matchStrategy func(t foldedTitle, l foldedLine) bool

// Strategies are tried strictest first; each scans the whole range before
// the next one is attempted.
var matchStrategies = []matchStrategy{
	matchExact,
	matchContains,
	matchContainedLine,
	matchWordOverlap,
	matchShortLine,
}

func matchExact(t foldedTitle, l foldedLine) bool {
	return l.text == t.text
}

func matchContains(t foldedTitle, l foldedLine) bool {
	return runeLen(t.text) > 5 && strings.Contains(l.text, t.text)
}

// matchContainedLine matches a truncated heading line found anywhere in the title.
func matchContainedLine(t foldedTitle, l foldedLine) bool {
	ll, tl := runeLen(l.text), runeLen(t.text)
	if ll <= 5 || tl == 0 || !strings.Contains(t.text, l.text) {
		return false
	}
	return float64(ll)/float64(tl) > 0.5
}

func matchWordOverlap(t foldedTitle, l foldedLine) bool {
	words := longWords(t.words, 3)
	if len(words) < 2 {
		return false
	}
	hit := 0
	for _, w := range words {
		for _, lw := range l.words {
			if strings.Contains(lw, w) {
				hit++
				break
			}
		}
	}
	return float64(hit)/float64(len(words)) >= 0.6
}

func matchShortLine(t foldedTitle, l foldedLine) bool {
	if runeLen(l.text) >= 100 {
		return false
	}
	words := longWords(t.words, 2)
	if len(words) == 0 {
		return false
	}
	lineWords := longWords(l.words, 2)
	for _, w := range words {
		found := false
		for _, lw := range lineWords {
			if lw == w || strings.Contains(lw, w) || strings.Contains(w, lw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func longWords(words []string, minLen int) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if runeLen(w) > minLen {
			out = append(out, w)
		}
	}
	return out
}

type bodyMatcher struct {
	lines []foldedLine
}

func newBodyMatcher(lines []string) *bodyMatcher {
	m := &bodyMatcher{lines: make([]foldedLine, len(lines))}
	for i, l := range lines {
		f := foldForMatch(l)
		m.lines[i] = foldedLine{text: f, words: wordsOf(f)}
	}
	return m
}

// find returns the first line at or after from that matches title, or -1.
func (m *bodyMatcher) find(t foldedTitle, from int) int {
	if t.text == "" {
		return -1
	}
	for _, match := range matchStrategies {
		for i := max(from, 0); i < len(m.lines); i++ {
			if m.lines[i].text == "" {
				continue
			}
			if match(t, m.lines[i]) {
				return i
			}
		}
	}
	return -1
}

func foldTitle(title string) foldedTitle {
	f := foldForMatch(title)
	return foldedTitle{text: f, words: wordsOf(f)}
}

// fillContent locates each TOC entry in the body and takes the lines between
// it and the next located entry as its content. Entries that cannot be found
// get a placeholder.
func fillContent(toc TOC, lines []string) []draft {
	body := lines
	if toc.Body <= len(lines) {
		body = lines[toc.Body:]
	}
	m := newBodyMatcher(body)

	titles := make([]foldedTitle, len(toc.Entries))
	starts := make([]int, len(toc.Entries))
	cursor := 0
	for i, e := range toc.Entries {
		titles[i] = foldTitle(e.Title)
		k := m.find(titles[i], cursor)
		if k < 0 && cursor > 0 {
			k = m.find(titles[i], 0)
		}
		starts[i] = k
		if k >= cursor {
			cursor = k + 1
		}
	}

	out := make([]draft, len(toc.Entries))
	for i, e := range toc.Entries {
		d := draft{Title: e.Title, Level: e.Level, Page: e.Page}
		s := starts[i]
		if s < 0 {
			d.Content = doctree.Placeholder(e.Title)
			out[i] = d
			continue
		}
		end := len(body)
		for j := i + 1; j < len(toc.Entries); j++ {
			k := starts[j]
			if k < 0 {
				continue
			}
			if k <= s {
				k = m.find(titles[j], s+1)
			}
			if k > s {
				end = k
				break
			}
		}
		d.Content = joinNonEmpty(body[s+1 : end])
		out[i] = d
	}
	return out
}

func joinNonEmpty(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}
