package doctree

import (
	"regexp"
	"strings"
)

// Placeholder returns the marker stored as content when a section's text
// could not be located in the document body.
func Placeholder(title string) string {
	return `[Content for "` + title + `" could not be extracted]`
}

var placeholderRe = regexp.MustCompile(`(?s)^\[Content for ".*" could not be extracted\]$`)

// IsPlaceholder reports whether content is an extraction-failure marker.
func IsPlaceholder(content string) bool {
	return placeholderRe.MatchString(strings.TrimSpace(content))
}

// Collect concatenates the content of every selected section in pre-order.
// A deselected parent still contributes its selected descendants. Sections
// holding only a placeholder are skipped.
func Collect(t *Tree) string {
	var sb strings.Builder
	t.Walk(func(s *Section, _ int) {
		if !s.Selected || IsPlaceholder(s.Content) {
			return
		}
		sb.WriteString("\n\n## ")
		sb.WriteString(s.Title)
		sb.WriteString("\n\n")
		sb.WriteString(s.Content)
	})
	return sb.String()
}

// Counts is the selected/total tally of a tree.
type Counts struct {
	Selected int `json:"selected" yaml:"selected"`
	Total    int `json:"total" yaml:"total"`
}

// CountSelected counts selected sections against all sections.
func CountSelected(t *Tree) Counts {
	var c Counts
	t.Walk(func(s *Section, _ int) {
		c.Total++
		if s.Selected {
			c.Selected++
		}
	})
	return c
}

// Stats aggregates content size over sections.
type Stats struct {
	Sections int `json:"sections" yaml:"sections"`
	Words    int `json:"words" yaml:"words"`
	Chars    int `json:"chars" yaml:"chars"`
	Tokens   int `json:"estimated_tokens" yaml:"estimated_tokens"`
}

// ContentStats measures every section, or only selected ones when
// selectedOnly is set. Placeholder content counts as zero.
func ContentStats(t *Tree, selectedOnly bool) Stats {
	var st Stats
	t.Walk(func(s *Section, _ int) {
		if selectedOnly && !s.Selected {
			return
		}
		st.Sections++
		if IsPlaceholder(s.Content) {
			return
		}
		st.Words += WordCount(s.Content)
		st.Chars += len([]rune(s.Content))
		st.Tokens += EstimateTokens(s.Content)
	})
	return st
}

// WordCount counts whitespace-separated words, treating a placeholder as empty.
func WordCount(content string) int {
	if IsPlaceholder(content) {
		return 0
	}
	return len(strings.Fields(content))
}

// EstimateTokens gives a rough token count from the word count.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per word for English text.
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 && strings.TrimSpace(text) != "" {
		tokens = 1
	}
	return tokens
}
