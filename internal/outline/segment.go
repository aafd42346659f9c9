package outline

import "strings"

// segmentLines classifies each line and splits the text at headings. Lines
// before the first heading are dropped. Fenced code blocks are never
// classified.
func segmentLines(lines []string) []draft {
	c := NewClassifier(lines)

	var (
		out     []draft
		cur     *draft
		body    []string
		inFence bool
		skip    bool
	)
	flush := func() {
		if cur != nil {
			cur.Content = strings.TrimSpace(strings.Join(body, "\n"))
			out = append(out, *cur)
		}
	}

	for i, raw := range lines {
		if skip {
			skip = false
			continue
		}
		trimmed := strings.TrimSpace(raw)
		fence := strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
		if fence {
			inFence = !inFence
		}
		if !inFence && !fence {
			var next, prev string
			if i+1 < len(lines) {
				next = lines[i+1]
			}
			if i > 0 {
				prev = lines[i-1]
			}
			if level, ok := c.Classify(trimmed, next, prev); ok {
				flush()
				cur = &draft{Title: cleanHeading(trimmed), Level: level}
				body = nil
				skip = isUnderline(next)
				continue
			}
		}
		if cur != nil {
			body = append(body, strings.TrimRight(raw, " \t\r"))
		}
	}
	flush()
	return out
}

// segmentBlocks turns parser-supplied heading blocks into sections, joining
// the body blocks that follow each heading.
func segmentBlocks(blocks []Block) []draft {
	var (
		out  []draft
		cur  *draft
		body []string
	)
	flush := func() {
		if cur != nil {
			cur.Content = strings.Join(body, "\n\n")
			out = append(out, *cur)
		}
	}
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if b.Level > 0 {
			flush()
			cur = &draft{Title: cleanHeading(text), Level: min(b.Level, 6)}
			body = nil
			continue
		}
		if cur != nil {
			body = append(body, text)
		}
	}
	flush()
	return out
}

func hasHeadingBlock(blocks []Block) bool {
	for _, b := range blocks {
		if b.Level > 0 && strings.TrimSpace(b.Text) != "" {
			return true
		}
	}
	return false
}

func blocksText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if t := strings.TrimSpace(b.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
