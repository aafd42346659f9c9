package outline

import (
	"math"
	"sort"
	"strings"
)

const defaultFontSize = 12

// textLine is a visual line of PDF text rebuilt from positioned items.
type textLine struct {
	Text     string
	FontSize float64 // largest item font on the line
	Page     int
}

func itemFontSize(it TextItem) float64 {
	if it.FontSize <= 0 || math.IsNaN(it.FontSize) || math.IsInf(it.FontSize, 0) {
		return defaultFontSize
	}
	return it.FontSize
}

// groupLines merges consecutive items on the same page whose vertical
// positions differ by at most tol. Whitespace-only items are ignored.
func groupLines(items []TextItem, tol float64) []textLine {
	var (
		lines []textLine
		cur   *textLine
		lastY float64
		parts []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		if cur.Text != "" {
			lines = append(lines, *cur)
		}
		cur, parts = nil, nil
	}

	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		size := itemFontSize(it)
		if cur != nil && it.Page == cur.Page && math.Abs(it.Y-lastY) <= tol {
			parts = append(parts, it.Text)
			cur.FontSize = max(cur.FontSize, size)
			lastY = it.Y
			continue
		}
		flush()
		cur = &textLine{FontSize: size, Page: it.Page}
		parts = []string{it.Text}
		lastY = it.Y
	}
	flush()
	return lines
}

// meanFontSize averages the font size of every non-blank item.
func meanFontSize(items []TextItem) float64 {
	var sum float64
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		sum += itemFontSize(it)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func isFontHeading(l textLine, threshold float64) bool {
	n := runeLen(l.Text)
	return l.FontSize >= threshold && n >= 10 && n <= 100
}

// fontBucket rounds a font size to half a point.
func fontBucket(size float64) int {
	return int(math.Round(size * 2))
}

// fontLevels ranks the distinct heading font sizes, largest first, as
// heading levels 1..6.
func fontLevels(lines []textLine, threshold float64) map[int]int {
	seen := make(map[int]bool)
	var buckets []int
	for _, l := range lines {
		if !isFontHeading(l, threshold) {
			continue
		}
		b := fontBucket(l.FontSize)
		if !seen[b] {
			seen[b] = true
			buckets = append(buckets, b)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(buckets)))
	levels := make(map[int]int, len(buckets))
	for i, b := range buckets {
		levels[b] = min(i+1, 6)
	}
	return levels
}

// fontSections splits PDF lines into sections at lines whose font is
// notably larger than the document average. A section without any body
// line is dropped.
func fontSections(lines []textLine, avg, ratio float64) []draft {
	if len(lines) == 0 || avg <= 0 {
		return nil
	}
	threshold := avg * ratio
	levels := fontLevels(lines, threshold)

	var (
		out  []draft
		cur  *draft
		body []string
	)
	emit := func() {
		if cur != nil && len(body) > 0 {
			cur.Content = strings.Join(body, "\n")
			out = append(out, *cur)
		}
	}
	for _, l := range lines {
		if isFontHeading(l, threshold) {
			emit()
			cur = &draft{
				Title: cleanHeading(l.Text),
				Level: levels[fontBucket(l.FontSize)],
				Page:  l.Page,
			}
			body = nil
			continue
		}
		if cur != nil {
			body = append(body, l.Text)
		}
	}
	emit()
	return out
}

func joinLineText(lines []textLine) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}
