package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It reads positioned glyphs with the Go
// library so headings can be found by font size, falls back to the plain
// text layer, and finally to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*outline.Source, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	src := &outline.Source{
		Title:  titleFromFilename(filename),
		Format: outline.FormatPDF,
	}

	items, err := extractPDFItems(tmpPath)
	if err == nil && len(items) > 0 {
		src.Items = items
		return src, nil
	}

	text, err := extractPDFText(tmpPath)
	if (err != nil || strings.TrimSpace(text) == "") && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	src.Text = text
	return src, nil
}

// extractPDFItems reads every page's glyphs and merges them into runs.
func extractPDFItems(path string) (items []outline.TextItem, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The content stream decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("read pdf content: %v", r)
		}
	}()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		items = append(items, mergeGlyphs(page.Content().Text, i)...)
	}
	return items, nil
}

// mergeGlyphs joins consecutive glyphs sharing a baseline and font size.
// A space is inserted where the horizontal gap exceeds a quarter em.
func mergeGlyphs(glyphs []pdflib.Text, page int) []outline.TextItem {
	var (
		out  []outline.TextItem
		sb   strings.Builder
		cur  pdflib.Text
		endX float64
		open bool
	)
	flush := func() {
		if open && strings.TrimSpace(sb.String()) != "" {
			out = append(out, outline.TextItem{
				Text:     strings.TrimSpace(sb.String()),
				FontSize: cur.FontSize,
				Y:        cur.Y,
				Page:     page,
			})
		}
		sb.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		sameRun := open &&
			math.Abs(g.Y-cur.Y) < 1 &&
			math.Abs(g.FontSize-cur.FontSize) < 0.1
		if !sameRun {
			flush()
			cur = g
			open = true
		} else if gap := g.X - endX; gap > 0.25*g.FontSize {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		endX = g.X + g.W
	}
	flush()
	return out
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
