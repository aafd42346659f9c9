// Package outline derives a section tree from extracted document text.
//
// Extraction tries, in order: a table of contents whose entries are located
// in the body, font-size headings (PDF input), structural headings supplied by
// the format parser, and finally line-pattern heading classification.
package outline

import (
	"log/slog"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Format identifies the document type a Source was decoded from.
type Format string

const (
	FormatTXT      Format = "txt"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// TextItem is a positioned run of PDF text.
type TextItem struct {
	Text     string
	FontSize float64 // 0 when the font size could not be determined
	Y        float64
	Page     int
}

// Block is a structural paragraph from a markup format.
type Block struct {
	Level int // 1-6 for headings, 0 for body text
	Text  string
}

// Source is everything a format parser extracted from one document.
type Source struct {
	Title  string
	Format Format
	Text   string     // Plain text, lines separated by '\n'
	Items  []TextItem // PDF only
	Blocks []Block    // Markup formats only
}

// Strategy names the method that produced an outline.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyTOC       Strategy = "toc"
	StrategyFont      Strategy = "font"
	StrategyStructure Strategy = "structure"
	StrategyPattern   Strategy = "pattern"
	StrategyWhole     Strategy = "whole"
)

// Result is the outcome of one extraction run.
type Result struct {
	Strategy Strategy      `json:"strategy"`
	Tree     *doctree.Tree `json:"sections"`
}

// Options tunes extraction.
type Options struct {
	// FontHeadingRatio is the multiple of the mean font size a PDF line must
	// reach to count as a heading. Default: 1.15
	FontHeadingRatio float64

	// LineYTolerance is the vertical distance within which PDF items share a
	// line. Default: 5
	LineYTolerance float64

	// TOCMaxLines caps how far a table of contents may extend past its
	// header. Default: 100
	TOCMaxLines int

	// DefaultSelected is the initial selection flag of every section.
	DefaultSelected bool

	Logger *slog.Logger
}

// DefaultOptions returns the standard tuning with every section selected.
func DefaultOptions() Options {
	return Options{
		FontHeadingRatio: 1.15,
		LineYTolerance:   5,
		TOCMaxLines:      100,
		DefaultSelected:  true,
	}
}

func (o *Options) defaults() {
	if o.FontHeadingRatio <= 0 {
		o.FontHeadingRatio = 1.15
	}
	if o.LineYTolerance <= 0 {
		o.LineYTolerance = 5
	}
	if o.TOCMaxLines <= 0 {
		o.TOCMaxLines = 100
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
