package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// TextParser handles plain text files. Line structure is kept as is.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	return &outline.Source{
		Title:  titleFromFilename(filename),
		Format: outline.FormatTXT,
		Text:   strings.Join(lines, "\n"),
	}, nil
}
