package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// csvBatchSize is the number of data rows grouped under one heading.
const csvBatchSize = 20

// CSVParser handles CSV files. Data rows are grouped into batches, each
// headed "Rows a-b" with 1-indexed file line numbers.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*outline.Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	src := &outline.Source{
		Title:  titleFromFilename(filename),
		Format: outline.FormatCSV,
	}
	if len(records) == 0 {
		return src, nil
	}

	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}

		src.Blocks = append(src.Blocks,
			outline.Block{Level: 1, Text: fmt.Sprintf("Rows %d-%d", i+2, end+1)},
			outline.Block{Text: strings.TrimSpace(text.String())},
		)
	}
	src.Text = blockText(src.Blocks)
	return src, nil
}
