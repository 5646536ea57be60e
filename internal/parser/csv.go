package parser

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser handles CSV files. The sheet becomes one pipe table whose first
// record is the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	src := &Source{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return src, nil
	}

	// Pad ragged rows so every row has the header's width.
	width := len(records[0])
	for _, rec := range records {
		width = max(width, len(rec))
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, width)
		copy(row, rec)
		rows[i] = row
	}

	src.Markdown = tableMarkdown(rows)
	return src, nil
}
