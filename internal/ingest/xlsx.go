package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXParser parses regular price exports in XLSX workbooks. Only the
// first sheet is read; the header mapping matches the CSV parser.
type XLSXParser struct{}

// NewXLSXParser creates an XLSX price file parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse parses XLSX content into normalized observation rows.
func (p *XLSXParser) Parse(content []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Result{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Result{}, nil
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	return parseRecords(rows[1:], columns), nil
}
