package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/billigkorg/basket-service/internal/matching"
)

// headerAliases maps normalized header names to row fields. Exports
// from the chains name their columns differently; the parser accepts
// the common spellings.
var headerAliases = map[string]string{
	"name":         "name",
	"product":      "name",
	"produkt":      "name",
	"artikel":      "name",
	"artikelnamn":  "name",
	"varunamn":     "name",
	"price":        "price",
	"pris":         "price",
	"pris kr":      "price",
	"brand":        "brand",
	"varumarke":    "brand",
	"unit":         "unit",
	"enhet":        "unit",
	"barcode":      "barcode",
	"ean":          "barcode",
	"streckkod":    "barcode",
	"date":         "observed_at",
	"datum":        "observed_at",
	"observed":     "observed_at",
	"observed at":  "observed_at",
	"prisdatum":    "observed_at",
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02.01.2006", "2006/01/02"}

// CSVParser parses regular price exports with encoding and delimiter
// detection. A header row with at least a name and a price column is
// required.
type CSVParser struct{}

// NewCSVParser creates a CSV price file parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses CSV content into normalized observation rows. Rows that
// fail to parse are reported per row, never failing the whole file.
func (p *CSVParser) Parse(content []byte) (*Result, error) {
	decoded, err := Decode(content, DetectEncoding(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(decoded))
	reader.Comma = rune(DetectDelimiter(decoded)[0])
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return &Result{}, nil
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	return parseRecords(records[1:], columns), nil
}

// DetectDelimiter detects the CSV delimiter by analyzing the first few lines
func DetectDelimiter(content string) Delimiter {
	lines := strings.Split(content, "\n")

	// Take first 5 non-empty lines
	sampleLines := make([]string, 0, 5)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			sampleLines = append(sampleLines, trimmed)
			if len(sampleLines) >= 5 {
				break
			}
		}
	}
	if len(sampleLines) == 0 {
		return DelimiterComma
	}

	delimiters := []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab}
	bestDelimiter := DelimiterComma
	maxConsistency := 0.0

	for _, delim := range delimiters {
		delimStr := string(delim)
		counts := make([]int, 0, len(sampleLines))
		for _, line := range sampleLines {
			counts = append(counts, strings.Count(line, delimStr))
		}

		// Check consistency - all lines should have similar counts
		sum := 0
		for _, c := range counts {
			sum += c
		}
		avgCount := float64(sum) / float64(len(counts))
		if avgCount == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - avgCount
			variance += diff * diff
		}
		variance /= float64(len(counts))

		consistency := avgCount / (1.0 + variance)
		if consistency > maxConsistency {
			maxConsistency = consistency
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// mapColumns resolves header names to field indices.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, h := range header {
		key := matching.NormalizeKey(h)
		if field, ok := headerAliases[key]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("no product name column found in header")
	}
	if _, ok := columns["price"]; !ok {
		return nil, fmt.Errorf("no price column found in header")
	}
	return columns, nil
}

// parseRecords converts raw records to observation rows using the
// resolved column map. Shared by the CSV and XLSX parsers.
func parseRecords(records [][]string, columns map[string]int) *Result {
	result := &Result{}

	cell := func(record []string, field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for i, record := range records {
		rowNum := i + 2 // 1-based, after the header
		result.TotalRows++

		if len(record) == 0 || allEmpty(record) {
			result.TotalRows--
			continue
		}

		name := cell(record, "name")
		if name == "" {
			result.Errors = append(result.Errors, ParseError{Row: rowNum, Field: "name", Message: "missing product name"})
			continue
		}

		price, err := ParsePriceKr(cell(record, "price"))
		if err != nil {
			result.Errors = append(result.Errors, ParseError{Row: rowNum, Field: "price", Message: err.Error()})
			continue
		}

		row := Row{
			ProductName: name,
			Brand:       cell(record, "brand"),
			Unit:        cell(record, "unit"),
			Barcode:     matching.NormalizeBarcode(cell(record, "barcode")),
			PriceKr:     price,
			ObservedAt:  time.Now(),
		}

		if raw := cell(record, "observed_at"); raw != "" {
			observed, err := parseDate(raw)
			if err != nil {
				result.Errors = append(result.Errors, ParseError{Row: rowNum, Field: "observed_at", Message: err.Error()})
				continue
			}
			row.ObservedAt = observed
		}

		result.Rows = append(result.Rows, row)
		result.ValidRows++
	}

	return result
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

func allEmpty(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
