package ingest

import "time"

// Row is one normalized price observation parsed from an upload.
type Row struct {
	ProductName string
	Brand       string
	Unit        string
	Barcode     string
	PriceKr     float64
	ObservedAt  time.Time
}

// ParseError describes a row that could not be parsed.
type ParseError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one file.
type Result struct {
	Rows      []Row        `json:"-"`
	Errors    []ParseError `json:"errors,omitempty"`
	TotalRows int          `json:"total_rows"`
	ValidRows int          `json:"valid_rows"`
}

// Delimiter represents supported CSV delimiters
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)
