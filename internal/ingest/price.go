package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySuffixRe = regexp.MustCompile(`\s*(KR|SEK|:-)\s*$`)

// ParsePriceKr parses a price string to kronor.
// Handles various formats: "12.99", "12,99", "1 299,00 kr", "19:-"
func ParsePriceKr(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price value")
	}

	// Strip currency markers and grouping spaces
	cleaned = strings.ToUpper(cleaned)
	cleaned = currencySuffixRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value found")
	}

	// Decimal separator: whichever of comma and dot comes last is the
	// decimal mark, the other is a thousands separator.
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if lastDot > lastComma {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price format %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", value)
	}

	kr, _ := d.Round(2).Float64()
	return kr, nil
}
