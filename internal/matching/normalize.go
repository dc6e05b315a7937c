package matching

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonDigitRe       = regexp.MustCompile(`[^0-9]`)
	placeholderRe    = regexp.MustCompile(`^0+$`)
	variableWeightRe = regexp.MustCompile(`^2[0-9]`) // EAN-13 prefix 20-29
)

// NormalizeBarcode handles UPC-A vs EAN-13, leading zeros, invalid codes
// Returns empty string for invalid/placeholder barcodes that should be skipped
func NormalizeBarcode(barcode string) string {
	// Strip non-digits
	bc := nonDigitRe.ReplaceAllString(barcode, "")
	if bc == "" {
		return ""
	}

	// Skip placeholder barcodes (all zeros)
	if placeholderRe.MatchString(bc) {
		return ""
	}

	// Skip variable-weight item codes (20-29 prefix in EAN-13)
	if len(bc) == 13 && variableWeightRe.MatchString(bc) {
		return ""
	}

	// UPC-A (12 digits) -> EAN-13 (add leading 0)
	if len(bc) == 12 {
		bc = "0" + bc
	}

	// Validate length (must be EAN-13 after normalization)
	if len(bc) != 13 {
		// Could be internal code - return as-is but flagged
		return bc
	}

	// Validate check digit
	if !validateEAN13CheckDigit(bc) {
		return "" // Invalid barcode
	}

	return bc
}

// validateEAN13CheckDigit validates the EAN-13 check digit
func validateEAN13CheckDigit(bc string) bool {
	if len(bc) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(bc[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	checkDigit := (10 - (sum % 10)) % 10
	return int(bc[12]-'0') == checkDigit
}

// RemoveDiacritics folds Swedish characters for loose matching.
// å and ä become a, ö becomes o, é becomes e.
func RemoveDiacritics(s string) string {
	// Swedish-specific mappings first; NFD below covers the rest.
	replacer := strings.NewReplacer(
		"å", "a", "Å", "A",
		"ä", "a", "Ä", "A",
		"ö", "o", "Ö", "O",
	)
	s = replacer.Replace(s)

	// General NFD normalization + strip combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeKey builds the lookup key for a product name: diacritics
// folded, lowercased, whitespace collapsed. Free text shopping list
// lines, catalog products and deal offers all match through this key.
func NormalizeKey(name string) string {
	s := RemoveDiacritics(name)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeUnit converts units to canonical form for comparison
// Returns normalized unit string (e.g., "1kg", "500ml", "10st")
func NormalizeUnit(unit, quantity string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	q := strings.TrimSpace(quantity)

	// Common unit conversions
	conversions := map[string]string{
		"l":    "l",
		"ltr":  "l",
		"lit":  "l",
		"ml":   "ml",
		"kg":   "kg",
		"g":    "g",
		"gr":   "g",
		"st":   "st",
		"pcs":  "st",
		"frp":  "st",
		"pack": "st",
	}

	if canonical, ok := conversions[u]; ok {
		u = canonical
	}

	// Try to convert to base units for comparison
	// 1000ml -> 1l, 1000g -> 1kg
	if u == "ml" && q != "" {
		if val, err := strconv.ParseFloat(q, 64); err == nil && val >= 1000 {
			return strconv.FormatFloat(val/1000, 'f', -1, 64) + "l"
		}
	}
	if u == "g" && q != "" {
		if val, err := strconv.ParseFloat(q, 64); err == nil && val >= 1000 {
			return strconv.FormatFloat(val/1000, 'f', -1, 64) + "kg"
		}
	}

	// Return quantity + unit for comparison
	if q != "" {
		return q + u
	}
	return u
}
