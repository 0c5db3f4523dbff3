package engine

import "strconv"

// vintageUnknown is the sentinel the user sends when the vintage year is
// not known; it stores as NULL.
const vintageUnknown = "-"

type vintageResult int

const (
	vintageOK vintageResult = iota
	vintageNull
	vintageNotNumeric
	vintageInFuture
)

// validateVintage classifies a vintage-year answer. A value is accepted only
// if it is all digits and not later than currentYear.
func validateVintage(text string, currentYear int64) (int64, vintageResult) {
	if text == vintageUnknown {
		return 0, vintageNull
	}
	if !isDigits(text) {
		return 0, vintageNotNumeric
	}
	year, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, vintageNotNumeric
	}
	if year > currentYear {
		return year, vintageInFuture
	}
	return year, vintageOK
}

// isDigits reports whether s is non-empty and consists of ASCII digits only.
// Unlike strconv alone, it rejects signs and whitespace.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
