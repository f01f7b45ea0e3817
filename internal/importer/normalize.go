package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Spreadsheets mangle long phone numbers into scientific notation when a
// column is typed as numeric (e.g. "8.03E+09"). Detect and expand before
// digit extraction.
var scientificNotationRegex = regexp.MustCompile(`^\d+(\.\d+)?[eE]\+?\d+$`)

// defaultCountryCode is the international prefix applied to national
// numbers. Tenants onboard with NG-format numbers.
const defaultCountryCode = "234"

// NormalizePhone converts a human-entered phone number into a consistent
// international format. Returns "" when the input carries no digits.
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if scientificNotationRegex.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			s = strconv.FormatFloat(f, 'f', 0, 64)
		}
	}

	digits := extractDigits(s)
	if digits == "" {
		return ""
	}

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		// National format with leading zero: 080... -> +23480...
		return "+" + defaultCountryCode + digits[1:]
	case len(digits) == 10 && !strings.HasPrefix(digits, "0"):
		// National format with the zero eaten by the spreadsheet
		return "+" + defaultCountryCode + digits
	case strings.HasPrefix(digits, defaultCountryCode):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// extractDigits strips everything but ASCII digits
func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeName lowercases and collapses interior whitespace for
// name-based reference lookups
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
