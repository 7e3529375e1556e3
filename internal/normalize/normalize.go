package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseFloat converts a string to float64, tolerating surrounding whitespace.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// PostalCode canonicalizes a postal code to a fixed-width 5-character numeric
// string. All non-digit characters are stripped, the remainder is left-padded
// with '0' to 5 characters and then truncated to the first 5. Padding happens
// before truncation, so inputs with more than 5 digits keep their leading
// digits. A blank input stays blank (missing value).
func PostalCode(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	b := strings.Builder{}
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < 5 {
		digits = strings.Repeat("0", 5-len(digits)) + digits
	}
	return digits[:5]
}

// Name canonicalizes a display name: ASCII punctuation stripped, lowercased,
// leading/trailing whitespace trimmed. A blank input stays blank.
func Name(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(stripPunct(raw)))
}

// Address canonicalizes a street address with the same punctuation-strip,
// lowercase, trim treatment as Name. A missing value becomes the empty string,
// which keeps address concatenation keys well defined.
func Address(raw string) string {
	return strings.ToLower(strings.TrimSpace(stripPunct(raw)))
}

// Coordinates parses and rounds a latitude/longitude pair to the given number
// of decimal places. If either value fails to parse, both come back blank so
// the record drops out of coordinate blocking without aborting the run.
// Rounding is math.Round, i.e. half away from zero (the host primitive).
func Coordinates(lat, long string, decimalPlaces int) (string, string) {
	latF, err := ParseFloat(lat)
	if err != nil {
		return "", ""
	}
	longF, err := ParseFloat(long)
	if err != nil {
		return "", ""
	}
	return formatRounded(latF, decimalPlaces), formatRounded(longF, decimalPlaces)
}

// formatRounded rounds to decimalPlaces and renders the shortest string that
// round-trips, so equal rounded coordinates always compare equal as strings.
func formatRounded(v float64, decimalPlaces int) string {
	pow := math.Pow(10, float64(decimalPlaces))
	return strconv.FormatFloat(math.Round(v*pow)/pow, 'f', -1, 64)
}

// stripPunct removes the standard ASCII punctuation set, keeping letters,
// digits and interior whitespace intact.
func stripPunct(s string) string {
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 && unicode.IsPunct(r) {
			continue
		}
		if r < 128 && unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
