package listing

import (
	"strconv"
	"strings"

	"github.com/emlak/backend/internal/domain/shared"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var trPrinter = message.NewPrinter(language.Turkish)

// NormalizeNumber strips display grouping from a whole number, so "1.250.000",
// "1,250,000" and "1 250 000" all become "1250000". Separators must sit between
// groups of three digits: "1.5" and "120,5" are rejected, not read as 15 and 1205.
// Leading zeros are dropped.
func NormalizeNumber(s string) (string, error) {
	invalid := shared.NewDomainError("INVALID_NUMBER", "Not a number: "+s)

	var b strings.Builder
	group := 0
	grouped := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			group++
		case r == '.' || r == ',' || r == ' ' || r == '\u00a0' || r == '\'' || r == '_':
			// the leading group holds 1 to 3 digits, every later one exactly 3
			if group == 0 || group > 3 || (grouped && group != 3) {
				return "", invalid
			}
			grouped = true
			group = 0
		default:
			return "", invalid
		}
	}
	if b.Len() == 0 || (grouped && group != 3) {
		return "", invalid
	}

	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		digits = "0"
	}
	return digits, nil
}

// FormatNumber renders a digit string with Turkish grouping: "1250000" → "1.250.000".
// Input that is not a whole number is returned unchanged.
func FormatNumber(digits string) string {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return digits
	}
	return trPrinter.Sprintf("%d", n)
}
