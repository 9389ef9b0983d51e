package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Monetary amounts are stored as integer cents and rendered as decimal
// strings on the wire.

var ErrInvalidAmount = errors.New("invalid monetary amount")

// ParseDecimal converts a decimal string like "10.99" into cents.
// Negative amounts and more than two fractional digits are rejected.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}

	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := int64(0)
	if frac != "00" {
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}

	return units*100 + cents, nil
}

// FormatDecimal renders cents as a decimal string with two fractional digits.
func FormatDecimal(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
