// Package money converts between display-formatted currency strings and
// integer amounts in minor units (cents). Amounts are never represented
// as floating point.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ParseInput converts raw form input to cents. Every non-digit rune is
// stripped first, so "R$ 12,34", "12.34" and "1234" all parse to 1234.
// Input with no digits at all parses to 0.
func ParseInput(value string) (int64, error) {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, nil
	}

	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInvalidAmount, "Invalid amount format", err)
	}
	return cents, nil
}

// Format renders cents as a pt-BR currency string, e.g. 1234 -> "R$ 12,34".
// The integer part keeps locale grouping: 123456789 -> "R$ 1.234.567,89".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	return ptBR.Sprintf("%sR$ %v,%02d", sign, number.Decimal(whole), frac)
}
