// Package format renders numbers for console and CSV output.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal returns a two-decimal string with thousands separators (e.g., "-1,234.56").
func Decimal(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(amount))
}

// Credits returns the shortest exact form of a credit cost, e.g. "9.5" or "10".
func Credits(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
