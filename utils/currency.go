package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency formats an amount in so'm with thousand separators,
// e.g. 1234567.5 -> "1 234 567.50 so'm".
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	return strings.Join(result, " ") + "." + decimalPart + " so'm"
}
