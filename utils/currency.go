package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyVND formats an amount as Vietnamese dong.
// Example: 200000 -> "200.000 ₫" (VND khong co phan le)
func FormatCurrencyVND(amount decimal.Decimal) string {
	digits := amount.Round(0).String()

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	// Chen dau cham phan tach hang nghin
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	formatted := strings.Join(groups, ".")
	if negative {
		formatted = "-" + formatted
	}
	return fmt.Sprintf("%s ₫", formatted)
}
