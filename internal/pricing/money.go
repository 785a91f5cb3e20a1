package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	CurrencyINR: "₹",
}

// FormatMinor renders an amount in minor units with Indian digit grouping,
// e.g. 550000 INR -> ₹5,500.00 and 10000000 INR -> ₹1,00,000.00.
func FormatMinor(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	major := amount / 100
	minor := amount % 100

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}

	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, groupIndian(strconv.FormatInt(major, 10)), minor)
}

// groupIndian applies lakh/crore grouping: last three digits, then pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(parts, ",") + "," + tail
}
