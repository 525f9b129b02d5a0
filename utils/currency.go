package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatAmount renders a money amount with thousands separators and two
// decimals, e.g. 15000.5 -> "15,000.50".
func FormatAmount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	integer := fmt.Sprintf("%d", cents/100)

	var groups []string
	for len(integer) > 3 {
		groups = append([]string{integer[len(integer)-3:]}, groups...)
		integer = integer[:len(integer)-3]
	}
	groups = append([]string{integer}, groups...)

	return fmt.Sprintf("%s%s.%02d", sign, strings.Join(groups, ","), cents%100)
}
