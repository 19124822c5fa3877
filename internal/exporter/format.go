package exporter

import (
	"fmt"
	"strconv"

	"strykerscli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatNull formats an optional value with 2 decimal places, or "n/a"
func formatNull(n domain.NullFloat) string {
	return n.Display("%.2f")
}

// formatPValue keeps small p-values readable
func formatPValue(p float64) string {
	return strconv.FormatFloat(p, 'g', 4, 64)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
