package tui

import "fmt"

func formatCost(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("$%.1fk", v/1000)
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatTokens renders token counts with k/M/B suffixes so bar labels
// stay inside narrow bars.
func formatTokens(v uint64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(v)/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	}
	return fmt.Sprintf("%d", v)
}

func formatDelta(pct float64) string {
	sign := "+"
	if pct < 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%.1f%%", sign, pct)
}

// shortKeyID compresses an opaque API-key id for display when no human
// name could be resolved.
func shortKeyID(id string) string {
	runes := []rune(id)
	if len(runes) <= 16 {
		return id
	}
	return string(runes[:8]) + "..." + string(runes[len(runes)-4:])
}
