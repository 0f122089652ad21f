package core

import "strings"

// GroupBy selects the dimension used to partition usage records into
// chart categories.
type GroupBy int

const (
	GroupByModel GroupBy = iota
	GroupByAPIKeys
)

func (g GroupBy) Label() string {
	switch g {
	case GroupByAPIKeys:
		return "API Keys"
	default:
		return "Model"
	}
}

// UnknownCategory is the fallback group key for records whose category
// field is absent or blank after trimming.
const UnknownCategory = "unknown"

// NormalizeKey trims s and substitutes UnknownCategory for blank values.
// Every place a group key is derived (aggregation, colors, legends,
// filters) must go through this so they cannot diverge.
func NormalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownCategory
	}
	return s
}

// CostKey returns the group key for a cost record.
func CostKey(r CostRecord) string {
	return NormalizeKey(r.Category)
}

// UsageKey returns the group key for a usage record under the given
// grouping dimension.
func UsageKey(r UsageRecord, groupBy GroupBy) string {
	if groupBy == GroupByAPIKeys {
		return NormalizeKey(r.APIKeyID)
	}
	return NormalizeKey(r.Model)
}
