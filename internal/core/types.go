package core

import "time"

// Provider identifies one of the supported billing APIs.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// AllProviders lists providers in display order.
func AllProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic}
}

func (p Provider) Label() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	}
	return string(p)
}

// CostRecord is one normalized daily cost line item. Date is truncated to
// UTC midnight; Category may be empty, in which case GroupKey falls back
// to "unknown".
type CostRecord struct {
	Date     time.Time
	Amount   float64
	Category string
}

// UsageRecord is one normalized daily token-usage row. A row whose input
// and output counts are both zero never makes it into a record set.
type UsageRecord struct {
	Date         time.Time
	InputTokens  uint64
	OutputTokens uint64
	Model        string
	APIKeyID     string

	CacheReadTokens *uint64
	UncachedTokens  *uint64
	RequestCount    *uint64
}

// ProviderErrors tracks the cost and usage fetch errors independently;
// both may be set for the same cycle.
type ProviderErrors struct {
	Cost  string
	Usage string
}

// AppendUsage joins message onto the usage error with "; ", preserving
// any earlier message.
func (e *ProviderErrors) AppendUsage(message string) {
	if e.Usage == "" {
		e.Usage = message
		return
	}
	e.Usage = e.Usage + "; " + message
}

// AppendCost joins message onto the cost error with "; ".
func (e *ProviderErrors) AppendCost(message string) {
	if e.Cost == "" {
		e.Cost = message
		return
	}
	e.Cost = e.Cost + "; " + message
}

// FetchOutcome is the result of one full fetch cycle for a provider.
// Results are keyed by Provider so a fetch that completes after the user
// navigated away still lands in the right session.
type FetchOutcome struct {
	Provider     Provider
	CostRecords  []CostRecord
	UsageRecords []UsageRecord
	KeyNames     map[string]string
	Errors       ProviderErrors
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateLabel renders the MM/DD axis label used for grouping and display.
func DateLabel(t time.Time) string {
	return t.UTC().Format("01/02")
}
