package core

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// filterRange keeps records whose date falls inside the trailing window
// ending at the newest date present. The cutoff is maxDate-(days-1) so a
// 7-day range spans exactly seven calendar days.
func filterRange[T any](records []T, days int, date func(T) time.Time) []T {
	if len(records) == 0 {
		return nil
	}
	latest := lo.MaxBy(records, func(a, b T) bool { return date(a).After(date(b)) })
	cutoff := Day(date(latest)).AddDate(0, 0, -(days - 1))
	return lo.Filter(records, func(r T, _ int) bool {
		return !date(r).Before(cutoff)
	})
}

// RangeCost returns the cost records within the trailing days-wide window.
// Empty input yields empty output. Applying the same range twice is a
// no-op.
func RangeCost(records []CostRecord, days int) []CostRecord {
	return filterRange(records, days, func(r CostRecord) time.Time { return r.Date })
}

// RangeUsage returns the usage records within the trailing days-wide window.
func RangeUsage(records []UsageRecord, days int) []UsageRecord {
	return filterRange(records, days, func(r UsageRecord) time.Time { return r.Date })
}

// FilterCost keeps records whose group key equals filter. An empty filter
// selects everything.
func FilterCost(records []CostRecord, filter string) []CostRecord {
	if filter == "" {
		return records
	}
	return lo.Filter(records, func(r CostRecord, _ int) bool {
		return CostKey(r) == filter
	})
}

// FilterUsage keeps records whose group key under groupBy equals filter.
func FilterUsage(records []UsageRecord, groupBy GroupBy, filter string) []UsageRecord {
	if filter == "" {
		return records
	}
	return lo.Filter(records, func(r UsageRecord, _ int) bool {
		return UsageKey(r, groupBy) == filter
	})
}

// AvailableCostCategories returns the sorted group keys present in
// records. It is always computed over the unfiltered, range-limited set
// so the filter menu never shrinks to the current selection.
func AvailableCostCategories(records []CostRecord) []string {
	keys := lo.Uniq(lo.Map(records, func(r CostRecord, _ int) string { return CostKey(r) }))
	sort.Strings(keys)
	return keys
}

// AvailableUsageCategories returns the sorted group keys present in
// records under groupBy.
func AvailableUsageCategories(records []UsageRecord, groupBy GroupBy) []string {
	keys := lo.Uniq(lo.Map(records, func(r UsageRecord, _ int) string { return UsageKey(r, groupBy) }))
	sort.Strings(keys)
	return keys
}

// TokenPair holds input/output token counts for one category bucket.
type TokenPair struct {
	Input  uint64
	Output uint64
}

func (p TokenPair) Total() uint64 { return p.Input + p.Output }

// CostTotals is the grouped per-date decomposition the chart consumes.
type CostTotals struct {
	ByDate         map[string]map[string]float64
	CategoryTotals map[string]float64
	Dates          []string
	Categories     []string
}

// DateTotal sums all category amounts for one date label.
func (t CostTotals) DateTotal(date string) float64 {
	var sum float64
	for _, v := range t.ByDate[date] {
		sum += v
	}
	return sum
}

// GroupCost buckets records per date label and category. Categories with
// a zero total on a date are simply absent from that date's map.
func GroupCost(records []CostRecord) CostTotals {
	byDate := make(map[string]map[string]float64)
	catTotals := make(map[string]float64)

	for _, r := range records {
		date := DateLabel(r.Date)
		key := CostKey(r)
		if byDate[date] == nil {
			byDate[date] = make(map[string]float64)
		}
		byDate[date][key] += r.Amount
		catTotals[key] += r.Amount
	}

	dates := lo.Keys(byDate)
	sort.Strings(dates)
	categories := lo.Keys(catTotals)
	sort.Strings(categories)

	return CostTotals{
		ByDate:         byDate,
		CategoryTotals: catTotals,
		Dates:          dates,
		Categories:     categories,
	}
}

// UsageTotals is the grouped per-date token decomposition.
type UsageTotals struct {
	ByDate         map[string]map[string]TokenPair
	CategoryTotals map[string]TokenPair
	Dates          []string
	Categories     []string
}

// DateTotal sums input+output across all categories for one date label.
func (t UsageTotals) DateTotal(date string) uint64 {
	var sum uint64
	for _, v := range t.ByDate[date] {
		sum += v.Total()
	}
	return sum
}

// GroupUsage buckets records per date label and group key.
func GroupUsage(records []UsageRecord, groupBy GroupBy) UsageTotals {
	byDate := make(map[string]map[string]TokenPair)
	catTotals := make(map[string]TokenPair)

	for _, r := range records {
		date := DateLabel(r.Date)
		key := UsageKey(r, groupBy)
		if byDate[date] == nil {
			byDate[date] = make(map[string]TokenPair)
		}
		pair := byDate[date][key]
		pair.Input += r.InputTokens
		pair.Output += r.OutputTokens
		byDate[date][key] = pair

		total := catTotals[key]
		total.Input += r.InputTokens
		total.Output += r.OutputTokens
		catTotals[key] = total
	}

	dates := lo.Keys(byDate)
	sort.Strings(dates)
	categories := lo.Keys(catTotals)
	sort.Strings(categories)

	return UsageTotals{
		ByDate:         byDate,
		CategoryTotals: catTotals,
		Dates:          dates,
		Categories:     categories,
	}
}
