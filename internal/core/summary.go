package core

import "time"

// CostSummary aggregates the range- and filter-limited cost records for
// the summary panel.
type CostSummary struct {
	Total     float64
	FirstDate time.Time
	LastDate  time.Time
	HasData   bool
}

// SummarizeCost totals the records inside the trailing window, optionally
// restricted to one category.
func SummarizeCost(records []CostRecord, days int, filter string) CostSummary {
	filtered := FilterCost(RangeCost(records, days), filter)
	if len(filtered) == 0 {
		return CostSummary{}
	}

	s := CostSummary{
		HasData:   true,
		FirstDate: filtered[0].Date,
		LastDate:  filtered[0].Date,
	}
	for _, r := range filtered {
		s.Total += r.Amount
		if r.Date.Before(s.FirstDate) {
			s.FirstDate = r.Date
		}
		if r.Date.After(s.LastDate) {
			s.LastDate = r.Date
		}
	}
	return s
}

// UsageSummary aggregates the range- and filter-limited usage records.
// CacheHitRate and Requests are only meaningful when their Has flag is
// set; not every vendor reports them.
type UsageSummary struct {
	Input        uint64
	Output       uint64
	Requests     uint64
	HasRequests  bool
	CacheHitRate float64
	HasCacheRate bool
	FirstDate    time.Time
	LastDate     time.Time
	HasData      bool
}

func (s UsageSummary) TotalTokens() uint64 { return s.Input + s.Output }

// SummarizeUsage totals tokens, requests and cache reads inside the
// trailing window, optionally restricted to one group key.
func SummarizeUsage(records []UsageRecord, days int, groupBy GroupBy, filter string) UsageSummary {
	filtered := FilterUsage(RangeUsage(records, days), groupBy, filter)
	if len(filtered) == 0 {
		return UsageSummary{}
	}

	s := UsageSummary{
		HasData:   true,
		FirstDate: filtered[0].Date,
		LastDate:  filtered[0].Date,
	}
	var cacheRead, uncached uint64
	for _, r := range filtered {
		s.Input += r.InputTokens
		s.Output += r.OutputTokens
		if r.RequestCount != nil {
			s.Requests += *r.RequestCount
		}
		if r.CacheReadTokens != nil && r.UncachedTokens != nil {
			cacheRead += *r.CacheReadTokens
			uncached += *r.UncachedTokens
		}
		if r.Date.Before(s.FirstDate) {
			s.FirstDate = r.Date
		}
		if r.Date.After(s.LastDate) {
			s.LastDate = r.Date
		}
	}
	s.HasRequests = s.Requests > 0
	if cacheable := cacheRead + uncached; cacheable > 0 {
		s.CacheHitRate = float64(cacheRead) / float64(cacheable) * 100
		s.HasCacheRate = true
	}
	return s
}

// comparePeriods computes the percentage change between the current
// trailing window and the window immediately before it. Returns false
// when the previous window has no value to compare against.
func comparePeriods[T any](
	records []T,
	days int,
	date func(T) time.Time,
	value func(T) float64,
	match func(T) bool,
) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}

	latest := date(records[0])
	for _, r := range records[1:] {
		if date(r).After(latest) {
			latest = date(r)
		}
	}
	cutoff := Day(latest).AddDate(0, 0, -(days - 1))
	prevCutoff := cutoff.AddDate(0, 0, -days)

	var current, previous float64
	for _, r := range records {
		if !match(r) {
			continue
		}
		d := date(r)
		switch {
		case !d.Before(cutoff):
			current += value(r)
		case !d.Before(prevCutoff):
			previous += value(r)
		}
	}
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}

// CompareCostPeriods reports the window-over-window cost change.
func CompareCostPeriods(records []CostRecord, days int, filter string) (float64, bool) {
	return comparePeriods(records, days,
		func(r CostRecord) time.Time { return r.Date },
		func(r CostRecord) float64 { return r.Amount },
		func(r CostRecord) bool { return filter == "" || CostKey(r) == filter })
}

// CompareUsagePeriods reports the window-over-window token change.
func CompareUsagePeriods(records []UsageRecord, days int, groupBy GroupBy, filter string) (float64, bool) {
	return comparePeriods(records, days,
		func(r UsageRecord) time.Time { return r.Date },
		func(r UsageRecord) float64 { return float64(r.InputTokens + r.OutputTokens) },
		func(r UsageRecord) bool { return filter == "" || UsageKey(r, groupBy) == filter })
}
