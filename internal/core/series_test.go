package core

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func tenDayCosts() []CostRecord {
	var records []CostRecord
	for i := 0; i < 10; i++ {
		records = append(records,
			CostRecord{Date: day(i), Amount: 5, Category: "gpt-4"},
			CostRecord{Date: day(i), Amount: 1, Category: "gpt-3.5"},
		)
	}
	return records
}

func TestRangeCostWindow(t *testing.T) {
	filtered := RangeCost(tenDayCosts(), 7)

	dates := make(map[time.Time]bool)
	for _, r := range filtered {
		dates[r.Date] = true
	}
	if len(dates) != 7 {
		t.Fatalf("distinct dates = %d, want 7", len(dates))
	}
	if dates[day(2)] {
		t.Error("day 2 should fall outside the 7-day window ending at day 9")
	}
	if !dates[day(3)] || !dates[day(9)] {
		t.Error("window should span day 3 through day 9 inclusive")
	}
}

func TestRangeCostIdempotent(t *testing.T) {
	once := RangeCost(tenDayCosts(), 7)
	twice := RangeCost(once, 7)

	if len(once) != len(twice) {
		t.Fatalf("second application changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("record %d changed on second application", i)
		}
	}
}

func TestRangeCostEmptyInput(t *testing.T) {
	if got := RangeCost(nil, 7); len(got) != 0 {
		t.Errorf("RangeCost(nil) = %v, want empty", got)
	}
}

func TestSevenDayScenarioTotals(t *testing.T) {
	records := tenDayCosts()

	all := SummarizeCost(records, 7, "")
	if all.Total != 42 {
		t.Errorf("7d total = %v, want 42", all.Total)
	}
	if avg := all.Total / 7; avg != 6 {
		t.Errorf("7d average/day = %v, want 6", avg)
	}

	gpt4 := SummarizeCost(records, 7, "gpt-4")
	if gpt4.Total != 35 {
		t.Errorf("7d gpt-4 total = %v, want 35", gpt4.Total)
	}
}

func TestGroupCostBlankCategories(t *testing.T) {
	records := []CostRecord{
		{Date: day(0), Amount: 2, Category: "  "},
		{Date: day(0), Amount: 3, Category: ""},
		{Date: day(0), Amount: 1, Category: "gpt-4"},
	}

	totals := GroupCost(records)
	if got := totals.ByDate[DateLabel(day(0))][UnknownCategory]; got != 5 {
		t.Errorf("unknown bucket = %v, want 5", got)
	}
	if got := totals.CategoryTotals["gpt-4"]; got != 1 {
		t.Errorf("gpt-4 total = %v, want 1", got)
	}
	for _, c := range totals.Categories {
		if c == "" {
			t.Error("Categories must never include an empty string")
		}
	}
}

func TestAvailableCategoriesIgnoreFilter(t *testing.T) {
	records := RangeCost(tenDayCosts(), 7)
	// The category filter must not shrink the available set; it is always
	// derived from the unfiltered, range-limited records.
	filtered := FilterCost(records, "gpt-4")
	if len(filtered) == len(records) {
		t.Fatal("filter did nothing")
	}

	categories := AvailableCostCategories(records)
	if len(categories) != 2 {
		t.Fatalf("available categories = %v, want two entries", categories)
	}
	if categories[0] != "gpt-3.5" || categories[1] != "gpt-4" {
		t.Errorf("categories = %v, want sorted [gpt-3.5 gpt-4]", categories)
	}
}

func TestGroupUsageByAPIKey(t *testing.T) {
	key := "sk-abc"
	records := []UsageRecord{
		{Date: day(0), InputTokens: 100, OutputTokens: 50, Model: "gpt-4", APIKeyID: key},
		{Date: day(0), InputTokens: 10, OutputTokens: 5, Model: "gpt-4", APIKeyID: ""},
	}

	totals := GroupUsage(records, GroupByAPIKeys)
	date := DateLabel(day(0))
	if got := totals.ByDate[date][key]; got != (TokenPair{Input: 100, Output: 50}) {
		t.Errorf("keyed bucket = %+v", got)
	}
	if got := totals.ByDate[date][UnknownCategory]; got != (TokenPair{Input: 10, Output: 5}) {
		t.Errorf("unknown bucket = %+v", got)
	}
	if got := totals.DateTotal(date); got != 165 {
		t.Errorf("DateTotal = %d, want 165", got)
	}
}

func TestSummarizeUsageCacheHitRate(t *testing.T) {
	cache := func(v uint64) *uint64 { return &v }
	records := []UsageRecord{
		{Date: day(0), InputTokens: 100, OutputTokens: 1, CacheReadTokens: cache(75), UncachedTokens: cache(25)},
	}

	s := SummarizeUsage(records, 7, GroupByModel, "")
	if !s.HasCacheRate {
		t.Fatal("expected cache hit rate")
	}
	if s.CacheHitRate != 75 {
		t.Errorf("cache hit rate = %v, want 75", s.CacheHitRate)
	}

	noCache := SummarizeUsage([]UsageRecord{{Date: day(0), InputTokens: 1}}, 7, GroupByModel, "")
	if noCache.HasCacheRate {
		t.Error("records without cache fields must not report a rate")
	}
}
