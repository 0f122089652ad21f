package tui

import (
	"github.com/costwatch/costwatch/internal/core"
)

// Metric selects which chart the dashboard shows.
type Metric int

const (
	MetricUsage Metric = iota
	MetricCost
)

func (m Metric) Label() string {
	if m == MetricCost {
		return "Cost"
	}
	return "Usage"
}

// Range is the trailing window applied before aggregation.
type Range int

const (
	RangeSevenDays Range = iota
	RangeThirtyDays
)

func (r Range) Label() string {
	if r == RangeThirtyDays {
		return "30d"
	}
	return "7d"
}

func (r Range) Days() int {
	if r == RangeThirtyDays {
		return 30
	}
	return 7
}

// optionsColumn is the active column in the options bar.
type optionsColumn int

const (
	colProvider optionsColumn = iota
	colMetric
	colGroupBy
	colRange
)

var allColumns = []optionsColumn{colProvider, colMetric, colGroupBy, colRange}

// navState is the dashboard's navigation machine. It is owned by the
// model and mutated only from the input path.
type navState struct {
	column   optionsColumn
	provider core.Provider
	metric   Metric
	groupBy  core.GroupBy
	rng      Range

	groupByExpanded bool
	selectedFilter  string // group key, "" means all
	filterCursor    int    // 0 is "All", 1..n index filters
}

func newNavState() navState {
	return navState{
		column:   colProvider,
		provider: core.ProviderOpenAI,
		metric:   MetricUsage,
		groupBy:  core.GroupByModel,
		rng:      RangeSevenDays,
	}
}

// moveColumn cycles the active column left or right.
func (n *navState) moveColumn(delta int) {
	idx := 0
	for i, c := range allColumns {
		if c == n.column {
			idx = i
			break
		}
	}
	n.column = allColumns[mod(idx+delta, len(allColumns))]
}

// moveCursor cycles the value within the active column. Reports whether
// the selected provider changed so the caller can handle credentials and
// initial fetches.
func (n *navState) moveCursor(delta int) (providerChanged bool) {
	switch n.column {
	case colProvider:
		providers := core.AllProviders()
		idx := 0
		for i, p := range providers {
			if p == n.provider {
				idx = i
				break
			}
		}
		next := providers[mod(idx+delta, len(providers))]
		if next != n.provider {
			n.provider = next
			n.clearFilter()
			return true
		}
	case colMetric:
		next := MetricUsage
		if n.metric == MetricUsage {
			next = MetricCost
		}
		if next != n.metric {
			n.metric = next
			if n.metric == MetricCost {
				// Cost data only groups by line item.
				n.groupBy = core.GroupByModel
				n.groupByExpanded = false
			}
			n.clearFilter()
		}
	case colGroupBy:
		if n.metric == MetricUsage {
			if n.groupBy == core.GroupByModel {
				n.groupBy = core.GroupByAPIKeys
			} else {
				n.groupBy = core.GroupByModel
			}
			n.clearFilter()
		}
	case colRange:
		if n.rng == RangeSevenDays {
			n.rng = RangeThirtyDays
		} else {
			n.rng = RangeSevenDays
		}
	}
	return false
}

// toggleGroupByExpansion opens or closes the filter list under the
// group-by column. Collapsing keeps the current filter.
func (n *navState) toggleGroupByExpansion() {
	n.groupByExpanded = !n.groupByExpanded
}

// moveFilterCursor walks the expanded filter list. Index 0 is "All";
// the rest map onto filters in order.
func (n *navState) moveFilterCursor(delta int, filters []string) {
	total := len(filters) + 1
	n.filterCursor = mod(n.filterCursor+delta, total)
	if n.filterCursor == 0 {
		n.selectedFilter = ""
	} else {
		n.selectedFilter = filters[n.filterCursor-1]
	}
}

// syncFilter drops a selected filter that no longer exists in the
// current filter set, e.g. after a refresh replaced the records.
func (n *navState) syncFilter(filters []string) {
	if n.selectedFilter == "" {
		n.filterCursor = 0
		return
	}
	for i, f := range filters {
		if f == n.selectedFilter {
			n.filterCursor = i + 1
			return
		}
	}
	n.clearFilter()
}

func (n *navState) clearFilter() {
	n.selectedFilter = ""
	n.filterCursor = 0
}

func mod(v, m int) int {
	return ((v % m) + m) % m
}
