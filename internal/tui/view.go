package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/core"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting costwatch..."
	}

	header := m.renderHeader()
	options := m.renderOptions()
	summary := m.renderSummary()
	footer := m.renderFooter()

	chrome := lipgloss.Height(header) + lipgloss.Height(options) +
		lipgloss.Height(summary) + lipgloss.Height(footer)
	chartHeight := m.height - chrome
	if chartHeight < 0 {
		chartHeight = 0
	}
	chart := m.renderChart(chartHeight)

	if m.popupActive {
		return m.overlayPopup()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, options, summary, chart, footer)
}

func (m Model) renderHeader() string {
	brand := headerBrandStyle.Render("costwatch")
	title := headerStyle.Render(" · " + m.nav.provider.Label() + " · " + m.nav.metric.Label())
	status := ""
	if m.session().inFlight {
		status = dimStyle.Render("  fetching...")
	}
	return " " + brand + title + status + "\n"
}

func (m Model) renderFooter() string {
	hint := func(key, action string) string {
		return helpKeyStyle.Render(key) + helpStyle.Render(" "+action)
	}
	parts := []string{
		hint("←→", "column"),
		hint("↑↓", "select"),
		hint("enter", "filter"),
		hint("h/l", "scroll"),
		hint("d", "values"),
		hint("r", "refresh"),
		hint("q", "quit"),
	}
	return " " + strings.Join(parts, helpStyle.Render("  ·  "))
}

// ─── Per-frame derivations ──────────────────────────────────────────────────

func (m Model) rangedCost() []core.CostRecord {
	return core.RangeCost(m.session().costRecords, m.nav.rng.Days())
}

func (m Model) rangedUsage() []core.UsageRecord {
	return core.RangeUsage(m.session().usageRecords, m.nav.rng.Days())
}

// availableFilters is always computed over the unfiltered range-limited
// set so the filter menu never shrinks to the current selection.
func (m Model) availableFilters() []string {
	if m.nav.metric == MetricCost {
		return core.AvailableCostCategories(m.rangedCost())
	}
	return core.AvailableUsageCategories(m.rangedUsage(), m.nav.groupBy)
}

func (m Model) costTotals() core.CostTotals {
	return core.GroupCost(core.FilterCost(m.rangedCost(), m.nav.selectedFilter))
}

func (m Model) usageTotals() core.UsageTotals {
	return core.GroupUsage(
		core.FilterUsage(m.rangedUsage(), m.nav.groupBy, m.nav.selectedFilter),
		m.nav.groupBy)
}

func (m Model) chartDates() []string {
	if m.nav.metric == MetricCost {
		return m.costTotals().Dates
	}
	return m.usageTotals().Dates
}

func (m Model) chartWidth() int {
	w := m.width - 4
	if w < 0 {
		return 0
	}
	return w
}

// colorTable assigns colors over the union of cost and usage categories
// so a model shared by both views keeps one color.
func (m Model) colorTable() map[string]lipgloss.Color {
	union := categoryUnion(
		core.AvailableCostCategories(m.rangedCost()),
		core.AvailableUsageCategories(m.rangedUsage(), m.nav.groupBy))
	return assignColors(m.nav.provider, union)
}

// displayName maps a group key to what the legend and filter list show:
// resolved key names when grouping by API key, the key itself otherwise.
func (m Model) displayName(key string) string {
	if m.nav.metric == MetricUsage && m.nav.groupBy == core.GroupByAPIKeys {
		if name, ok := m.session().keyNames[key]; ok && name != "" {
			return name
		}
		return shortKeyID(key)
	}
	return key
}
