package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/costwatch/costwatch/internal/core"
)

const sparklineWidth = 24

// renderSummary draws the stat cards above the chart: totals, per-day
// average, the change against the previous window, and a sparkline of
// the daily trend.
func (m Model) renderSummary() string {
	if m.needsCredentials() || m.activeError() != "" {
		return ""
	}
	if m.nav.metric == MetricCost {
		return m.renderCostSummary()
	}
	return m.renderUsageSummary()
}

func (m Model) renderCostSummary() string {
	s := m.session()
	summary := core.SummarizeCost(s.costRecords, m.nav.rng.Days(), m.nav.selectedFilter)
	if !summary.HasData {
		return ""
	}

	days := daySpan(summary.FirstDate, summary.LastDate)
	cards := []string{
		summaryCard("Total", formatCost(summary.Total)),
		summaryCard("Avg/day", formatCost(summary.Total/float64(days))),
	}
	if pct, ok := core.CompareCostPeriods(s.costRecords, m.nav.rng.Days(), m.nav.selectedFilter); ok {
		cards = append(cards, summaryCard("vs prev "+m.nav.rng.Label(), styleDelta(pct)))
	}
	cards = append(cards, summaryCard("Trend", m.renderTrend(m.costSeries())))

	return " " + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func (m Model) renderUsageSummary() string {
	s := m.session()
	summary := core.SummarizeUsage(s.usageRecords, m.nav.rng.Days(), m.nav.groupBy, m.nav.selectedFilter)
	if !summary.HasData {
		return ""
	}

	cards := []string{
		summaryCard("Tokens", formatTokens(summary.TotalTokens())),
		summaryCard("In / Out", formatTokens(summary.Input)+" / "+formatTokens(summary.Output)),
	}
	if summary.HasRequests {
		cards = append(cards, summaryCard("Requests", formatTokens(summary.Requests)))
	}
	if summary.HasCacheRate {
		cards = append(cards, summaryCard("Cache hit", fmt.Sprintf("%.1f%%", summary.CacheHitRate)))
	}
	if pct, ok := core.CompareUsagePeriods(s.usageRecords, m.nav.rng.Days(), m.nav.groupBy, m.nav.selectedFilter); ok {
		cards = append(cards, summaryCard("vs prev "+m.nav.rng.Label(), styleDelta(pct)))
	}
	cards = append(cards, summaryCard("Trend", m.renderTrend(m.usageSeries())))

	return " " + lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

// renderTrend draws the daily totals as a one-line sparkline.
func (m Model) renderTrend(series chartSeries) string {
	if len(series.dates) == 0 {
		return dimStyle.Render(strings.Repeat("·", sparklineWidth))
	}
	sl := sparkline.New(sparklineWidth, 1,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(colorAccent)))
	for _, d := range series.dates {
		sl.Push(series.total(d))
	}
	sl.Draw()
	return sl.View()
}

func summaryCard(title, value string) string {
	return summaryCardStyle.Render(
		summaryTitleStyle.Render(title) + "\n" + summaryValueStyle.Render(value))
}

func styleDelta(pct float64) string {
	if pct >= 0 {
		return deltaUpStyle.Render(formatDelta(pct))
	}
	return deltaDownStyle.Render(formatDelta(pct))
}

// daySpan counts the inclusive number of calendar days between two
// record dates, never less than one.
func daySpan(first, last time.Time) int {
	days := int(core.Day(last).Sub(core.Day(first)).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
