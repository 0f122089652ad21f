package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderOptions draws the four-column options bar. The group-by column
// can expand into a filter list below the bar.
func (m Model) renderOptions() string {
	cells := []string{
		m.optionCell(colProvider, "Provider", m.nav.provider.Label()),
		m.optionCell(colMetric, "Metric", m.nav.metric.Label()),
		m.groupByCell(),
		m.optionCell(colRange, "Range", m.nav.rng.Label()),
	}
	bar := " " + strings.Join(cells, "  ")

	if m.nav.groupByExpanded && m.nav.column == colGroupBy {
		return bar + "\n" + m.renderFilterList() + "\n"
	}
	return bar + "\n"
}

func (m Model) optionCell(col optionsColumn, label, value string) string {
	style := optionInactiveStyle
	if m.nav.column == col {
		style = optionActiveStyle
	}
	return optionLabelStyle.Render(label+" ") + style.Render(value)
}

func (m Model) groupByCell() string {
	value := m.nav.groupBy.Label()
	if m.nav.metric == MetricCost {
		// Cost only groups by line item; show the column dimmed.
		return optionLabelStyle.Render("Group ") + dimStyle.Render(value)
	}
	indicator := " ▸"
	if m.nav.groupByExpanded && m.nav.column == colGroupBy {
		indicator = " ▾"
	}
	if m.nav.selectedFilter != "" {
		value += " [" + m.displayName(m.nav.selectedFilter) + "]"
	}
	return m.optionCell(colGroupBy, "Group", value+indicator)
}

// renderFilterList shows "All" plus every available category. The cursor
// row is highlighted; the active filter is marked.
func (m Model) renderFilterList() string {
	filters := m.availableFilters()
	if len(filters) == 0 {
		return "   " + dimStyle.Render("no categories in range")
	}

	colors := m.colorTable()
	var lines []string

	entry := func(idx int, key, label string) string {
		style := filterNormalStyle
		if m.nav.filterCursor == idx {
			style = filterSelectedStyle
		}
		marker := " "
		if (idx == 0 && m.nav.selectedFilter == "") ||
			(idx > 0 && m.nav.selectedFilter == key) {
			marker = "●"
		}
		swatch := "  "
		if idx > 0 {
			swatch = lipgloss.NewStyle().Foreground(colors[key]).Render("■") + " "
		}
		return "   " + dimStyle.Render(marker) + " " + swatch + style.Render(label)
	}

	lines = append(lines, entry(0, "", "All"))
	for i, f := range filters {
		lines = append(lines, entry(i+1, f, m.displayName(f)))
	}
	return strings.Join(lines, "\n")
}

// activeError returns the error text for the metric panel currently
// shown, empty when the last fetch succeeded.
func (m Model) activeError() string {
	if m.nav.metric == MetricCost {
		return m.session().errors.Cost
	}
	return m.session().errors.Usage
}

// needsCredentials reports whether the selected provider has no client
// configured yet.
func (m Model) needsCredentials() bool {
	return m.session().client == nil
}
