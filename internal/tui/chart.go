package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chartSeries flattens cost or usage totals into the shape the bar
// renderer consumes, so one code path draws both metrics.
type chartSeries struct {
	dates      []string
	categories []string
	value      func(date, category string) float64
	total      func(date string) float64
	formatVal  func(v float64) string
}

func (m Model) costSeries() chartSeries {
	totals := m.costTotals()
	return chartSeries{
		dates:      totals.Dates,
		categories: totals.Categories,
		value: func(date, category string) float64 {
			return totals.ByDate[date][category]
		},
		total:     totals.DateTotal,
		formatVal: formatCost,
	}
}

func (m Model) usageSeries() chartSeries {
	totals := m.usageTotals()
	return chartSeries{
		dates:      totals.Dates,
		categories: totals.Categories,
		value: func(date, category string) float64 {
			return float64(totals.ByDate[date][category].Total())
		},
		total: func(date string) float64 {
			return float64(totals.DateTotal(date))
		},
		formatVal: func(v float64) string { return formatTokens(uint64(v)) },
	}
}

func (m Model) renderChart(height int) string {
	if height <= 0 {
		return ""
	}

	if m.needsCredentials() {
		return centerInChart(height, m.width,
			labelStyle.Render("No "+m.nav.provider.Label()+" credentials."),
			dimStyle.Render("Press ↑/↓ on the provider column to connect a key."))
	}

	if err := m.activeError(); err != "" {
		return centerInChart(height, m.width,
			errorStyle.Render(m.nav.metric.Label()+" fetch failed"),
			dimStyle.Render(err))
	}

	series := m.costSeries()
	if m.nav.metric == MetricUsage {
		series = m.usageSeries()
	}

	if len(series.dates) == 0 {
		if m.session().inFlight {
			return centerInChart(height, m.width, dimStyle.Render("fetching "+m.nav.provider.Label()+" data..."))
		}
		return centerInChart(height, m.width, dimStyle.Render("no data in window"))
	}

	layout := barLayout(len(series.dates), m.chartWidth(), m.session().scroll(m.nav.metric))
	if layout == nil {
		return centerInChart(height, m.width, dimStyle.Render("not enough space to draw chart"))
	}

	return m.renderBars(series, layout, height)
}

func (m Model) renderBars(series chartSeries, layout *chartLayout, height int) string {
	showScrollbar := len(series.dates) > layout.visibleCount
	// One row each for totals, date labels and the legend, plus the
	// scrollbar when the chart overflows.
	chrome := 3
	if showScrollbar {
		chrome++
	}
	barArea := height - chrome
	if barArea < 1 {
		return centerInChart(height, m.width, dimStyle.Render("not enough space to draw chart"))
	}

	visible := series.dates[layout.startIndex : layout.startIndex+layout.visibleCount]
	colors := m.colorTable()

	totals := make([]float64, len(visible))
	for i, d := range visible {
		totals[i] = series.total(d)
	}
	scale := smartScale(totals)

	type barColumn struct {
		rows   []string // bottom-up, len barArea
		total  float64
		capped bool
	}

	bars := make([]barColumn, len(visible))
	for i, date := range visible {
		values := make([]float64, len(series.categories))
		for c, cat := range series.categories {
			values[c] = series.value(date, cat)
		}
		heights := segmentHeights(values, totals[i], scale, barArea)

		col := barColumn{
			rows:   make([]string, barArea),
			total:  totals[i],
			capped: scale.capped && totals[i] > scale.displayMax,
		}
		blank := strings.Repeat(" ", layout.barWidth)
		for r := range col.rows {
			col.rows[r] = blank
		}

		row := 0
		for c, h := range heights {
			if h == 0 {
				continue
			}
			style := lipgloss.NewStyle().Foreground(colors[series.categories[c]])
			block := style.Render(strings.Repeat("█", layout.barWidth))
			for k := 0; k < h && row < barArea; k++ {
				col.rows[row] = block
				row++
			}
			if m.showSegmentValues && h > 0 && layout.barWidth >= 5 {
				mid := row - (h+1)/2
				label := fitLabel(series.formatVal(values[c]), layout.barWidth)
				col.rows[mid] = lipgloss.NewStyle().
					Foreground(colorMantle).
					Background(colors[series.categories[c]]).
					Render(label)
			}
		}
		bars[i] = col
	}

	gap := strings.Repeat(" ", layout.spacing)
	margin := strings.Repeat(" ", 2+layout.offset)

	var b strings.Builder

	// Totals above the bars; capped outliers are highlighted.
	totalCells := make([]string, len(bars))
	for i, bar := range bars {
		label := fitLabel(series.formatVal(bar.total), layout.barWidth)
		if bar.capped {
			totalCells[i] = warnStyle.Render(label)
		} else {
			totalCells[i] = valueStyle.Render(label)
		}
	}
	b.WriteString(margin + strings.Join(totalCells, gap) + "\n")

	// Bar rows, top down.
	for r := barArea - 1; r >= 0; r-- {
		cells := make([]string, len(bars))
		for i, bar := range bars {
			cells[i] = bar.rows[r]
		}
		b.WriteString(margin + strings.Join(cells, gap) + "\n")
	}

	// Date labels.
	dateCells := make([]string, len(visible))
	for i, d := range visible {
		dateCells[i] = chartAxisStyle.Render(fitLabel(d, layout.barWidth))
	}
	b.WriteString(margin + strings.Join(dateCells, gap) + "\n")

	if showScrollbar {
		b.WriteString(renderHorizontalScrollBarLine(
			m.chartWidth(), layout.startIndex, layout.visibleCount, len(series.dates)) + "\n")
	}

	b.WriteString(m.renderLegend(series, colors))
	return b.String()
}

// renderLegend lists every category with its color swatch and range
// total, truncated to the terminal width.
func (m Model) renderLegend(series chartSeries, colors map[string]lipgloss.Color) string {
	if len(series.categories) == 0 {
		return ""
	}
	entries := make([]string, 0, len(series.categories))
	for _, cat := range series.categories {
		var total float64
		for _, d := range series.dates {
			total += series.value(d, cat)
		}
		swatch := lipgloss.NewStyle().Foreground(colors[cat]).Render("■")
		entries = append(entries,
			swatch+" "+labelStyle.Render(m.displayName(cat))+" "+dimStyle.Render(series.formatVal(total)))
	}
	line := "  " + chartLegendTitleStyle.Render("Legend:") + " " + strings.Join(entries, "  ")
	return fitAnsiWidth(line, m.width)
}

// fitLabel centers s inside width columns, truncating when needed.
func fitLabel(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// centerInChart places message lines in the middle of the chart region.
func centerInChart(height, width int, lines ...string) string {
	content := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
