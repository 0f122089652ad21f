package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ─── Color Palette (Catppuccin Mocha + modern refinements) ──────────────────

var (
	// Base tones
	colorBase     = lipgloss.Color("#1E1E2E") // background
	colorMantle   = lipgloss.Color("#181825") // deeper bg
	colorSurface0 = lipgloss.Color("#313244") // card bg
	colorSurface1 = lipgloss.Color("#45475A") // lighter surface
	colorText     = lipgloss.Color("#CDD6F4") // primary text
	colorSubtext  = lipgloss.Color("#A6ADC8") // secondary text
	colorDim      = lipgloss.Color("#585B70") // muted, borders

	// Accents
	colorAccent   = lipgloss.Color("#CBA6F7") // mauve – primary accent
	colorBlue     = lipgloss.Color("#89B4FA") // section headers
	colorSapphire = lipgloss.Color("#74C7EC") // key hints
	colorGreen    = lipgloss.Color("#A6E3A1") // positive deltas
	colorYellow   = lipgloss.Color("#F9E2AF") // warnings, capped axis
	colorRed      = lipgloss.Color("#F38BA8") // errors
	colorPeach    = lipgloss.Color("#FAB387") // anthropic accent
	colorTeal     = lipgloss.Color("#94E2D5") // secondary highlight
	colorLavender = lipgloss.Color("#B4BEFE") // titles
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorSapphire).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	deltaUpStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	deltaDownStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// Option bar: the selected column and value
	optionActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMantle).
				Background(colorAccent).
				Padding(0, 1)

	optionInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSubtext).
				Background(colorSurface0).
				Padding(0, 1)

	optionLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	// Filter list entries under the GroupBy column
	filterSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLavender).
				Background(colorSurface1).
				Padding(0, 1)

	filterNormalStyle = lipgloss.NewStyle().
				Foreground(colorSubtext).
				Padding(0, 1)

	// Summary cards above the chart
	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	summaryValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText)

	summaryCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorSurface1).
				Padding(0, 1)

	// Chart chrome
	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	chartAxisStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	chartLegendTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSubtext)

	// API-key popup
	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	popupTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)
)
