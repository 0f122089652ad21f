package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/costwatch/costwatch/internal/core"
)

// Per-vendor segment palettes. Anthropic gets its brand's warm clay
// tones, OpenAI a cool spread, so the two dashboards read differently
// at a glance.
var anthropicPalette = []lipgloss.Color{
	lipgloss.Color("#CC785C"),
	lipgloss.Color("#D4A27F"),
	lipgloss.Color("#EBDBBC"),
	lipgloss.Color("#BF4D43"),
	lipgloss.Color("#E5E4DF"),
	lipgloss.Color("#F0F0EB"),
}

var openaiPalette = []lipgloss.Color{
	colorBlue,
	colorTeal,
	colorGreen,
	colorAccent,
	colorYellow,
	colorSapphire,
}

func providerPalette(p core.Provider) []lipgloss.Color {
	if p == core.ProviderAnthropic {
		return anthropicPalette
	}
	return openaiPalette
}

// assignColors maps every category to a palette color by sorted order.
// Callers pass the union of cost and usage categories so a model keeps
// one color across both charts.
func assignColors(p core.Provider, categories []string) map[string]lipgloss.Color {
	palette := providerPalette(p)
	sorted := lo.Uniq(categories)
	sort.Strings(sorted)

	colors := make(map[string]lipgloss.Color, len(sorted))
	for i, c := range sorted {
		colors[c] = palette[i%len(palette)]
	}
	return colors
}

// categoryUnion merges cost and usage category lists for one provider so
// color assignment sees every key the charts will draw.
func categoryUnion(cost, usage []string) []string {
	union := lo.Uniq(append(append([]string(nil), cost...), usage...))
	sort.Strings(union)
	return union
}
