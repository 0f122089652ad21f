package tui

import (
	"math"
	"sort"
)

const (
	barSpacing  = 1
	minBarWidth = 5
	maxBarWidth = 20

	// outlierRatio and compressFactor drive the adaptive vertical scale:
	// when the tallest day dwarfs the 75th percentile, the axis is capped
	// at a multiple of the percentile so ordinary days stay readable.
	outlierRatio   = 3.0
	compressFactor = 2.0
)

// chartLayout is recomputed every frame from the bar count, the width the
// terminal gives us and the user's scroll offset.
type chartLayout struct {
	startIndex   int
	visibleCount int
	barWidth     int
	spacing      int
	offset       int
}

// barLayout packs as many bars as possible into availableWidth, widest
// first. Returns nil when nothing fits; the caller renders an explicit
// "not enough space" state.
func barLayout(totalBars, availableWidth, scrollOffset int) *chartLayout {
	if totalBars == 0 || availableWidth <= 0 {
		return nil
	}

	visible := totalBars
	if availableWidth < visible {
		visible = availableWidth
	}

	for visible > 0 {
		requiredSpacing := barSpacing * (visible - 1)
		if availableWidth <= requiredSpacing {
			visible--
			continue
		}

		barWidth := clamp((availableWidth-requiredSpacing)/visible, minBarWidth, maxBarWidth)
		used := visible*barWidth + requiredSpacing
		if used > availableWidth {
			visible--
			continue
		}

		return &chartLayout{
			startIndex:   clamp(scrollOffset, 0, totalBars-visible),
			visibleCount: visible,
			barWidth:     barWidth,
			spacing:      barSpacing,
			offset:       (availableWidth - used) / 2,
		}
	}

	return nil
}

// clampScroll keeps a scroll offset inside the valid window for the
// current bar count and layout.
func clampScroll(offset, totalBars, visibleCount int) int {
	return clamp(offset, 0, max(0, totalBars-visibleCount))
}

// chartScale is the vertical axis derived from per-date totals.
type chartScale struct {
	displayMax float64
	capped     bool
}

// smartScale compresses the axis when one day's total dwarfs the rest.
// Bars above displayMax render at full height with a highlighted label.
func smartScale(totals []float64) chartScale {
	actualMax := 0.0
	var positive []float64
	for _, t := range totals {
		if t > actualMax {
			actualMax = t
		}
		if t > 0 {
			positive = append(positive, t)
		}
	}

	p75 := percentile75(positive)
	if p75 > 0 && actualMax > outlierRatio*p75 {
		return chartScale{displayMax: compressFactor * p75, capped: true}
	}
	return chartScale{displayMax: actualMax}
}

func percentile75(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Ceil(0.75*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// segmentHeights converts stacked segment values into cell heights for a
// bar of barArea rows. Positive segments get at least one row; rounding
// never overflows the bar.
func segmentHeights(values []float64, total float64, scale chartScale, barArea int) []int {
	heights := make([]int, len(values))
	if barArea <= 0 || scale.displayMax <= 0 {
		return heights
	}

	factor := 1.0
	if total > scale.displayMax {
		// Capped bar: full height, segments squeezed proportionally.
		factor = scale.displayMax / total
	}

	remaining := barArea
	for i, v := range values {
		if v <= 0 || remaining <= 0 {
			continue
		}
		h := int(math.Round((v * factor / scale.displayMax) * float64(barArea)))
		if h < 1 {
			h = 1
		}
		if h > remaining {
			h = remaining
		}
		heights[i] = h
		remaining -= h
	}

	return heights
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
