package render

import (
	"fmt"
	"strings"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// svgRamp mirrors turboRamp as plain hex strings for SVG fills.
var svgRamp = []string{
	"#30123b", "#4145ab", "#4675ed", "#39a2fc",
	"#1bcfd4", "#24eca6", "#61fc6c", "#a4fc3b",
	"#d1e834", "#f3c63a", "#fe9b2d", "#f36315",
	"#d93806", "#b11901", "#7a0402",
}

func svgColor(t, lo, hi float64) string {
	if hi <= lo {
		return svgRamp[0]
	}
	frac := (t - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return svgRamp[int(frac*float64(len(svgRamp)-1))]
}

// SliceSVG renders the z-slice of a field as an SVG grid of colored
// rects, cellPx pixels per cell, with the color ramp scaled between lo
// and hi.
func SliceSVG(f *thermal.Field, z int, lo, hi float64, cellPx float64) string {
	size := f.Size()
	width := float64(size) * cellPx
	height := float64(size) * cellPx

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	rows := f.SliceZ(z)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// SVG y grows downward; flip so the grid's y grows upward.
			px := float64(x) * cellPx
			py := float64(size-1-y) * cellPx
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#000000" stroke-width="0.5"/>
`, px, py, cellPx, cellPx, svgColor(rows[y][x], lo, hi)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
