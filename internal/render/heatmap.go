// Package render turns recorded temperature fields into terminal and
// SVG output: slice heatmaps, time-series plots, and exported images.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// turboRamp approximates the turbo colormap from cold blue to hot red.
var turboRamp = []lipgloss.Color{
	"#30123b", "#4145ab", "#4675ed", "#39a2fc",
	"#1bcfd4", "#24eca6", "#61fc6c", "#a4fc3b",
	"#d1e834", "#f3c63a", "#fe9b2d", "#f36315",
	"#d93806", "#b11901", "#7a0402",
}

var (
	cellStyle  = lipgloss.NewStyle()
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// rampColor maps t in [lo, hi] onto the turbo ramp.
func rampColor(t, lo, hi float64) lipgloss.Color {
	if hi <= lo {
		return turboRamp[0]
	}
	frac := (t - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	idx := int(frac * float64(len(turboRamp)-1))
	return turboRamp[idx]
}

// Heatmap renders the z-slice of a field as colored cells, scaling the
// color ramp between lo and hi (typically the run's ambient and end
// temperatures so frames share a scale).
func Heatmap(f *thermal.Field, z int, lo, hi float64) string {
	rows := f.SliceZ(z)

	var sb strings.Builder
	for y := len(rows) - 1; y >= 0; y-- {
		for x := 0; x < len(rows[y]); x++ {
			color := rampColor(rows[y][x], lo, hi)
			sb.WriteString(cellStyle.Foreground(color).Render("██"))
		}
		if y > 0 {
			sb.WriteString("\n")
		}
	}

	caption := captionStyle.Render(
		fmt.Sprintf("z=%d  min %.2fK  max %.2fK", z, f.Min(), f.Max()))

	return frameStyle.Render(sb.String()) + "\n" + caption
}

// Legend renders the color ramp with its temperature endpoints.
func Legend(lo, hi float64) string {
	var sb strings.Builder
	sb.WriteString(captionStyle.Render(fmt.Sprintf("%.0fK ", lo)))
	for _, c := range turboRamp {
		sb.WriteString(cellStyle.Foreground(c).Render("█"))
	}
	sb.WriteString(captionStyle.Render(fmt.Sprintf(" %.0fK", hi)))
	return sb.String()
}
