package render

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// OriginSeries extracts the origin cell's temperature per recorded step.
func OriginSeries(frames []*thermal.Field, origin thermal.Coord) []float64 {
	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = f.At(origin)
	}
	return data
}

// MeanSeries extracts the field mean per recorded step.
func MeanSeries(frames []*thermal.Field) []float64 {
	data := make([]float64, len(frames))
	for i, f := range frames {
		data[i] = f.Mean()
	}
	return data
}

// MaxDeltaSeries extracts the largest per-cell change between
// consecutive frames, the quantity the convergence check watches. The
// series has one fewer entry than frames.
func MaxDeltaSeries(frames []*thermal.Field) []float64 {
	if len(frames) < 2 {
		return nil
	}
	data := make([]float64, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		maxDelta := 0.0
		for j := 0; j < frames[i].Len(); j++ {
			d := math.Abs(frames[i].AtIndex(j) - frames[i-1].AtIndex(j))
			if d > maxDelta {
				maxDelta = d
			}
		}
		data[i-1] = maxDelta
	}
	return data
}

// Plot renders a series as an ASCII line chart.
func Plot(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
