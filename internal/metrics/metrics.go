// Package metrics provides field observers that reduce a propagation
// run to summary values reported in the result.
package metrics

import (
	"math"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// Peak tracks the hottest cell temperature seen across all recorded
// states.
type Peak struct {
	name    string
	peak    float64
	samples int
}

func NewPeak() *Peak {
	return &Peak{name: "peak_temp"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(step int, f *thermal.Field) {
	max := f.Max()
	if p.samples == 0 || max > p.peak {
		p.peak = max
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	return p.peak
}

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}

// TotalTemperature reports the summed cell temperature of the last
// observed state. With uniform cell mass this is proportional to the
// heat held by the cube, so absent origin injection it should stay
// constant under an insulated boundary.
type TotalTemperature struct {
	name string
	last float64
}

func NewTotalTemperature() *TotalTemperature {
	return &TotalTemperature{name: "total_temp"}
}

func (t *TotalTemperature) Name() string { return t.name }

func (t *TotalTemperature) Observe(step int, f *thermal.Field) {
	t.last = f.Sum()
}

func (t *TotalTemperature) Value() float64 {
	return t.last
}

func (t *TotalTemperature) Reset() {
	t.last = 0
}

// Uniformity reports how evenly heat is distributed in the last
// observed state: 1 at a perfectly uniform field, falling toward 0 as
// the cell spread grows relative to the mean.
type Uniformity struct {
	name string
	last float64
}

func NewUniformity() *Uniformity {
	return &Uniformity{name: "uniformity", last: 1.0}
}

func (u *Uniformity) Name() string { return u.name }

func (u *Uniformity) Observe(step int, f *thermal.Field) {
	mean := f.Mean()

	variance := 0.0
	for i := 0; i < f.Len(); i++ {
		d := f.AtIndex(i) - mean
		variance += d * d
	}
	variance /= float64(f.Len())

	sd := math.Sqrt(variance)
	if mean == 0 {
		if sd == 0 {
			u.last = 1.0
		} else {
			u.last = 0.0
		}
		return
	}
	u.last = 1.0 / (1.0 + sd/math.Abs(mean))
}

func (u *Uniformity) Value() float64 {
	return u.last
}

func (u *Uniformity) Reset() {
	u.last = 1.0
}

// Default returns the metric set attached to every CLI run.
func Default() []thermal.Metric {
	return []thermal.Metric{
		NewPeak(),
		NewTotalTemperature(),
		NewUniformity(),
	}
}
