package thermal

import (
	"fmt"
	"math"
)

// Material describes the homogeneous material the cube is made of,
// together with the discretization the conduction model runs on.
type Material struct {
	K              float64 // thermal conductivity (W/m·K)
	Cp             float64 // specific heat capacity (J/kg·K)
	Rho            float64 // density (kg/m³)
	Area           float64 // cross-sectional area of the heat path (m²)
	DeltaX         float64 // cell spacing (m)
	ConductionTime float64 // timestep the transfer is integrated over (s)
	MinDelta       float64 // smallest discernible temperature change (K)
}

// Validate rejects material parameters that would make the conduction
// formula degenerate (zero mass, zero spacing) before any propagation
// begins.
func (m Material) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"k", m.K},
		{"c_p", m.Cp},
		{"rho", m.Rho},
		{"a", m.Area},
		{"delta_x", m.DeltaX},
		{"conduction_time", m.ConductionTime},
	}
	for _, c := range checks {
		if c.val <= 0 || math.IsNaN(c.val) || math.IsInf(c.val, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrParameterBounds, c.name, c.val)
		}
	}
	if m.MinDelta < 0 || math.IsNaN(m.MinDelta) {
		return fmt.Errorf("%w: min_delta must be non-negative, got %v", ErrParameterBounds, m.MinDelta)
	}
	return nil
}

// Conductor models heat conduction between two adjacent cells. It is a
// pure function of its two temperature arguments and the configured
// material; it never retains simulation state.
type Conductor struct {
	Material Material
}

// NewConductor validates the material and returns a conductor for it.
func NewConductor(mat Material) (*Conductor, error) {
	if err := mat.Validate(); err != nil {
		return nil, err
	}
	return &Conductor{Material: mat}, nil
}

// TemperatureChange returns the signed temperature delta (Kelvin) the
// cell at initial undergoes from conductive exchange with one neighbor
// over the conduction timestep. Positive when the neighbor is hotter.
//
// Fourier's law gives the heat flux rate across the cell boundary; the
// flux integrated over the timestep divided by the cell's heat capacity
// yields the temperature change. Deltas smaller in magnitude than
// MinDelta are reported as exactly 0 to bound floating-point drift over
// long runs. NaN or Inf from degenerate parameters pass through
// unclamped.
func (c *Conductor) TemperatureChange(initial, neighbour float64) float64 {
	mat := c.Material

	// Heat flux rate across the boundary (J/s), then total heat over
	// the timestep (J).
	q := mat.K * mat.Area * (neighbour - initial) / mat.DeltaX
	deltaQ := q * mat.ConductionTime

	mass := mat.Rho * mat.Area * mat.DeltaX
	deltaT := deltaQ / (mass * mat.Cp)

	if math.Abs(deltaT) < mat.MinDelta {
		return 0
	}
	return deltaT
}
