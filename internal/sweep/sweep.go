// Package sweep runs families of simulations over a grid of material
// parameter values and ranks them by how quickly they equilibrate.
package sweep

import (
	"context"
	"fmt"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// Point is the outcome of one swept run.
type Point struct {
	Value   float64
	Steps   int
	Reason  thermal.Reason
	Metrics map[string]float64
}

// Sweep varies one conductor parameter across a value grid while
// keeping the propagation parameters fixed. Runs execute concurrently;
// each owns its propagator.
type Sweep struct {
	params    thermal.Params
	mat       thermal.Material
	parameter string
	values    []float64
}

// New validates the swept parameter name and value grid.
func New(params thermal.Params, mat thermal.Material, parameter string, values []float64) (*Sweep, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sweep grid", thermal.ErrParameterBounds)
	}
	switch parameter {
	case "k", "c_p", "rho", "a", "delta_x", "conduction_time":
	default:
		return nil, fmt.Errorf("%w: unknown sweep parameter %q", thermal.ErrParameterBounds, parameter)
	}
	return &Sweep{params: params, mat: mat, parameter: parameter, values: values}, nil
}

func (s *Sweep) material(value float64) thermal.Material {
	mat := s.mat
	switch s.parameter {
	case "k":
		mat.K = value
	case "c_p":
		mat.Cp = value
	case "rho":
		mat.Rho = value
	case "a":
		mat.Area = value
	case "delta_x":
		mat.DeltaX = value
	case "conduction_time":
		mat.ConductionTime = value
	}
	return mat
}

// Run executes every grid point and returns outcomes in grid order.
func (s *Sweep) Run(ctx context.Context) ([]Point, error) {
	ensemble := thermal.NewEnsemble(len(s.values), func(idx int) (*thermal.Propagator, error) {
		cond, err := thermal.NewConductor(s.material(s.values[idx]))
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", s.parameter, s.values[idx], err)
		}
		return thermal.NewPropagator(s.params, cond)
	})

	results, err := ensemble.Run(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(results))
	for i, r := range results {
		points[i] = Point{
			Value:   s.values[i],
			Steps:   r.Steps,
			Reason:  r.Reason,
			Metrics: r.Metrics,
		}
	}
	return points, nil
}

// Best returns the converged point with the fewest steps, or nil when
// no run converged.
func Best(points []Point) *Point {
	var best *Point
	for i := range points {
		p := &points[i]
		if p.Reason != thermal.Converged {
			continue
		}
		if best == nil || p.Steps < best.Steps {
			best = p
		}
	}
	return best
}

// Grid builds an evenly spaced value grid from lo to hi inclusive.
func Grid(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	values := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range values {
		values[i] = lo + float64(i)*step
	}
	return values
}
