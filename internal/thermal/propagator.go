package thermal

import (
	"context"
	"fmt"
)

// minParallelCells is the field size below which per-step delta
// computation stays on a single goroutine.
const minParallelCells = 4096

// Reason records why a propagation run terminated. Both values are
// defined terminal states, not errors.
type Reason int

const (
	// Converged means consecutive fields stopped changing beyond the
	// configured tolerance.
	Converged Reason = iota
	// MaxIterationsReached means the iteration budget was exhausted
	// before convergence.
	MaxIterationsReached
)

func (r Reason) String() string {
	switch r {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations"
	default:
		return "unknown"
	}
}

// Params configures one propagation run. Immutable after construction.
type Params struct {
	CubeSize       int
	Origin         Coord
	AmbientTemp    float64 // temperature of every non-origin cell at step 0
	StartTemp      float64 // origin temperature at step 0
	EndTemp        float64 // origin injection ceiling
	Increment      float64 // temperature added to the origin per injection
	Delay          int     // steps between injections
	MaxIterations  int
	DeltaTolerance float64 // isclose atol for the convergence check
}

// Validate rejects parameter combinations the step loop cannot run on.
func (p Params) Validate() error {
	if p.CubeSize < 1 {
		return fmt.Errorf("%w: cube_size must be positive, got %d", ErrParameterBounds, p.CubeSize)
	}
	bound := p.CubeSize
	if p.Origin.X < 0 || p.Origin.X >= bound ||
		p.Origin.Y < 0 || p.Origin.Y >= bound ||
		p.Origin.Z < 0 || p.Origin.Z >= bound {
		return fmt.Errorf("%w: origin (%d,%d,%d) not in [0,%d)", ErrOriginOutOfBounds,
			p.Origin.X, p.Origin.Y, p.Origin.Z, bound)
	}
	if p.EndTemp < p.StartTemp {
		return fmt.Errorf("%w: end_temp %v below start_temp %v", ErrParameterBounds, p.EndTemp, p.StartTemp)
	}
	if p.Increment <= 0 {
		return fmt.Errorf("%w: increment must be positive, got %v", ErrParameterBounds, p.Increment)
	}
	if p.Delay < 1 {
		return fmt.Errorf("%w: delay must be positive, got %d", ErrParameterBounds, p.Delay)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrParameterBounds, p.MaxIterations)
	}
	if p.DeltaTolerance <= 0 {
		return fmt.Errorf("%w: delta_tolerance must be positive, got %v", ErrParameterBounds, p.DeltaTolerance)
	}
	return nil
}

// Result holds the full trajectory of a run. States[0] is the initial
// field; one state follows per completed step.
type Result struct {
	States  []*Field
	Steps   int
	Reason  Reason
	Metrics map[string]float64
}

// Final returns the last recorded field.
func (r *Result) Final() *Field {
	return r.States[len(r.States)-1]
}

// Metric observes each recorded field and reduces the run to a single
// value, e.g. peak temperature or uniformity.
type Metric interface {
	Name() string
	Observe(step int, f *Field)
	Value() float64
	Reset()
}

// Observer is notified after every recorded state, the initial field
// included.
type Observer interface {
	OnStep(step int, f *Field)
}

// Propagator owns and evolves the temperature field over discrete steps
// until thermal quasi-equilibrium or the iteration budget is reached.
type Propagator struct {
	params    Params
	conductor *Conductor
	metrics   []Metric
	observers []Observer
}

// NewPropagator validates params and returns a propagator using the
// given conduction model.
func NewPropagator(params Params, conductor *Conductor) (*Propagator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if conductor == nil {
		return nil, fmt.Errorf("%w: nil conductor", ErrParameterBounds)
	}
	return &Propagator{
		params:    params,
		conductor: conductor,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (p *Propagator) AddMetric(m Metric)     { p.metrics = append(p.metrics, m) }
func (p *Propagator) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// Params returns the run configuration.
func (p *Propagator) Params() Params { return p.params }

// Propagate runs the step loop from a fresh initial field and returns
// the recorded history. A second call re-runs from the initial state.
//
// Each step injects heat at the origin on the configured cadence,
// computes every cell's conductive delta from a single snapshot of the
// field, applies the deltas together, and appends the new state. The
// loop ends when consecutive states are within the tolerance of each
// other (Converged) or the iteration budget runs out
// (MaxIterationsReached). Context cancellation is honored between
// steps; the partial history is returned alongside ctx.Err().
func (p *Propagator) Propagate(ctx context.Context) (*Result, error) {
	field := NewField(p.params.CubeSize, p.params.AmbientTemp)
	field.Set(p.params.Origin, p.params.StartTemp)

	result := &Result{
		States:  make([]*Field, 0, p.params.MaxIterations+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range p.metrics {
		m.Reset()
	}

	result.States = append(result.States, field)
	p.notify(0, field)

	deltas := make([]float64, field.Len())

	for step := 0; step < p.params.MaxIterations; step++ {
		select {
		case <-ctx.Done():
			p.finish(result)
			return result, ctx.Err()
		default:
		}

		prev := result.States[len(result.States)-1]

		// Inject at the origin on the delay cadence, only while the
		// next increment keeps the origin strictly below the ceiling.
		snapshot := prev
		if step%p.params.Delay == 0 {
			if t := prev.At(p.params.Origin); t+p.params.Increment < p.params.EndTemp {
				snapshot = prev.Clone()
				snapshot.Set(p.params.Origin, t+p.params.Increment)
			}
		}

		p.accumulate(snapshot, deltas)

		next := snapshot.Clone()
		for i := range deltas {
			next.cells[i] += deltas[i]
		}

		if !next.IsFinite() {
			p.finish(result)
			return result, &StepError{Step: step, Wrapped: ErrInvalidField}
		}

		result.States = append(result.States, next)
		result.Steps++
		p.notify(result.Steps, next)

		if next.CloseTo(prev, p.params.DeltaTolerance, 0) {
			result.Reason = Converged
			p.finish(result)
			return result, nil
		}
	}

	result.Reason = MaxIterationsReached
	p.finish(result)
	return result, nil
}

// accumulate fills deltas with each cell's summed conductive exchange
// against its in-bounds axis neighbors, reading only from the snapshot.
// Every cell writes its own slot, so the work parallelizes cleanly; the
// ParallelFor barrier separates delta computation from the apply phase.
func (p *Propagator) accumulate(snapshot *Field, deltas []float64) {
	ParallelFor(len(deltas), minParallelCells, func(start, end int) {
		for i := start; i < end; i++ {
			c := snapshot.coordAt(i)
			t := snapshot.cells[i]
			sum := 0.0
			for _, d := range directions {
				n := Coord{c.X + d.X, c.Y + d.Y, c.Z + d.Z}
				if !snapshot.Contains(n) {
					continue
				}
				sum += p.conductor.TemperatureChange(t, snapshot.At(n))
			}
			deltas[i] = sum
		}
	})
}

func (p *Propagator) notify(step int, f *Field) {
	for _, m := range p.metrics {
		m.Observe(step, f)
	}
	for _, o := range p.observers {
		o.OnStep(step, f)
	}
}

func (p *Propagator) finish(result *Result) {
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
