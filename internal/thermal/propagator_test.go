package thermal_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

func cornerParams() thermal.Params {
	return thermal.Params{
		CubeSize:       4,
		Origin:         thermal.Coord{},
		AmbientTemp:    0,
		StartTemp:      275,
		EndTemp:        275,
		Increment:      1,
		Delay:          1,
		MaxIterations:  100,
		DeltaTolerance: 1e-9,
	}
}

func mustConductor(mat thermal.Material) *thermal.Conductor {
	cond, err := thermal.NewConductor(mat)
	Expect(err).NotTo(HaveOccurred())
	return cond
}

func mustPropagator(params thermal.Params, cond *thermal.Conductor) *thermal.Propagator {
	p, err := thermal.NewPropagator(params, cond)
	Expect(err).NotTo(HaveOccurred())
	return p
}

// zeroConduction disables heat transfer entirely, leaving only the
// origin injection schedule. Built directly to allow the k=0 case the
// constructor rejects.
func zeroConduction() *thermal.Conductor {
	return &thermal.Conductor{Material: thermal.Material{
		K: 0, Cp: 900, Rho: 2700,
		Area: 1, DeltaX: 1, ConductionTime: 1000, MinDelta: 1e-5,
	}}
}

var _ = Describe("Propagator", func() {
	Describe("construction", func() {
		It("accepts valid parameters", func() {
			_, err := thermal.NewPropagator(cornerParams(), mustConductor(aluminum))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a nil conductor", func() {
			_, err := thermal.NewPropagator(cornerParams(), nil)
			Expect(err).To(MatchError(thermal.ErrParameterBounds))
		})

		DescribeTable("rejects invalid parameters",
			func(mutate func(*thermal.Params), sentinel error) {
				params := cornerParams()
				mutate(&params)
				_, err := thermal.NewPropagator(params, mustConductor(aluminum))
				Expect(err).To(MatchError(sentinel))
			},
			Entry("zero cube size",
				func(p *thermal.Params) { p.CubeSize = 0 }, thermal.ErrParameterBounds),
			Entry("origin beyond the cube",
				func(p *thermal.Params) { p.Origin = thermal.Coord{X: 4} }, thermal.ErrOriginOutOfBounds),
			Entry("negative origin",
				func(p *thermal.Params) { p.Origin = thermal.Coord{Z: -1} }, thermal.ErrOriginOutOfBounds),
			Entry("end below start",
				func(p *thermal.Params) { p.EndTemp = 200 }, thermal.ErrParameterBounds),
			Entry("zero increment",
				func(p *thermal.Params) { p.Increment = 0 }, thermal.ErrParameterBounds),
			Entry("zero delay",
				func(p *thermal.Params) { p.Delay = 0 }, thermal.ErrParameterBounds),
			Entry("zero iteration budget",
				func(p *thermal.Params) { p.MaxIterations = 0 }, thermal.ErrParameterBounds),
			Entry("zero tolerance",
				func(p *thermal.Params) { p.DeltaTolerance = 0 }, thermal.ErrParameterBounds),
		)
	})

	Describe("initial state", func() {
		It("records the origin at start temperature and everything else at ambient", func() {
			params := cornerParams()
			params.AmbientTemp = 20
			params.MaxIterations = 1

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			initial := result.States[0]
			Expect(initial.At(thermal.Coord{})).To(Equal(275.0))
			count := 0
			for i := 0; i < initial.Len(); i++ {
				if initial.AtIndex(i) == 20 {
					count++
				}
			}
			Expect(count).To(Equal(initial.Len() - 1))
		})
	})

	Describe("one conduction step from a corner", func() {
		It("heats exactly the three interior neighbors", func() {
			params := cornerParams()
			params.MaxIterations = 1

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(2))

			after := result.States[1]
			perNeighbor := 226.0 * 275.0 * 1000.0 / (2700.0 * 900.0)

			for _, n := range []thermal.Coord{{X: 1}, {Y: 1}, {Z: 1}} {
				Expect(after.At(n)).To(BeNumerically("~", perNeighbor, 1e-9))
			}
			Expect(after.At(thermal.Coord{})).To(BeNumerically("~", 275-3*perNeighbor, 1e-9))

			// Cells not adjacent to the origin stay exactly at ambient.
			for _, far := range []thermal.Coord{
				{X: 1, Y: 1}, {X: 2}, {Y: 2}, {Z: 2}, {X: 3, Y: 3, Z: 3},
			} {
				Expect(after.At(far)).To(BeZero())
			}
		})
	})

	Describe("termination", func() {
		It("stops at the iteration budget with one state per step", func() {
			params := cornerParams()
			params.MaxIterations = 5

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Reason).To(Equal(thermal.MaxIterationsReached))
			Expect(result.Steps).To(Equal(5))
			Expect(result.States).To(HaveLen(6))
		})

		It("converges when consecutive fields are within tolerance", func() {
			params := cornerParams()
			params.DeltaTolerance = 1000 // wider than any single-step change

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Reason).To(Equal(thermal.Converged))
			Expect(result.Steps).To(Equal(1))
			Expect(result.States).To(HaveLen(2))
		})

		It("honors context cancellation between steps", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := mustPropagator(cornerParams(), mustConductor(aluminum)).Propagate(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.States).To(HaveLen(1))
		})
	})

	Describe("origin injection", func() {
		It("tops out one increment below the ceiling", func() {
			params := thermal.Params{
				CubeSize:       4,
				Origin:         thermal.Coord{},
				StartTemp:      275,
				EndTemp:        376,
				Increment:      1,
				Delay:          1,
				MaxIterations:  200,
				DeltaTolerance: 0.5,
			}

			result, err := mustPropagator(params, zeroConduction()).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			// 100 injections take the origin from 275 to exactly 375;
			// the increment that would reach 376 never fires, and the
			// first injection-free step converges.
			Expect(result.Reason).To(Equal(thermal.Converged))
			Expect(result.Steps).To(Equal(101))
			Expect(result.Final().At(thermal.Coord{})).To(Equal(375.0))

			for _, f := range result.States {
				Expect(f.At(thermal.Coord{})).To(BeNumerically("<=", 375))
			}
		})

		It("fires only on the delay cadence", func() {
			weak := mustConductor(thermal.Material{
				K: 1, Cp: 900, Rho: 2700,
				Area: 1, DeltaX: 1, ConductionTime: 1000, MinDelta: 1e-7,
			})
			params := thermal.Params{
				CubeSize:       3,
				Origin:         thermal.Coord{},
				StartTemp:      275,
				EndTemp:        1000,
				Increment:      10,
				Delay:          2,
				MaxIterations:  4,
				DeltaTolerance: 1e-9,
			}

			result, err := mustPropagator(params, weak).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(5))

			origin := make([]float64, 5)
			for i, f := range result.States {
				origin[i] = f.At(thermal.Coord{})
			}

			// Injection on steps 0 and 2 outweighs conduction loss;
			// steps 1 and 3 only lose heat to the neighbors.
			Expect(origin[1]).To(BeNumerically(">", origin[0]))
			Expect(origin[2]).To(BeNumerically("<", origin[1]))
			Expect(origin[3]).To(BeNumerically(">", origin[2]))
			Expect(origin[4]).To(BeNumerically("<", origin[3]))
		})
	})

	Describe("energy behavior", func() {
		It("conserves total temperature without injection", func() {
			params := thermal.Params{
				CubeSize:    4,
				Origin:      thermal.Coord{},
				AmbientTemp: 10,
				StartTemp:   350,
				EndTemp:     350,
				// An increment larger than any reachable headroom keeps
				// the injection from ever firing, even as the origin cools.
				Increment:      1e6,
				Delay:          1,
				MaxIterations:  30,
				DeltaTolerance: 1e-12,
			}

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			initial := result.States[0].Sum()
			for _, f := range result.States {
				Expect(f.Sum()).To(BeNumerically("~", initial, 1e-6))
			}
		})

		It("never exceeds the hottest injected temperature", func() {
			params := cornerParams()
			params.MaxIterations = 30

			result, err := mustPropagator(params, mustConductor(aluminum)).Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			for _, f := range result.States {
				Expect(f.Max()).To(BeNumerically("<=", 275))
			}
		})
	})

	Describe("numerical degeneracy", func() {
		It("surfaces non-finite fields instead of clamping them", func() {
			broken := &thermal.Conductor{Material: thermal.Material{
				K: 226, Cp: 900, Rho: 0, // zero mass
				Area: 1, DeltaX: 1, ConductionTime: 1000, MinDelta: 1e-5,
			}}

			result, err := mustPropagator(cornerParams(), broken).Propagate(context.Background())
			Expect(err).To(MatchError(thermal.ErrInvalidField))

			var stepErr *thermal.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(0))

			// The bad state is never recorded; history keeps its invariant.
			Expect(result.States).To(HaveLen(1))
			Expect(result.States[0].IsFinite()).To(BeTrue())
		})
	})

	Describe("repeated runs", func() {
		It("re-runs from the initial state with identical trajectories", func() {
			params := thermal.Params{
				CubeSize:       20, // large enough to engage the parallel path
				Origin:         thermal.Coord{X: 10, Y: 10, Z: 10},
				StartTemp:      500,
				EndTemp:        500,
				Increment:      1,
				Delay:          1,
				MaxIterations:  3,
				DeltaTolerance: 1e-12,
			}
			p := mustPropagator(params, mustConductor(aluminum))

			first, err := p.Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())
			second, err := p.Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(second.States).To(HaveLen(len(first.States)))
			a, b := first.Final(), second.Final()
			for i := 0; i < a.Len(); i++ {
				Expect(b.AtIndex(i)).To(Equal(a.AtIndex(i)))
			}
		})
	})

	Describe("observers and metrics", func() {
		It("notifies every recorded state and reports metric values", func() {
			params := cornerParams()
			params.MaxIterations = 3

			p := mustPropagator(params, mustConductor(aluminum))
			obs := &recordingObserver{}
			p.AddObserver(obs)
			p.AddMetric(&stateCounter{})

			result, err := p.Propagate(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(obs.steps).To(Equal([]int{0, 1, 2, 3}))
			Expect(result.Metrics).To(HaveKeyWithValue("states", 4.0))
		})
	})
})

type recordingObserver struct {
	steps []int
}

func (r *recordingObserver) OnStep(step int, f *thermal.Field) {
	r.steps = append(r.steps, step)
}

type stateCounter struct {
	count int
}

func (c *stateCounter) Name() string                        { return "states" }
func (c *stateCounter) Observe(step int, f *thermal.Field) { c.count++ }
func (c *stateCounter) Value() float64                      { return float64(c.count) }
func (c *stateCounter) Reset()                              { c.count = 0 }
