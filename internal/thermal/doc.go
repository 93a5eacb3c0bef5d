// Package thermal implements the heat diffusion core: a discrete-step
// propagation engine over a 3D temperature field together with a
// per-cell-pair conduction model based on Fourier's law.
//
// The package defines the fundamental types for a simulation run:
//
//   - [Field]: fixed-size cube of cell temperatures (Kelvin)
//   - [Conductor]: pure conduction model for one pair of adjacent cells
//   - [Propagator]: owns the field, drives the step loop, records history
//   - [Result]: full step-by-step history plus termination reason
//
// # Example
//
//	cond, _ := thermal.NewConductor(thermal.Material{K: 237, Cp: 900, Rho: 2700, Area: 1, DeltaX: 1, ConductionTime: 1, MinDelta: 1e-5})
//	prop, _ := thermal.NewPropagator(params, cond)
//	result, _ := prop.Propagate(ctx)
//
// # Thread Safety
//
// Propagator instances are NOT thread-safe. Each run exclusively owns
// its field and history; to run many simulations concurrently use the
// [Ensemble] type.
package thermal
