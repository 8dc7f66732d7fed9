// Package wave provides the core primitives for evolving a single-particle
// wavefunction on a tight-binding lattice.
//
// The package defines the shared types used by every other stage of a run:
//
//   - [State]: complex amplitude vector, one entry per lattice site
//   - [Operator]: linear right-hand side dψ/dt = f(ψ)
//   - [Integrator]: fixed-step time stepper
//   - [Observer]: per-step hook for progress reporting
//
// # Example
//
//	h, _ := lattice.NewHamiltonian(hopping, onsite)
//	op, _ := compute.NewApplicator(h, 4)
//	next, _ := integrators.NewRK4().Step(ctx, op, psi, dt)
//
// # Thread Safety
//
// State values are plain slices. A State passed to an Operator is read
// concurrently by its workers and must not be mutated until Apply returns.
package wave
