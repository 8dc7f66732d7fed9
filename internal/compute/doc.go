// Package compute applies the Schrödinger right-hand side f(ψ) = -i·H·ψ
// with the rows of H split across a bounded pool of goroutines.
//
// Rows are divided into contiguous blocks by [Partition]. Each block is
// multiplied against the full state by its own worker and written into a
// disjoint, pre-assigned range of the output, so the result never depends
// on which worker finishes first:
//
//	op, err := compute.NewApplicator(h, 4)
//	dpsi, err := op.Apply(ctx, psi)
//
// A single worker runs the product inline without spawning goroutines.
package compute
