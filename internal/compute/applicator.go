package compute

import (
	"context"
	"fmt"

	"github.com/san-kum/tbsim/internal/wave"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Applicator computes -i·H·ψ for a fixed Hamiltonian. H is shared read-only
// by every call and every worker.
type Applicator struct {
	h       *mat.Dense
	n       int
	workers int
	blocks  []Block
}

func NewApplicator(h *mat.Dense, workers int) (*Applicator, error) {
	r, c := h.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: hamiltonian is %dx%d", wave.ErrInvalidDimension, r, c)
	}
	blocks, err := Partition(r, workers)
	if err != nil {
		return nil, err
	}
	return &Applicator{h: h, n: r, workers: workers, blocks: blocks}, nil
}

func (a *Applicator) Dim() int { return a.n }

// Apply returns -i·H·ψ. It blocks until every row block is done; if any
// block fails no result is returned.
func (a *Applicator) Apply(ctx context.Context, psi wave.State) (wave.State, error) {
	if len(psi) != a.n {
		return nil, fmt.Errorf("%w: state has %d sites, operator %d", wave.ErrInvalidDimension, len(psi), a.n)
	}

	re, im := psi.Split()
	x := rowInput{re: mat.NewVecDense(a.n, re), im: mat.NewVecDense(a.n, im)}
	outRe := make([]float64, a.n)
	outIm := make([]float64, a.n)

	if a.workers == 1 {
		if err := a.applyBlock(a.blocks[0], x, outRe, outIm); err != nil {
			return nil, err
		}
		return combine(outRe, outIm), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, b := range a.blocks {
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return a.applyBlock(b, x, outRe, outIm)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return combine(outRe, outIm), nil
}

type rowInput struct {
	re, im *mat.VecDense
}

// applyBlock writes rows [b.Start, b.End) of -i·H·ψ. With ψ = x + iy,
// -i·H·ψ = H·y - i·H·x.
func (a *Applicator) applyBlock(b Block, x rowInput, outRe, outIm []float64) error {
	if err := b.validate(a.n); err != nil {
		return err
	}
	rows := a.h.Slice(b.Start, b.End, 0, a.n)

	mat.NewVecDense(b.Len(), outRe[b.Start:b.End]).MulVec(rows, x.im)
	mat.NewVecDense(b.Len(), outIm[b.Start:b.End]).MulVec(rows, x.re)
	return nil
}

func combine(re, negIm []float64) wave.State {
	out := make(wave.State, len(re))
	for i := range out {
		out[i] = complex(re[i], -negIm[i])
	}
	return out
}
