// Package integrators advances a wavefunction by one fixed time step.
package integrators

import (
	"context"
	"fmt"

	"github.com/san-kum/tbsim/internal/wave"
)

// RK4 is the classical fourth-order Runge-Kutta stepper. It holds no state
// and may be shared by concurrent runs.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step returns ψ + dt/6·(k1 + 2k2 + 2k3 + k4). Each stage is a full call to
// op; the first failing stage aborts the step.
func (r *RK4) Step(ctx context.Context, op wave.Operator, x wave.State, dt float64) (wave.State, error) {
	n := len(x)
	if n != op.Dim() {
		return nil, fmt.Errorf("%w: state has %d sites, operator %d", wave.ErrInvalidDimension, n, op.Dim())
	}

	half := complex(dt*0.5, 0)
	full := complex(dt, 0)

	k1, err := op.Apply(ctx, x)
	if err != nil {
		return nil, err
	}
	k2, err := op.Apply(ctx, x.AddScaled(half, k1))
	if err != nil {
		return nil, err
	}
	k3, err := op.Apply(ctx, x.AddScaled(half, k2))
	if err != nil {
		return nil, err
	}
	k4, err := op.Apply(ctx, x.AddScaled(full, k3))
	if err != nil {
		return nil, err
	}

	result := make(wave.State, n)
	dt6 := complex(dt/6.0, 0)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result, nil
}
