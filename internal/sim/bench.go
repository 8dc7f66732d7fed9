package sim

import (
	"context"
	"time"

	"github.com/san-kum/tbsim/internal/integrators"
)

type BenchResult struct {
	Workers int
	Steps   int
	Elapsed time.Duration
}

// Benchmark runs the full evolution once per worker count. Runs are
// sequential so each timing has the machine to itself.
func Benchmark(ctx context.Context, hopping, onsite, times []float64, workers []int) ([]BenchResult, error) {
	results := make([]BenchResult, 0, len(workers))
	for _, w := range workers {
		cfg := DefaultConfig()
		cfg.Workers = w
		s := New(cfg, integrators.NewRK4())

		start := time.Now()
		res, err := s.Run(ctx, hopping, onsite, times)
		if err != nil {
			return nil, err
		}
		results = append(results, BenchResult{
			Workers: w,
			Steps:   res.StepsTaken,
			Elapsed: time.Since(start),
		})
	}
	return results, nil
}
