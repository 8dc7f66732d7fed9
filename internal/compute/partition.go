package compute

import (
	"fmt"

	"github.com/san-kum/tbsim/internal/wave"
)

// Block is the half-open row range [Start, End) owned by one worker.
type Block struct {
	Start, End int
}

func (b Block) Len() int { return b.End - b.Start }

func (b Block) validate(n int) error {
	if b.Start < 0 || b.End > n || b.Start >= b.End {
		return fmt.Errorf("%w: rows [%d, %d) outside [0, %d)", wave.ErrInvalidPartition, b.Start, b.End, n)
	}
	return nil
}

// Partition splits [0, n) into workers contiguous blocks of n/workers rows.
// The last block absorbs the remainder.
func Partition(n, workers int) ([]Block, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d rows", wave.ErrInvalidDimension, n)
	}
	if workers <= 0 || workers > n {
		return nil, fmt.Errorf("%w: %d workers for %d rows", wave.ErrInvalidPartition, workers, n)
	}

	step := n / workers
	blocks := make([]Block, workers)
	for k := 0; k < workers; k++ {
		end := (k + 1) * step
		if k == workers-1 {
			end = n
		}
		blocks[k] = Block{Start: k * step, End: end}
	}
	return blocks, nil
}
