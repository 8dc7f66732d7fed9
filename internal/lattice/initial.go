package lattice

import "github.com/san-kum/tbsim/internal/wave"

// Localized returns the state fully localized on the central site n/2.
func Localized(n int) wave.State {
	if n < 1 {
		return wave.State{}
	}
	re := make([]float64, n)
	re[n/2] = 1
	return wave.FromReal(re)
}
