package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

const (
	plotHeight = 12
	plotWidth  = 80
)

// PlotDistribution draws |ψ|² against site index.
func PlotDistribution(dist []float64, t float64) string {
	if len(dist) == 0 {
		return ""
	}
	return asciigraph.Plot(dist,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.Caption(fmt.Sprintf("|psi|^2 at t=%.3f", t)),
	)
}
