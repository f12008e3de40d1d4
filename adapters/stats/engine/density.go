package engine

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianDensity evaluates the normal PDF at x.
//
// A zero std means the group only ever saw one value: an exact match scores 1
// and anything else scores 0.
func GaussianDensity(x, mean, std float64) float64 {
	if std == 0 {
		if x == mean {
			return 1
		}
		return 0
	}
	return distuv.Normal{Mu: mean, Sigma: std}.Prob(x)
}
