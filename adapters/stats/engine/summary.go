package engine

import (
	"github.com/montanaflynn/stats"

	domainStats "gocrop/domain/stats"
)

// Summarize returns the arithmetic mean and population standard deviation of
// values. An empty sequence yields {0, 0}; a single-valued one yields that
// value with a std of exactly 0.
func Summarize(values []float64) domainStats.GroupStats {
	if len(values) == 0 {
		return domainStats.GroupStats{}
	}

	// Summation drifts for values like 0.1, so constant input is not left to it.
	lo, errMin := stats.Min(values)
	hi, errMax := stats.Max(values)
	if errMin == nil && errMax == nil && lo == hi {
		return domainStats.GroupStats{Mean: values[0]}
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return domainStats.GroupStats{}
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return domainStats.GroupStats{Mean: mean}
	}

	return domainStats.GroupStats{Mean: mean, Std: std}
}
