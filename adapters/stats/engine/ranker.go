package engine

import (
	"math"

	"gocrop/domain/farm"
	domainStats "gocrop/domain/stats"
)

// Heuristic scaling constants for the display estimates derived from the F-score
const (
	correlationScale  = 10.0
	accuracyBase      = 0.4
	accuracyCap       = 0.98
	accuracyScale     = 10.0
	importanceScale   = 10.0
	fScoreWeight      = 0.7
	correlationWeight = 0.3
)

// RankFeatures scores each feature by its weighted between-class over
// within-class variance ratio. Entries come back in the order of features;
// sorting for display is left to the caller.
func RankFeatures(records []farm.Record, features []farm.Feature) []domainStats.FeatureRankEntry {
	partition := partitionByClass(records)
	entries := make([]domainStats.FeatureRankEntry, 0, len(features))

	for _, feature := range features {
		fScore := varianceRatio(records, partition, feature)
		correlation := math.Min(1, fScore/correlationScale)

		entries = append(entries, domainStats.FeatureRankEntry{
			Feature:     feature.Key,
			FScore:      fScore,
			Accuracy:    math.Min(accuracyCap, accuracyBase+math.Log(fScore+1)/accuracyScale),
			Correlation: correlation,
			Importance:  (fScore*fScoreWeight + correlation*correlationWeight) / importanceScale,
			Description: feature.Description,
		})
	}

	return entries
}

// varianceRatio computes Σ n·(mean_c − globalMean)² / Σ n·std_c² for one feature.
// A zero within-class term yields 0.
func varianceRatio(records []farm.Record, partition classPartition, feature farm.Feature) float64 {
	globalMean := Summarize(column(records, feature.Key)).Mean

	var between, within float64
	for _, class := range partition.classes {
		values := column(partition.members[class], feature.Key)
		if len(values) == 0 {
			continue
		}
		group := Summarize(values)
		n := float64(len(values))
		between += n * math.Pow(group.Mean-globalMean, 2)
		within += n * math.Pow(group.Std, 2)
	}

	if within == 0 {
		return 0
	}
	return between / within
}
