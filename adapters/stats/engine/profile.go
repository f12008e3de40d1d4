package engine

import (
	"sort"

	"github.com/montanaflynn/stats"

	"gocrop/domain/core"
	"gocrop/domain/farm"
	domainStats "gocrop/domain/stats"
)

// ProfileDataset builds the descriptive overview shown alongside the ranking:
// crop distribution, per-crop means and per-feature spread.
func ProfileDataset(ds *farm.Dataset, features []farm.Feature) domainStats.DatasetSummary {
	keys := make([]core.FeatureKey, len(features))
	for i, f := range features {
		keys[i] = f.Key
	}

	summary := domainStats.DatasetSummary{
		TotalRecords: ds.Len(),
	}
	if ds == nil {
		return summary
	}
	summary.DatasetID = ds.ID
	summary.Source = ds.Source
	summary.Fingerprint = ds.Fingerprint(keys)

	partition := partitionByClass(ds.Records)
	summary.CropCount = len(partition.classes)

	for _, class := range partition.classes {
		members := partition.members[class]
		share := domainStats.CropShare{
			Crop:       class,
			Count:      len(members),
			Percentage: float64(len(members)) / float64(len(ds.Records)) * 100,
		}
		summary.CropDistribution = append(summary.CropDistribution, share)

		averages := domainStats.CropAverages{
			Crop:  class,
			Count: len(members),
			Means: make(map[core.FeatureKey]float64, len(keys)),
		}
		for _, k := range keys {
			averages.Means[k] = Summarize(column(members, k)).Mean
		}
		summary.CropAverages = append(summary.CropAverages, averages)
	}

	// Most common crop first; equal counts keep first-seen order.
	sort.SliceStable(summary.CropDistribution, func(i, j int) bool {
		return summary.CropDistribution[i].Count > summary.CropDistribution[j].Count
	})

	for _, k := range keys {
		summary.Features = append(summary.Features, profileFeature(k, column(ds.Records, k)))
	}

	return summary
}

func profileFeature(key core.FeatureKey, values []float64) domainStats.FeatureProfile {
	profile := domainStats.FeatureProfile{Feature: key, Count: len(values)}
	if len(values) == 0 {
		return profile
	}

	g := Summarize(values)
	profile.Mean = g.Mean
	profile.Std = g.Std
	profile.Min, _ = stats.Min(values)
	profile.Max, _ = stats.Max(values)
	profile.Median, _ = stats.Median(values)

	q25, err := stats.PercentileNearestRank(values, 25)
	if err != nil {
		return profile
	}
	q75, err := stats.PercentileNearestRank(values, 75)
	if err != nil {
		return profile
	}
	profile.IQR = q75 - q25

	return profile
}

// RecommendFeatures orders entries by F-score, best first, and keeps the top n.
// n <= 0 keeps all of them. The input slice is left untouched.
func RecommendFeatures(entries []domainStats.FeatureRankEntry, n int) []domainStats.FeatureRankEntry {
	sorted := make([]domainStats.FeatureRankEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FScore > sorted[j].FScore
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
