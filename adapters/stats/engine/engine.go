package engine

import (
	"gocrop/domain/core"
	"gocrop/domain/farm"
	domainStats "gocrop/domain/stats"
)

// StatsEngine exposes the ranking, classification and profiling functions
// behind ports.CropAnalyzer. It holds no dataset state.
type StatsEngine struct{}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine() *StatsEngine {
	return &StatsEngine{}
}

// Rank scores every feature against the crop labels of records
func (e *StatsEngine) Rank(records []farm.Record, features []farm.Feature) []domainStats.FeatureRankEntry {
	return RankFeatures(records, features)
}

// Predict classifies query against a model trained on records
func (e *StatsEngine) Predict(records []farm.Record, features []core.FeatureKey, query map[core.FeatureKey]float64) (*domainStats.PredictionResult, error) {
	return Predict(records, features, query)
}

// Profile summarizes the dataset over the given features
func (e *StatsEngine) Profile(ds *farm.Dataset, features []farm.Feature) domainStats.DatasetSummary {
	return ProfileDataset(ds, features)
}
