package ports

import (
	"gocrop/domain/core"
	"gocrop/domain/farm"
	"gocrop/domain/stats"
)

// CropAnalyzer computes statistics over a record set. Implementations must not
// retain records between calls.
type CropAnalyzer interface {
	Rank(records []farm.Record, features []farm.Feature) []stats.FeatureRankEntry
	Predict(records []farm.Record, features []core.FeatureKey, query map[core.FeatureKey]float64) (*stats.PredictionResult, error)
	Profile(ds *farm.Dataset, features []farm.Feature) stats.DatasetSummary
}
