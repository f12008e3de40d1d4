package stats

import (
	"gocrop/domain/core"
)

// GroupStats summarizes one numeric sequence. Std is the population standard
// deviation; Std == 0 marks a degenerate single-valued group.
type GroupStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// FeatureRankEntry scores how well one feature separates crop classes.
// Accuracy, Correlation and Importance are heuristic estimates derived from
// FScore for display; they are not measured quantities.
type FeatureRankEntry struct {
	Feature     core.FeatureKey `json:"feature"`
	FScore      float64         `json:"f_score"`
	Accuracy    float64         `json:"accuracy_estimate"`
	Correlation float64         `json:"correlation_estimate"`
	Importance  float64         `json:"importance_estimate"`
	Description string          `json:"description"`
}

// Prediction methods
const (
	MethodGaussianNaiveBayes = "gaussian_naive_bayes"
	MethodNearestCentroid    = "nearest_centroid"
)

// PredictionResult is the outcome of one classification call.
//
// When Fallback is set every likelihood underflowed and the class was chosen by
// nearest centroid; Confidence is then an artificial 1.0, not a statistical estimate.
type PredictionResult struct {
	PredictedClass         core.ClassLabel             `json:"predicted_class"`
	Confidence             float64                     `json:"confidence"`
	Probabilities          map[core.ClassLabel]float64 `json:"probabilities"`
	Classes                []core.ClassLabel           `json:"classes"`
	FeaturesUsed           []core.FeatureKey           `json:"features_used"`
	PerFeatureContribution map[core.FeatureKey]float64 `json:"per_feature_contribution"`
	Fallback               bool                        `json:"fallback"`
	Method                 string                      `json:"method"`
}

// FeatureProfile describes the distribution of one feature over the whole dataset
type FeatureProfile struct {
	Feature core.FeatureKey `json:"feature"`
	Count   int             `json:"count"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
	Mean    float64         `json:"mean"`
	Median  float64         `json:"median"`
	Std     float64         `json:"std"`
	IQR     float64         `json:"iqr"`
}

// CropShare is one slice of the crop distribution
type CropShare struct {
	Crop       core.ClassLabel `json:"crop"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// CropAverages holds the per-feature means of one crop
type CropAverages struct {
	Crop  core.ClassLabel             `json:"crop"`
	Count int                         `json:"count"`
	Means map[core.FeatureKey]float64 `json:"means"`
}

// DatasetSummary is the descriptive overview of a dataset
type DatasetSummary struct {
	DatasetID        core.DatasetID   `json:"dataset_id"`
	Source           string           `json:"source"`
	Fingerprint      core.DatasetHash `json:"fingerprint"`
	TotalRecords     int              `json:"total_records"`
	CropCount        int              `json:"crop_count"`
	CropDistribution []CropShare      `json:"crop_distribution"`
	CropAverages     []CropAverages   `json:"crop_averages"`
	Features         []FeatureProfile `json:"features"`
}
