package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"gocrop/domain/core"
	"gocrop/domain/farm"
	domainStats "gocrop/domain/stats"
)

// FallbackConfidence is reported when nearest-centroid classification replaces
// the Bayesian posterior. It is a placeholder, not a calibrated probability.
const FallbackConfidence = 1.0

// classModel holds the Gaussian parameters of one class, recomputed per call
type classModel struct {
	label    core.ClassLabel
	prior    float64
	features []domainStats.GroupStats
}

func (m classModel) centroid() []float64 {
	means := make([]float64, len(m.features))
	for i, g := range m.features {
		means[i] = g.Mean
	}
	return means
}

// Predict trains a Gaussian Naive Bayes model over records for the selected
// features and classifies the query point.
//
// Every selected feature needs a finite query value. If all class posteriors
// vanish the class whose per-feature mean vector is closest to the query wins
// with FallbackConfidence. Ties go to the class seen first in records.
func Predict(records []farm.Record, features []core.FeatureKey, query map[core.FeatureKey]float64) (*domainStats.PredictionResult, error) {
	selected := orderedSet(features)
	if len(selected) == 0 {
		return nil, core.ErrNoFeatures
	}

	point := make([]float64, len(selected))
	for i, f := range selected {
		v, ok := query[f]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewMissingQueryValueError(f)
		}
		point[i] = v
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to train on", core.ErrInsufficientData)
	}

	models := train(records, selected)

	contributions := make(map[core.FeatureKey]float64, len(selected))
	for _, f := range selected {
		contributions[f] = 0
	}

	posteriors := make([]float64, len(models))
	total := 0.0
	for i, m := range models {
		posterior := 1.0
		for j, f := range selected {
			likelihood := GaussianDensity(point[j], m.features[j].Mean, m.features[j].Std)
			posterior *= likelihood
			contributions[f] += likelihood
		}
		posterior *= m.prior
		posteriors[i] = posterior
		total += posterior
	}

	k := float64(len(models))
	for f := range contributions {
		contributions[f] /= k
	}

	result := &domainStats.PredictionResult{
		Probabilities:          make(map[core.ClassLabel]float64, len(models)),
		Classes:                make([]core.ClassLabel, len(models)),
		FeaturesUsed:           selected,
		PerFeatureContribution: contributions,
	}
	for i, m := range models {
		result.Classes[i] = m.label
	}

	if total > 0 && !math.IsInf(total, 0) {
		normalize(result, models, posteriors, total)
	} else {
		nearestCentroid(result, models, point)
	}

	return result, nil
}

func train(records []farm.Record, features []core.FeatureKey) []classModel {
	partition := partitionByClass(records)
	n := float64(len(records))

	models := make([]classModel, 0, len(partition.classes))
	for _, class := range partition.classes {
		members := partition.members[class]
		m := classModel{
			label:    class,
			prior:    float64(len(members)) / n,
			features: make([]domainStats.GroupStats, len(features)),
		}
		for j, f := range features {
			m.features[j] = Summarize(column(members, f))
		}
		models = append(models, m)
	}
	return models
}

func normalize(result *domainStats.PredictionResult, models []classModel, posteriors []float64, total float64) {
	best := -1.0
	for i, m := range models {
		p := posteriors[i] / total
		result.Probabilities[m.label] = p
		if p > best {
			best = p
			result.PredictedClass = m.label
		}
	}
	result.Confidence = best
	result.Method = domainStats.MethodGaussianNaiveBayes
}

func nearestCentroid(result *domainStats.PredictionResult, models []classModel, point []float64) {
	minDistance := math.Inf(1)
	for _, m := range models {
		result.Probabilities[m.label] = 0
		d := floats.Distance(m.centroid(), point, 2)
		if d < minDistance {
			minDistance = d
			result.PredictedClass = m.label
		}
	}
	// An overflowing distance never compares below +Inf; the first class wins then.
	if result.PredictedClass == "" && len(models) > 0 {
		result.PredictedClass = models[0].label
	}
	result.Probabilities[result.PredictedClass] = 1
	result.Confidence = FallbackConfidence
	result.Fallback = true
	result.Method = domainStats.MethodNearestCentroid
}
