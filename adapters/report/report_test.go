package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gocrop/domain/core"
	"gocrop/domain/stats"
)

func sampleReport() Report {
	return Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary: stats.DatasetSummary{
			Source:       "embedded:farm_sensors.csv",
			Fingerprint:  core.NewDatasetHash([]byte("x")),
			TotalRecords: 4,
			CropCount:    2,
			CropDistribution: []stats.CropShare{
				{Crop: "Rice", Count: 3, Percentage: 75},
				{Crop: "Wheat", Count: 1, Percentage: 25},
			},
			Features: []stats.FeatureProfile{{Feature: "ph", Count: 4, Min: 5, Max: 7, Mean: 6, Median: 6, Std: 0.7, IQR: 1}},
		},
		Ranking: []stats.FeatureRankEntry{{Feature: "rainfall", FScore: 12.5, Accuracy: 0.657, Correlation: 1, Importance: 0.905}},
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := string(Markdown(sampleReport()))

	assert.True(t, strings.HasPrefix(md, "# Crop Dataset Report"))
	assert.Contains(t, md, "- Records: 4")
	assert.Contains(t, md, "| Rice | 3 | 75.0% |")
	assert.Contains(t, md, "## Feature profiles")
	assert.Contains(t, md, "| rainfall | 12.5000 |")
	assert.Contains(t, md, "2026-03-01T12:00:00Z")
	assert.NotContains(t, md, "## Prediction")
}

func TestMarkdown_Prediction(t *testing.T) {
	r := sampleReport()
	r.Prediction = &stats.PredictionResult{
		PredictedClass: "Rice",
		Confidence:     0.8,
		Classes:        []core.ClassLabel{"Rice", "Wheat"},
		Probabilities:  map[core.ClassLabel]float64{"Rice": 0.8, "Wheat": 0.2},
		FeaturesUsed:   []core.FeatureKey{"ph"},
		Method:         stats.MethodGaussianNaiveBayes,
	}
	r.Query = map[core.FeatureKey]float64{"ph": 6.5}

	md := string(Markdown(r))
	assert.Contains(t, md, "Query: ph=6.5")
	assert.Contains(t, md, "**Rice** with confidence 80.0%")
	assert.Contains(t, md, "| Wheat | 0.2000 |")
}

func TestMarkdown_FallbackPrediction(t *testing.T) {
	r := sampleReport()
	r.Prediction = &stats.PredictionResult{
		PredictedClass: "Wheat",
		Confidence:     1,
		Classes:        []core.ClassLabel{"Rice", "Wheat"},
		Fallback:       true,
		Method:         stats.MethodNearestCentroid,
	}

	md := string(Markdown(r))
	assert.Contains(t, md, "nearest centroid")
	assert.NotContains(t, md, "| Crop | Probability |")
}

func TestHTML_RendersTablesInPage(t *testing.T) {
	out := string(HTML(sampleReport()))

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "<title>Crop Dataset Report</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Rice</td>")
}
