package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrop/domain/core"
	"gocrop/domain/farm"
	"gocrop/internal/testkit"
)

var featureX = farm.Feature{Key: "x", Name: "X", Description: "Synthetic reading."}

func TestRankFeatures_HandCalculated(t *testing.T) {
	// A = {1, 3}: mean 2, std 1. B = {5, 7}: mean 6, std 1. Global mean 4.
	// between = 2·4 + 2·4 = 16, within = 2·1 + 2·1 = 4, F = 4.
	records := testkit.Concat(
		testkit.Records("A", "x", 1, 3),
		testkit.Records("B", "x", 5, 7),
	)

	entries := RankFeatures(records, []farm.Feature{featureX})
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, core.FeatureKey("x"), e.Feature)
	assert.InDelta(t, 4.0, e.FScore, 1e-12)
	assert.InDelta(t, 0.4, e.Correlation, 1e-12)
	assert.InDelta(t, 0.4+math.Log(5)/10, e.Accuracy, 1e-12)
	assert.InDelta(t, (4*0.7+0.4*0.3)/10, e.Importance, 1e-12)
	assert.Equal(t, "Synthetic reading.", e.Description)
}

func TestRankFeatures_ConstantFeatureScoresZero(t *testing.T) {
	records := testkit.Concat(
		testkit.Records("A", "x", 2, 2, 2),
		testkit.Records("B", "x", 2, 2),
	)

	e := RankFeatures(records, []farm.Feature{featureX})[0]
	assert.Equal(t, 0.0, e.FScore)
	assert.False(t, math.IsNaN(e.FScore))
	assert.Equal(t, 0.0, e.Correlation)
	assert.InDelta(t, 0.4, e.Accuracy, 1e-12)
	assert.Equal(t, 0.0, e.Importance)
}

func TestRankFeatures_ZeroWithinVarianceScoresZero(t *testing.T) {
	// Perfectly separated single-valued groups have no within-class spread.
	e := RankFeatures(testkit.DegenerateTwoClass("x"), []farm.Feature{featureX})[0]
	assert.Equal(t, 0.0, e.FScore)
	assert.False(t, math.IsInf(e.FScore, 0))
}

func TestRankFeatures_CapsHeuristics(t *testing.T) {
	records := testkit.Concat(
		testkit.Records("A", "x", 1.0, 1.1),
		testkit.Records("B", "x", 10.0, 10.1),
	)

	e := RankFeatures(records, []farm.Feature{featureX})[0]
	assert.Greater(t, e.FScore, 1000.0)
	assert.Equal(t, 1.0, e.Correlation)
	assert.Equal(t, 0.98, e.Accuracy)
}

func TestRankFeatures_EmptyDataset(t *testing.T) {
	features := farm.DefaultCatalog().Features()
	entries := RankFeatures(nil, features)

	require.Len(t, entries, len(features))
	for i, e := range entries {
		assert.Equal(t, features[i].Key, e.Feature)
		assert.Equal(t, 0.0, e.FScore)
	}
}

func TestRankFeatures_PreservesFeatureOrder(t *testing.T) {
	ds, err := testkit.SyntheticDataset(90, 7)
	require.NoError(t, err)

	features := farm.DefaultCatalog().Features()
	reversed := make([]farm.Feature, len(features))
	for i, f := range features {
		reversed[len(features)-1-i] = f
	}

	entries := RankFeatures(ds.Records, reversed)
	require.Len(t, entries, len(reversed))
	for i, e := range entries {
		assert.Equal(t, reversed[i].Key, e.Feature)
		assert.GreaterOrEqual(t, e.FScore, 0.0)
		assert.GreaterOrEqual(t, e.Accuracy, 0.0)
		assert.LessOrEqual(t, e.Accuracy, 0.98)
		assert.GreaterOrEqual(t, e.Correlation, 0.0)
		assert.LessOrEqual(t, e.Correlation, 1.0)
		assert.GreaterOrEqual(t, e.Importance, 0.0)
	}
}

func TestRankFeatures_InvariantToRecordOrder(t *testing.T) {
	ds, err := testkit.SyntheticDataset(120, 11)
	require.NoError(t, err)
	features := farm.DefaultCatalog().Features()

	shuffled := make([]farm.Record, len(ds.Records))
	copy(shuffled, ds.Records)
	rng := rand.New(rand.NewSource(3))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	original := RankFeatures(ds.Records, features)
	reordered := RankFeatures(shuffled, features)

	require.Len(t, reordered, len(original))
	for i := range original {
		assert.Equal(t, original[i].Feature, reordered[i].Feature)
		assert.InDelta(t, original[i].FScore, reordered[i].FScore, 1e-9)
		assert.InDelta(t, original[i].Importance, reordered[i].Importance, 1e-9)
	}
}

func TestRankFeatures_SkipsMissingReadings(t *testing.T) {
	records := testkit.Concat(
		testkit.Records("A", "x", 1, 3),
		testkit.Records("B", "x", 5, 7),
		[]farm.Record{
			farm.NewRecord("A", map[core.FeatureKey]float64{"y": 100}),
			farm.NewRecord("B", map[core.FeatureKey]float64{"x": math.NaN()}),
		},
	)

	e := RankFeatures(records, []farm.Feature{featureX})[0]
	assert.InDelta(t, 4.0, e.FScore, 1e-12, "absent and NaN readings must not count as zero")
}

func TestRankFeatures_SeparatingFeatureRanksHigher(t *testing.T) {
	ds, err := testkit.SyntheticDataset(300, 42)
	require.NoError(t, err)

	byKey := map[core.FeatureKey]float64{}
	for _, e := range RankFeatures(ds.Records, farm.DefaultCatalog().Features()) {
		byKey[e.Feature] = e.FScore
	}

	// Rainfall centers sit many spreads apart; pH centers overlap heavily.
	assert.Greater(t, byKey[farm.FeatureRainfall], byKey[farm.FeaturePH])
}

func TestRankFeatures_ConstantInexactFeatureScoresZero(t *testing.T) {
	records := testkit.Concat(
		testkit.Records("A", "x", 0.1, 0.1, 0.1),
		testkit.Records("B", "x", 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1),
	)

	e := RankFeatures(records, []farm.Feature{featureX})[0]
	assert.Equal(t, 0.0, e.FScore)
	assert.Equal(t, 0.0, e.Correlation)
	assert.Equal(t, 0.0, e.Importance)
}
