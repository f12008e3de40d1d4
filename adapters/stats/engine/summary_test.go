package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	g := Summarize(nil)
	assert.Equal(t, 0.0, g.Mean)
	assert.Equal(t, 0.0, g.Std)

	g = Summarize([]float64{})
	assert.Equal(t, 0.0, g.Mean)
	assert.Equal(t, 0.0, g.Std)
}

func TestSummarize_PopulationFormula(t *testing.T) {
	// Classic example: mean 5, population std 2 (sample std would be ~2.138)
	g := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, g.Mean, 1e-12)
	assert.InDelta(t, 2.0, g.Std, 1e-12)
}

func TestSummarize_MatchesTextbook(t *testing.T) {
	values := []float64{5.99, 7.16, 6.36, 6.11, 6.60, 5.85, 7.39}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)))

	g := Summarize(values)
	assert.InDelta(t, mean, g.Mean, 1e-12)
	assert.InDelta(t, std, g.Std, 1e-12)
}

func TestSummarize_SingleValueIsDegenerate(t *testing.T) {
	g := Summarize([]float64{3.5})
	assert.Equal(t, 3.5, g.Mean)
	assert.Equal(t, 0.0, g.Std)
}

func TestSummarize_ConstantInexactValue(t *testing.T) {
	// 0.1 has no exact binary form; summing it drifts away from 0.1.
	g := Summarize([]float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1})
	assert.Equal(t, 0.1, g.Mean)
	assert.Equal(t, 0.0, g.Std)

	g = Summarize([]float64{-3.7})
	assert.Equal(t, -3.7, g.Mean)
	assert.Equal(t, 0.0, g.Std)
}
