package testkit

import (
	"context"
	"fmt"

	"gocrop/domain/core"
	"gocrop/domain/farm"
)

// Records builds single-feature records for a crop, one per value
func Records(crop core.ClassLabel, feature core.FeatureKey, values ...float64) []farm.Record {
	records := make([]farm.Record, 0, len(values))
	for _, v := range values {
		records = append(records, farm.NewRecord(crop, map[core.FeatureKey]float64{feature: v}))
	}
	return records
}

// Concat joins record groups in order
func Concat(groups ...[]farm.Record) []farm.Record {
	var out []farm.Record
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DegenerateTwoClass returns class A with x = 1,1,1 followed by class B with x = 5,5,5
func DegenerateTwoClass(feature core.FeatureKey) []farm.Record {
	return Concat(
		Records("A", feature, 1, 1, 1),
		Records("B", feature, 5, 5, 5),
	)
}

// SyntheticDataset generates the default three-crop dataset for seed
func SyntheticDataset(rows int, seed int64) (*farm.Dataset, error) {
	cfg := DefaultFarmConfig()
	cfg.Rows = rows
	cfg.Seed = seed
	return NewFarmDataGenerator(cfg).GenerateDataset()
}

// StaticSource serves a fixed dataset, optionally failing
type StaticSource struct {
	SourceName string
	Dataset    *farm.Dataset
	Err        error
	Loads      int
}

// NewStaticSource wraps records in a StaticSource
func NewStaticSource(name string, records []farm.Record) *StaticSource {
	return &StaticSource{SourceName: name, Dataset: farm.NewDataset(name, records)}
}

func (s *StaticSource) Name() string { return s.SourceName }

func (s *StaticSource) Load(ctx context.Context) (*farm.Dataset, error) {
	s.Loads++
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Dataset == nil {
		return nil, fmt.Errorf("%w: static source %s has no dataset", core.ErrInvalidDataset, s.SourceName)
	}
	return s.Dataset, nil
}

// MockLLMClient returns a canned response or error
type MockLLMClient struct {
	Response   string
	Error      error
	LastModel  string
	LastPrompt string
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	m.LastModel = model
	m.LastPrompt = prompt
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "Rainfall separates the crops best; prioritise irrigation planning.", nil
}
