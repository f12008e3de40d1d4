package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"gocrop/adapters/stats/engine"
	"gocrop/domain/core"
	"gocrop/domain/farm"
	"gocrop/domain/stats"
	"gocrop/internal"
	"gocrop/internal/errors"
	"gocrop/ports"
)

// CropService owns the current dataset and runs analyses against it
type CropService struct {
	source   ports.DatasetSource
	parser   ports.DatasetParser
	analyzer ports.CropAnalyzer
	catalog  *farm.Catalog
	logger   *internal.Logger

	mu      sync.RWMutex
	base    *farm.Dataset // loaded from source, restored by Reset
	current *farm.Dataset
}

// PredictRequest is a crop prediction query. Values must hold a reading for
// every selected feature.
type PredictRequest struct {
	Features []string           `json:"features"`
	Values   map[string]float64 `json:"values"`
}

// NewCropService creates a crop service. The dataset is not read until Load.
func NewCropService(source ports.DatasetSource, parser ports.DatasetParser, analyzer ports.CropAnalyzer, catalog *farm.Catalog, logger *internal.Logger) *CropService {
	if catalog == nil {
		catalog = farm.DefaultCatalog()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CropService{
		source:   source,
		parser:   parser,
		analyzer: analyzer,
		catalog:  catalog,
		logger:   logger,
	}
}

// Load reads the configured source and makes it the current dataset
func (s *CropService) Load(ctx context.Context) (*farm.Dataset, error) {
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset from %s", s.source.Name())
	}
	if ds.Len() == 0 {
		return nil, errors.Wrapf(core.ErrInsufficientData, "dataset from %s has no records", s.source.Name())
	}

	s.mu.Lock()
	s.base = ds
	s.current = ds
	s.mu.Unlock()

	s.logger.Info("[CropService] Loaded %d records (%d crops) from %s", ds.Len(), len(ds.Classes()), s.source.Name())
	return ds, nil
}

// Catalog returns the feature catalog
func (s *CropService) Catalog() *farm.Catalog {
	return s.catalog
}

// Dataset returns the current dataset
func (s *CropService) Dataset() (*farm.Dataset, error) {
	s.mu.RLock()
	ds := s.current
	s.mu.RUnlock()

	if ds == nil {
		return nil, errors.Unavailable("no dataset loaded")
	}
	return ds, nil
}

// Summary profiles the current dataset over the catalog features
func (s *CropService) Summary(ctx context.Context) (stats.DatasetSummary, error) {
	ds, err := s.Dataset()
	if err != nil {
		return stats.DatasetSummary{}, err
	}
	return s.analyzer.Profile(ds, s.catalog.Features()), nil
}

// Rank scores every catalog feature. With sorted the entries are ordered by
// F-score, best first; otherwise they follow catalog order.
func (s *CropService) Rank(ctx context.Context, sorted bool) ([]stats.FeatureRankEntry, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	entries := s.analyzer.Rank(ds.Records, s.catalog.Features())
	if sorted {
		entries = engine.RecommendFeatures(entries, 0)
	}
	return entries, nil
}

// Recommend returns the n most discriminative features. n <= 0 returns all.
func (s *CropService) Recommend(ctx context.Context, n int) ([]stats.FeatureRankEntry, error) {
	entries, err := s.Rank(ctx, false)
	if err != nil {
		return nil, err
	}
	return engine.RecommendFeatures(entries, n), nil
}

// Predict validates the request against the catalog and classifies it
func (s *CropService) Predict(ctx context.Context, req PredictRequest) (*stats.PredictionResult, error) {
	keys, query, err := s.resolveQuery(req)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Predict(ds.Records, keys, query)
	if err != nil {
		return nil, errors.Wrap(err, "prediction failed")
	}

	if result.Fallback {
		s.logger.Warn("[CropService] All likelihoods underflowed for %v; nearest centroid chose %s", keys, result.PredictedClass)
	} else {
		s.logger.Debug("[CropService] Predicted %s (%.3f) from %d features", result.PredictedClass, result.Confidence, len(keys))
	}
	return result, nil
}

// resolveQuery parses feature names, rejects unknown features and checks that
// every selected feature has a finite value
func (s *CropService) resolveQuery(req PredictRequest) ([]core.FeatureKey, map[core.FeatureKey]float64, error) {
	if len(req.Features) == 0 {
		return nil, nil, core.ErrNoFeatures
	}

	keys := make([]core.FeatureKey, 0, len(req.Features))
	for _, raw := range req.Features {
		key, err := core.ParseFeatureKey(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", core.ErrUnknownFeature, raw)
		}
		keys = append(keys, key)
	}
	if _, err := s.catalog.Resolve(keys); err != nil {
		return nil, nil, err
	}

	values := make(map[core.FeatureKey]float64, len(req.Values))
	for raw, v := range req.Values {
		values[core.FeatureKey(strings.TrimSpace(raw))] = v
	}

	query := make(map[core.FeatureKey]float64, len(keys))
	for _, key := range keys {
		v, ok := values[key]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, core.NewMissingQueryValueError(key)
		}
		query[key] = v
	}
	return keys, query, nil
}

// Upload parses a table and makes it the current dataset
func (s *CropService) Upload(ctx context.Context, name string, r io.Reader) (*farm.Dataset, error) {
	ds, err := s.parser.Parse(ctx, name, r)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	s.logger.Info("[CropService] Uploaded %s: %d records replace the current dataset", name, ds.Len())
	return ds, nil
}

// Reset restores the dataset loaded from the configured source
func (s *CropService) Reset(ctx context.Context) (*farm.Dataset, error) {
	s.mu.Lock()
	base := s.base
	if base != nil {
		s.current = base
	}
	s.mu.Unlock()

	if base == nil {
		return s.Load(ctx)
	}
	s.logger.Info("[CropService] Dataset reset to %s", base.Source)
	return base, nil
}
