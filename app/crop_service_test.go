package app

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocrop/adapters/dataset"
	"gocrop/adapters/stats/engine"
	"gocrop/domain/core"
	"gocrop/domain/farm"
	"gocrop/domain/stats"
	"gocrop/internal/errors"
	"gocrop/internal/testkit"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Rank(records []farm.Record, features []farm.Feature) []stats.FeatureRankEntry {
	args := m.Called(records, features)
	return args.Get(0).([]stats.FeatureRankEntry)
}

func (m *mockAnalyzer) Predict(records []farm.Record, features []core.FeatureKey, query map[core.FeatureKey]float64) (*stats.PredictionResult, error) {
	args := m.Called(records, features, query)
	res, _ := args.Get(0).(*stats.PredictionResult)
	return res, args.Error(1)
}

func (m *mockAnalyzer) Profile(ds *farm.Dataset, features []farm.Feature) stats.DatasetSummary {
	args := m.Called(ds, features)
	return args.Get(0).(stats.DatasetSummary)
}

type failingParser struct{ err error }

func (p failingParser) Parse(ctx context.Context, name string, r io.Reader) (*farm.Dataset, error) {
	return nil, p.err
}

func twoCropRecords() []farm.Record {
	return testkit.Concat(
		testkit.Records("Rice", farm.FeatureRainfall, 200, 210, 220),
		testkit.Records("Wheat", farm.FeatureRainfall, 60, 70, 80),
	)
}

func newLoadedService(t *testing.T, records []farm.Record) (*CropService, *testkit.StaticSource) {
	t.Helper()
	src := testkit.NewStaticSource("static", records)
	svc := NewCropService(src, dataset.NewParser(nil), engine.NewStatsEngine(), nil, nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc, src
}

func TestCropService_DatasetBeforeLoad(t *testing.T) {
	svc := NewCropService(testkit.NewStaticSource("s", nil), nil, engine.NewStatsEngine(), nil, nil)

	_, err := svc.Dataset()
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
}

func TestCropService_LoadRejectsEmptyDataset(t *testing.T) {
	svc := NewCropService(testkit.NewStaticSource("s", nil), nil, engine.NewStatsEngine(), nil, nil)

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestCropService_LoadSourceError(t *testing.T) {
	src := &testkit.StaticSource{SourceName: "broken", Err: stderrors.New("disk gone")}
	svc := NewCropService(src, nil, engine.NewStatsEngine(), nil, nil)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestCropService_RankSortedAndCatalogOrder(t *testing.T) {
	svc, _ := newLoadedService(t, twoCropRecords())

	unsorted, err := svc.Rank(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, unsorted, farm.DefaultCatalog().Len())
	assert.Equal(t, farm.FeaturePH, unsorted[0].Feature)

	sorted, err := svc.Rank(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, farm.FeatureRainfall, sorted[0].Feature)
	assert.Greater(t, sorted[0].FScore, 0.0)

	top, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, farm.FeatureRainfall, top[0].Feature)
}

func TestCropService_Predict(t *testing.T) {
	svc, _ := newLoadedService(t, twoCropRecords())

	res, err := svc.Predict(context.Background(), PredictRequest{
		Features: []string{"rainfall"},
		Values:   map[string]float64{"rainfall": 205},
	})
	require.NoError(t, err)
	assert.Equal(t, core.ClassLabel("Rice"), res.PredictedClass)
	assert.False(t, res.Fallback)
}

func TestCropService_PredictValidation(t *testing.T) {
	svc, _ := newLoadedService(t, twoCropRecords())

	tests := []struct {
		name   string
		req    PredictRequest
		target error
	}{
		{"no features", PredictRequest{}, core.ErrNoFeatures},
		{"unknown feature", PredictRequest{Features: []string{"altitude"}, Values: map[string]float64{"altitude": 1}}, core.ErrUnknownFeature},
		{"blank feature", PredictRequest{Features: []string{" "}}, core.ErrUnknownFeature},
		{"missing value", PredictRequest{Features: []string{"rainfall", "ph"}, Values: map[string]float64{"rainfall": 1}}, core.ErrMissingQueryValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Predict(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
		})
	}
}

func TestCropService_PredictUsesAnalyzer(t *testing.T) {
	records := twoCropRecords()
	analyzer := new(mockAnalyzer)
	want := &stats.PredictionResult{PredictedClass: "Wheat", Confidence: 1, Fallback: true, Method: stats.MethodNearestCentroid}
	analyzer.On("Predict", records, []core.FeatureKey{farm.FeatureRainfall},
		map[core.FeatureKey]float64{farm.FeatureRainfall: 9999}).Return(want, nil)

	svc := NewCropService(testkit.NewStaticSource("s", records), nil, analyzer, nil, nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	got, err := svc.Predict(context.Background(), PredictRequest{
		Features: []string{"rainfall"},
		Values:   map[string]float64{" rainfall ": 9999},
	})
	require.NoError(t, err)
	assert.Same(t, want, got)
	analyzer.AssertExpectations(t)
}

func TestCropService_SummaryUsesCatalog(t *testing.T) {
	records := twoCropRecords()
	analyzer := new(mockAnalyzer)
	analyzer.On("Profile", mock.AnythingOfType("*farm.Dataset"), farm.DefaultCatalog().Features()).
		Return(stats.DatasetSummary{TotalRecords: 6})

	svc := NewCropService(testkit.NewStaticSource("s", records), nil, analyzer, nil, nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.TotalRecords)
	analyzer.AssertExpectations(t)
}

func TestCropService_UploadAndReset(t *testing.T) {
	svc, src := newLoadedService(t, twoCropRecords())
	original, _ := svc.Dataset()

	uploaded, err := svc.Upload(context.Background(), "new.csv",
		strings.NewReader("crop,ph\nMaize,6.0\nMaize,6.2\nBarley,7.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, uploaded.Len())

	current, _ := svc.Dataset()
	assert.Same(t, uploaded, current)

	reset, err := svc.Reset(context.Background())
	require.NoError(t, err)
	assert.Same(t, original, reset)
	assert.Equal(t, 1, src.Loads)
}

func TestCropService_UploadKeepsDatasetOnError(t *testing.T) {
	records := twoCropRecords()
	svc := NewCropService(testkit.NewStaticSource("s", records), failingParser{err: core.ErrInvalidDataset},
		engine.NewStatsEngine(), nil, nil)
	before, err := svc.Load(context.Background())
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "bad.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	after, _ := svc.Dataset()
	assert.Same(t, before, after)
}

func TestCropService_ResetWithoutLoadReadsSource(t *testing.T) {
	src := testkit.NewStaticSource("s", twoCropRecords())
	svc := NewCropService(src, nil, engine.NewStatsEngine(), nil, nil)

	ds, err := svc.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, 1, src.Loads)
}
