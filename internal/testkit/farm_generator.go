package testkit

import (
	"fmt"
	"math/rand"
	"sort"

	"gocrop/domain/core"
	"gocrop/domain/farm"
)

// CropProfile is the sensor signature a synthetic crop is drawn from
type CropProfile struct {
	Crop   core.ClassLabel             `json:"crop"`
	Weight int                         `json:"weight"` // relative share of rows
	Center map[core.FeatureKey]float64 `json:"center"`
	Spread map[core.FeatureKey]float64 `json:"spread"` // standard deviation per feature
}

// FarmGeneratorConfig configures the synthetic farm data generator
type FarmGeneratorConfig struct {
	Rows     int           `json:"rows"`
	Seed     int64         `json:"seed"`
	Profiles []CropProfile `json:"profiles"`
}

// DefaultFarmConfig returns three well-separated crops over the default features
func DefaultFarmConfig() FarmGeneratorConfig {
	return FarmGeneratorConfig{
		Rows: 300,
		Seed: 42,
		Profiles: []CropProfile{
			{
				Crop:   "Rice",
				Weight: 1,
				Center: profile(6.0, 4.0, 0.30, 4.5, 26, 85, 240),
				Spread: profile(0.3, 0.6, 0.05, 0.6, 2, 4, 25),
			},
			{
				Crop:   "Wheat",
				Weight: 1,
				Center: profile(7.0, 2.5, 0.35, 3.5, 18, 55, 90),
				Spread: profile(0.3, 0.5, 0.05, 0.6, 2, 5, 15),
			},
			{
				Crop:   "Cotton",
				Weight: 1,
				Center: profile(6.5, 1.5, 0.45, 4.0, 32, 65, 160),
				Spread: profile(0.3, 0.4, 0.05, 0.6, 2, 5, 20),
			},
		},
	}
}

func profile(ph, n, p, k, temp, humidity, rain float64) map[core.FeatureKey]float64 {
	return map[core.FeatureKey]float64{
		farm.FeaturePH:          ph,
		farm.FeatureNitrogen:    n,
		farm.FeaturePhosphorus:  p,
		farm.FeaturePotassium:   k,
		farm.FeatureTemperature: temp,
		farm.FeatureHumidity:    humidity,
		farm.FeatureRainfall:    rain,
	}
}

// FarmDataGenerator draws labeled farm records from Gaussian crop profiles
type FarmDataGenerator struct {
	config FarmGeneratorConfig
	rng    *rand.Rand
}

// NewFarmDataGenerator creates a new farm data generator
func NewFarmDataGenerator(config FarmGeneratorConfig) *FarmDataGenerator {
	return &FarmDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRecords produces config.Rows records, cycling through the crop
// profiles in proportion to their weights
func (g *FarmDataGenerator) GenerateRecords() ([]farm.Record, error) {
	if len(g.config.Profiles) == 0 {
		return nil, fmt.Errorf("at least one crop profile is required")
	}

	var schedule []int
	for i, p := range g.config.Profiles {
		if p.Crop.IsEmpty() {
			return nil, fmt.Errorf("crop profile %d has an empty label", i)
		}
		w := p.Weight
		if w <= 0 {
			w = 1
		}
		for j := 0; j < w; j++ {
			schedule = append(schedule, i)
		}
	}

	records := make([]farm.Record, 0, g.config.Rows)
	for i := 0; i < g.config.Rows; i++ {
		p := g.config.Profiles[schedule[i%len(schedule)]]
		values := make(map[core.FeatureKey]float64, len(p.Center))
		// Draw in key order so a seed always reproduces the same table.
		for _, key := range sortedKeys(p.Center) {
			values[key] = p.Center[key] + g.rng.NormFloat64()*p.Spread[key]
		}
		records = append(records, farm.NewRecord(p.Crop, values))
	}

	return records, nil
}

func sortedKeys(m map[core.FeatureKey]float64) []core.FeatureKey {
	keys := make([]core.FeatureKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// GenerateDataset wraps GenerateRecords in a dataset named after the seed
func (g *FarmDataGenerator) GenerateDataset() (*farm.Dataset, error) {
	records, err := g.GenerateRecords()
	if err != nil {
		return nil, err
	}
	return farm.NewDataset(fmt.Sprintf("synthetic-seed-%d", g.config.Seed), records), nil
}
