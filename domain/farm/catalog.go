package farm

import (
	"gocrop/domain/core"
)

// Feature keys for the default sensor set
const (
	FeaturePH          core.FeatureKey = "ph"
	FeatureNitrogen    core.FeatureKey = "nitrogen"
	FeaturePhosphorus  core.FeatureKey = "phosphorus"
	FeaturePotassium   core.FeatureKey = "potassium"
	FeatureTemperature core.FeatureKey = "temperature"
	FeatureHumidity    core.FeatureKey = "humidity"
	FeatureRainfall    core.FeatureKey = "rainfall"
)

// Feature describes one sensor attribute
type Feature struct {
	Key         core.FeatureKey `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit,omitempty"`
}

// Catalog is the ordered set of features the engine knows about
type Catalog struct {
	features []Feature
	index    map[core.FeatureKey]int
}

// NewCatalog builds a catalog, keeping the first occurrence of a duplicated key
func NewCatalog(features ...Feature) *Catalog {
	c := &Catalog{index: make(map[core.FeatureKey]int, len(features))}
	for _, f := range features {
		if _, dup := c.index[f.Key]; dup {
			continue
		}
		c.index[f.Key] = len(c.features)
		c.features = append(c.features, f)
	}
	return c
}

// DefaultCatalog returns the seven soil and climate features
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Feature{Key: FeaturePH, Name: "Soil pH", Description: "Acidity or alkalinity of soil."},
		Feature{Key: FeatureNitrogen, Name: "Nitrogen", Description: "Nitrogen content in the soil."},
		Feature{Key: FeaturePhosphorus, Name: "Phosphorus", Description: "Phosphorus content in the soil."},
		Feature{Key: FeaturePotassium, Name: "Potassium", Description: "Potassium content in the soil."},
		Feature{Key: FeatureTemperature, Name: "Temperature", Description: "Ambient temperature during growth.", Unit: "°C"},
		Feature{Key: FeatureHumidity, Name: "Humidity", Description: "Relative humidity levels.", Unit: "%"},
		Feature{Key: FeatureRainfall, Name: "Rainfall", Description: "Total rainfall during the season.", Unit: "mm"},
	)
}

// Features returns a copy of the catalog in declaration order
func (c *Catalog) Features() []Feature {
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Keys returns the feature keys in declaration order
func (c *Catalog) Keys() []core.FeatureKey {
	keys := make([]core.FeatureKey, len(c.features))
	for i, f := range c.features {
		keys[i] = f.Key
	}
	return keys
}

// Lookup returns the descriptor for key
func (c *Catalog) Lookup(key core.FeatureKey) (Feature, bool) {
	i, ok := c.index[key]
	if !ok {
		return Feature{}, false
	}
	return c.features[i], true
}

// Resolve maps keys to descriptors, rejecting any key outside the catalog
func (c *Catalog) Resolve(keys []core.FeatureKey) ([]Feature, error) {
	out := make([]Feature, 0, len(keys))
	for _, k := range keys {
		f, ok := c.Lookup(k)
		if !ok {
			return nil, core.NewUnknownFeatureError(k)
		}
		out = append(out, f)
	}
	return out, nil
}

// Len returns the number of features
func (c *Catalog) Len() int {
	return len(c.features)
}
