package farm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocrop/domain/core"
)

func TestRecordValue(t *testing.T) {
	r := NewRecord("Rice", map[core.FeatureKey]float64{
		FeaturePH:       6.5,
		FeatureRainfall: math.NaN(),
		FeatureHumidity: math.Inf(1),
	})

	v, ok := r.Value(FeaturePH)
	assert.True(t, ok)
	assert.Equal(t, 6.5, v)

	for _, key := range []core.FeatureKey{FeatureRainfall, FeatureHumidity, FeatureNitrogen} {
		_, ok := r.Value(key)
		assert.False(t, ok, key)
	}

	empty := NewRecord("Wheat", nil)
	assert.NotNil(t, empty.Values)
}

func TestDatasetClassesFirstSeen(t *testing.T) {
	ds := NewDataset("test", []Record{
		NewRecord("Wheat", nil), NewRecord("Rice", nil), NewRecord("Wheat", nil), NewRecord("Maize", nil),
	})

	assert.Equal(t, []core.ClassLabel{"Wheat", "Rice", "Maize"}, ds.Classes())
	assert.Equal(t, 4, ds.Len())
	assert.NotEmpty(t, ds.ID)

	var nilDS *Dataset
	assert.Equal(t, 0, nilDS.Len())
	assert.Nil(t, nilDS.Classes())
}

func TestDatasetFingerprint(t *testing.T) {
	records := []Record{
		NewRecord("Rice", map[core.FeatureKey]float64{FeaturePH: 6}),
		NewRecord("Wheat", map[core.FeatureKey]float64{FeaturePH: 7}),
	}
	keys := []core.FeatureKey{FeaturePH}

	a := NewDataset("a", records).Fingerprint(keys)
	b := NewDataset("b", records).Fingerprint(keys)
	assert.Equal(t, a, b, "fingerprint ignores identity and source")

	reordered := NewDataset("c", []Record{records[1], records[0]}).Fingerprint(keys)
	assert.NotEqual(t, a, reordered)

	missing := NewDataset("d", []Record{
		NewRecord("Rice", nil),
		NewRecord("Wheat", map[core.FeatureKey]float64{FeaturePH: 7}),
	}).Fingerprint(keys)
	assert.NotEqual(t, a, missing)
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 7, c.Len())
	assert.Equal(t, FeaturePH, c.Keys()[0])
	assert.Equal(t, FeatureRainfall, c.Keys()[6])

	f, ok := c.Lookup(FeatureRainfall)
	require.True(t, ok)
	assert.Equal(t, "mm", f.Unit)

	resolved, err := c.Resolve([]core.FeatureKey{FeatureRainfall, FeaturePH})
	require.NoError(t, err)
	assert.Equal(t, FeatureRainfall, resolved[0].Key)

	_, err = c.Resolve([]core.FeatureKey{"altitude"})
	assert.ErrorIs(t, err, core.ErrUnknownFeature)
}

func TestNewCatalogDeduplicates(t *testing.T) {
	c := NewCatalog(
		Feature{Key: FeaturePH, Name: "first"},
		Feature{Key: FeaturePH, Name: "second"},
		Feature{Key: FeatureRainfall},
	)
	assert.Equal(t, 2, c.Len())

	f, _ := c.Lookup(FeaturePH)
	assert.Equal(t, "first", f.Name)

	features := c.Features()
	features[0].Name = "mutated"
	again, _ := c.Lookup(FeaturePH)
	assert.Equal(t, "first", again.Name)
}
