package farm

import (
	"encoding/binary"
	"math"
	"time"

	"gocrop/domain/core"
)

// Record is one farm observation: a crop label plus named sensor readings.
// A feature that is absent from Values is missing, never zero.
type Record struct {
	Crop   core.ClassLabel             `json:"crop"`
	Values map[core.FeatureKey]float64 `json:"values"`
}

// NewRecord creates a record for the given crop
func NewRecord(crop core.ClassLabel, values map[core.FeatureKey]float64) Record {
	if values == nil {
		values = make(map[core.FeatureKey]float64)
	}
	return Record{Crop: crop, Values: values}
}

// Value returns the reading for key. NaN and infinite readings count as missing.
func (r Record) Value(key core.FeatureKey) (float64, bool) {
	v, ok := r.Values[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Dataset is an immutable, ordered collection of records handed to the engine
type Dataset struct {
	ID       core.DatasetID `json:"id"`
	Source   string         `json:"source"`
	LoadedAt time.Time      `json:"loaded_at"`
	Records  []Record       `json:"-"`
}

// NewDataset wraps records with a fresh identity
func NewDataset(source string, records []Record) *Dataset {
	return &Dataset{
		ID:       core.NewDatasetID(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Records:  records,
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Classes returns the distinct crop labels in first-seen order
func (d *Dataset) Classes() []core.ClassLabel {
	if d == nil {
		return nil
	}
	return DistinctClasses(d.Records)
}

// Fingerprint hashes labels and readings in record order over the given features
func (d *Dataset) Fingerprint(features []core.FeatureKey) core.DatasetHash {
	var buf []byte
	var scratch [8]byte
	for _, r := range d.Records {
		buf = append(buf, string(r.Crop)...)
		buf = append(buf, 0)
		for _, f := range features {
			v, ok := r.Value(f)
			if !ok {
				buf = append(buf, 0xff)
				continue
			}
			binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
			buf = append(buf, scratch[:]...)
		}
	}
	return core.NewDatasetHash(buf)
}

// DistinctClasses returns the distinct crop labels of records in first-seen order
func DistinctClasses(records []Record) []core.ClassLabel {
	seen := make(map[core.ClassLabel]struct{})
	var classes []core.ClassLabel
	for _, r := range records {
		if _, ok := seen[r.Crop]; ok {
			continue
		}
		seen[r.Crop] = struct{}{}
		classes = append(classes, r.Crop)
	}
	return classes
}
