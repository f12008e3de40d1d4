package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gocrop/adapters/excel"
	"gocrop/domain/core"
	"gocrop/domain/farm"
)

// ColumnSource names a table header that can supply a feature, and the factor
// its cells are multiplied by
type ColumnSource struct {
	Header string  `json:"header"`
	Scale  float64 `json:"scale"`
}

// FeatureColumns lists candidate headers for one feature, in preference order
type FeatureColumns struct {
	Feature core.FeatureKey `json:"feature"`
	Sources []ColumnSource  `json:"sources"`
}

// ColumnMapping maps table headers onto records
type ColumnMapping struct {
	LabelColumns []string         `json:"label_columns"`
	Features     []FeatureColumns `json:"features"`
}

// DefaultColumnMapping accepts direct nutrient columns and the sensor export
// layout, where nitrogen, phosphorus and potassium are derived from soil
// moisture, sunlight hours and yield
func DefaultColumnMapping() ColumnMapping {
	direct := func(h string) ColumnSource { return ColumnSource{Header: h, Scale: 1} }
	return ColumnMapping{
		LabelColumns: []string{"crop_type", "crop", "label"},
		Features: []FeatureColumns{
			{Feature: farm.FeaturePH, Sources: []ColumnSource{direct("soil_pH"), direct("ph")}},
			{Feature: farm.FeatureNitrogen, Sources: []ColumnSource{
				direct("nitrogen"), direct("N"),
				{Header: "soil_moisture_%", Scale: 0.1}, {Header: "soil_moisture", Scale: 0.1},
			}},
			{Feature: farm.FeaturePhosphorus, Sources: []ColumnSource{
				direct("phosphorus"), direct("P"),
				{Header: "sunlight_hours", Scale: 0.05},
			}},
			{Feature: farm.FeaturePotassium, Sources: []ColumnSource{
				direct("potassium"), direct("K"),
				{Header: "yield_kg_per_hectare", Scale: 0.001}, {Header: "yield_kg", Scale: 0.001},
			}},
			{Feature: farm.FeatureTemperature, Sources: []ColumnSource{direct("temperature"), direct("temperature_C")}},
			{Feature: farm.FeatureHumidity, Sources: []ColumnSource{direct("humidity"), direct("humidity_%")}},
			{Feature: farm.FeatureRainfall, Sources: []ColumnSource{direct("rainfall"), direct("rainfall_mm")}},
		},
	}
}

// CoercionReport summarizes what was dropped while building records
type CoercionReport struct {
	RowsRead         int                        `json:"rows_read"`
	RowsAccepted     int                        `json:"rows_accepted"`
	RowsSkipped      int                        `json:"rows_skipped"`
	LabelColumn      string                     `json:"label_column"`
	FeatureColumns   map[core.FeatureKey]string `json:"feature_columns"`
	UnmappedFeatures []core.FeatureKey          `json:"unmapped_features,omitempty"`
	MissingValues    map[core.FeatureKey]int    `json:"missing_values,omitempty"`
}

// Coercer turns raw table rows into farm records
type Coercer struct {
	mapping ColumnMapping
}

// NewCoercer creates a coercer with the given mapping
func NewCoercer(mapping ColumnMapping) *Coercer {
	return &Coercer{mapping: mapping}
}

type boundColumn struct {
	feature core.FeatureKey
	header  string
	scale   float64
}

// Coerce converts table rows into records. Rows without a crop label are
// dropped; unparseable readings are left absent rather than zeroed.
func (c *Coercer) Coerce(table *excel.TableData) ([]farm.Record, CoercionReport, error) {
	report := CoercionReport{
		FeatureColumns: make(map[core.FeatureKey]string),
		MissingValues:  make(map[core.FeatureKey]int),
	}
	if table == nil {
		return nil, report, fmt.Errorf("%w: no table", core.ErrInvalidDataset)
	}
	report.RowsRead = len(table.Rows)

	headers := indexHeaders(table.Headers)

	labelHeader, ok := findHeader(headers, c.mapping.LabelColumns)
	if !ok {
		return nil, report, fmt.Errorf("%w: no crop label column (expected one of %s)",
			core.ErrInvalidDataset, strings.Join(c.mapping.LabelColumns, ", "))
	}
	report.LabelColumn = labelHeader

	var bound []boundColumn
	for _, fc := range c.mapping.Features {
		col, found := bindFeature(headers, fc)
		if !found {
			report.UnmappedFeatures = append(report.UnmappedFeatures, fc.Feature)
			continue
		}
		bound = append(bound, col)
		report.FeatureColumns[fc.Feature] = col.header
	}

	records := make([]farm.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		label, err := core.ParseClassLabel(row[labelHeader])
		if err != nil {
			report.RowsSkipped++
			continue
		}

		values := make(map[core.FeatureKey]float64, len(bound))
		for _, col := range bound {
			v, ok := parseNumeric(row[col.header])
			if !ok {
				report.MissingValues[col.feature]++
				continue
			}
			values[col.feature] = v * col.scale
		}
		records = append(records, farm.NewRecord(label, values))
	}
	report.RowsAccepted = len(records)

	if len(records) == 0 {
		return nil, report, fmt.Errorf("%w: no valid data rows", core.ErrInvalidDataset)
	}
	return records, report, nil
}

// indexHeaders maps lower-cased headers to their original spelling
func indexHeaders(headers []string) map[string]string {
	index := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = h
		}
	}
	return index
}

func findHeader(headers map[string]string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if h, ok := headers[strings.ToLower(c)]; ok {
			return h, true
		}
	}
	return "", false
}

func bindFeature(headers map[string]string, fc FeatureColumns) (boundColumn, bool) {
	for _, src := range fc.Sources {
		if h, ok := headers[strings.ToLower(src.Header)]; ok {
			scale := src.Scale
			if scale == 0 {
				scale = 1
			}
			return boundColumn{feature: fc.Feature, header: h, scale: scale}, true
		}
	}
	return boundColumn{}, false
}

// parseNumeric accepts plain and percent-suffixed numbers, with a decimal
// comma when no period is present
func parseNumeric(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, false
	}
	clean = strings.TrimSuffix(clean, "%")
	if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
