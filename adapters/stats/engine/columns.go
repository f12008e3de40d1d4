package engine

import (
	"gocrop/domain/core"
	"gocrop/domain/farm"
)

// classPartition groups records by crop label, keeping first-seen class order
type classPartition struct {
	classes []core.ClassLabel
	members map[core.ClassLabel][]farm.Record
}

func partitionByClass(records []farm.Record) classPartition {
	p := classPartition{members: make(map[core.ClassLabel][]farm.Record)}
	for _, r := range records {
		if _, ok := p.members[r.Crop]; !ok {
			p.classes = append(p.classes, r.Crop)
		}
		p.members[r.Crop] = append(p.members[r.Crop], r)
	}
	return p
}

// column extracts the present readings of feature, skipping missing ones
func column(records []farm.Record, feature core.FeatureKey) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value(feature); ok {
			values = append(values, v)
		}
	}
	return values
}

// orderedSet drops repeated feature keys, keeping the first occurrence
func orderedSet(features []core.FeatureKey) []core.FeatureKey {
	seen := make(map[core.FeatureKey]struct{}, len(features))
	out := make([]core.FeatureKey, 0, len(features))
	for _, f := range features {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
