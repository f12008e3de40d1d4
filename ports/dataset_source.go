package ports

import (
	"context"
	"io"

	"gocrop/domain/farm"
)

// DatasetSource supplies a fully materialized, cleaned dataset
type DatasetSource interface {
	// Name identifies the source in logs and dataset metadata
	Name() string

	// Load reads and coerces the source into records. Malformed readings are
	// left absent from their record.
	Load(ctx context.Context) (*farm.Dataset, error)
}

// DatasetParser turns an uploaded table into a dataset
type DatasetParser interface {
	Parse(ctx context.Context, name string, r io.Reader) (*farm.Dataset, error)
}
