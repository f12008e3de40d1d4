package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gocrop/adapters/excel"
	"gocrop/domain/farm"
	"gocrop/internal"
)

//go:embed data/farm_sensors.csv
var farmSensorsCSV []byte

// EmbeddedSourceName identifies the bundled sensor dataset
const EmbeddedSourceName = "embedded:farm_sensors.csv"

// Parser reads CSV or XLSX content into a dataset
type Parser struct {
	reader  *excel.DataReader
	coercer *Coercer
	logger  *internal.Logger
}

// NewParser creates a parser using the default column mapping
func NewParser(logger *internal.Logger) *Parser {
	return NewParserWithMapping(logger, DefaultColumnMapping())
}

// NewParserWithMapping creates a parser with a custom column mapping
func NewParserWithMapping(logger *internal.Logger, mapping ColumnMapping) *Parser {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Parser{
		reader:  excel.NewDataReader(logger),
		coercer: NewCoercer(mapping),
		logger:  logger,
	}
}

// Parse reads the content of name from src. The format follows the file
// extension.
func (p *Parser) Parse(ctx context.Context, name string, src io.Reader) (*farm.Dataset, error) {
	ds, _, err := p.ParseWithReport(ctx, name, src)
	return ds, err
}

// ParseWithReport is Parse that also returns the coercion report
func (p *Parser) ParseWithReport(ctx context.Context, name string, src io.Reader) (*farm.Dataset, CoercionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, CoercionReport{}, err
	}

	table, err := p.reader.Read(src, excel.DetectFormat(name))
	if err != nil {
		return nil, CoercionReport{}, fmt.Errorf("read %s: %w", name, err)
	}

	records, report, err := p.coercer.Coerce(table)
	if err != nil {
		return nil, report, fmt.Errorf("coerce %s: %w", name, err)
	}

	for feature, n := range report.MissingValues {
		p.logger.Debug("%s: %d missing %s readings", name, n, feature)
	}
	if report.RowsSkipped > 0 {
		p.logger.Warn("%s: skipped %d rows without a crop label", name, report.RowsSkipped)
	}

	return farm.NewDataset(name, records), report, nil
}

// EmbeddedSource loads the sensor dataset compiled into the binary
type EmbeddedSource struct {
	parser *Parser
}

// NewEmbeddedSource creates the bundled dataset source
func NewEmbeddedSource(logger *internal.Logger) *EmbeddedSource {
	return &EmbeddedSource{parser: NewParser(logger)}
}

// Name implements ports.DatasetSource
func (s *EmbeddedSource) Name() string { return EmbeddedSourceName }

// Load implements ports.DatasetSource
func (s *EmbeddedSource) Load(ctx context.Context) (*farm.Dataset, error) {
	return s.parser.Parse(ctx, EmbeddedSourceName, bytes.NewReader(farmSensorsCSV))
}

// FileSource loads a dataset from a CSV or XLSX file on disk
type FileSource struct {
	path   string
	parser *Parser
}

// NewFileSource creates a source reading path on every Load
func NewFileSource(path string, logger *internal.Logger) *FileSource {
	return &FileSource{path: path, parser: NewParser(logger)}
}

// Name implements ports.DatasetSource
func (s *FileSource) Name() string { return "file:" + filepath.Base(s.path) }

// Load implements ports.DatasetSource
func (s *FileSource) Load(ctx context.Context) (*farm.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return s.parser.Parse(ctx, s.path, f)
}
