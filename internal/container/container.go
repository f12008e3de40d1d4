package container

import (
	"context"
	"fmt"

	"gocrop/adapters/dataset"
	"gocrop/adapters/llm"
	"gocrop/adapters/stats/engine"
	"gocrop/app"
	"gocrop/domain/farm"
	"gocrop/internal"
	"gocrop/internal/api"
	"gocrop/internal/config"
	"gocrop/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Source ports.DatasetSource
	Parser ports.DatasetParser

	// Services
	Crops   *app.CropService
	Advisor *app.AdvisorService
	Server  *api.Server
}

// New creates a new dependency injection container. Nothing is read from
// disk or the network until Init.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Parser: dataset.NewParser(logger),
	}
	c.Source = NewDatasetSource(cfg.Data, logger)

	c.Crops = app.NewCropService(c.Source, c.Parser, engine.NewStatsEngine(), farm.DefaultCatalog(), logger)

	var client ports.LLMClient
	if cfg.Advisor.Enabled() {
		var err error
		client, err = llm.NewClient(cfg.Advisor)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		logger.Info("Advisor enabled with model %s", cfg.Advisor.Model)
	} else {
		logger.Info("No LLM_API_KEY configured, advisor disabled")
	}
	c.Advisor = app.NewAdvisorService(c.Crops, client, cfg.Advisor, logger)

	c.Server = api.NewServer(c.Crops, c.Advisor, logger, api.Options{
		GinMode:        cfg.Server.GinMode,
		UploadMaxBytes: cfg.Data.UploadMaxBytes,
	})

	return c, nil
}

// NewDatasetSource picks the configured file, or the bundled dataset
func NewDatasetSource(cfg config.DataConfig, logger *internal.Logger) ports.DatasetSource {
	if cfg.File != "" {
		logger.Info("Using dataset file: %s", cfg.File)
		return dataset.NewFileSource(cfg.File, logger)
	}
	logger.Info("No DATA_FILE configured, using the bundled sensor dataset")
	return dataset.NewEmbeddedSource(logger)
}

// Init loads the initial dataset
func (c *Container) Init(ctx context.Context) error {
	if _, err := c.Crops.Load(ctx); err != nil {
		return fmt.Errorf("failed to load initial dataset: %w", err)
	}
	return nil
}
