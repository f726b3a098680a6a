package container

import (
	"context"
	"fmt"
	"net/http"

	"goqmra/adapters/api"
	"goqmra/adapters/excel"
	"goqmra/adapters/postgres"
	"goqmra/adapters/rng"
	"goqmra/app"
	"goqmra/internal"
	"goqmra/internal/config"
	"goqmra/internal/pathogen"
	"goqmra/internal/risk"
	"goqmra/ports"

	"github.com/jmoiron/sqlx"
)

// Source names where the pathogen table was loaded from.
type Source string

const (
	SourcePostgres Source = "postgres"
	SourceWorkbook Source = "workbook"
	SourceBuiltin  Source = "builtin"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Pathogen data
	Pathogens      ports.PathogenRepository
	PathogenSource Source

	// Services
	Guidelines  risk.Guidelines
	Assessments *app.AssessmentService
	Batches     *app.BatchService
}

// New creates the container and wires every service. The pathogen table is
// read from postgres when DATABASE_URL is set, otherwise from the configured
// workbook, otherwise the built-in table is used.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initPathogens(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize pathogen repository: %w", err)
	}

	c.Guidelines = risk.NewGuidelines(cfg.Thresholds)
	if err := c.Guidelines.Validate(); err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("invalid guidelines: %w", err)
	}

	c.Assessments = app.NewAssessmentService(c.Pathogens, rng.New(), c.Guidelines, cfg.Simulation, logger)
	c.Batches = app.NewBatchService(c.Assessments, cfg.Simulation.Workers, cfg.Simulation.Seed, logger)

	logger.Info("Container initialized (pathogens from %s)", c.PathogenSource)
	return c, nil
}

// initPathogens selects and opens the pathogen repository
func (c *Container) initPathogens(ctx context.Context) error {
	switch {
	case c.Config.Database.URL != "":
		db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		c.Pathogens = postgres.NewPathogenRepository(db)
		c.PathogenSource = SourcePostgres

	case c.Config.Data.PathogenWorkbook != "":
		db, err := excel.LoadPathogens(excel.WorkbookConfig{
			FilePath: c.Config.Data.PathogenWorkbook,
			Sheet:    c.Config.Data.PathogenSheet,
		}, c.Logger)
		if err != nil {
			return err
		}
		c.Pathogens = db
		c.PathogenSource = SourceWorkbook

	default:
		c.Pathogens = pathogen.Default()
		c.PathogenSource = SourceBuiltin
	}

	records, err := c.Pathogens.ListPathogens(ctx)
	if err != nil {
		return err
	}
	c.Logger.Debug("Loaded %d pathogens from %s", len(records), c.PathogenSource)
	return nil
}

// Router builds the HTTP handler serving the services
func (c *Container) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:      c.Logger,
		Assessments: c.Assessments,
		Batches:     c.Batches,
	})
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
