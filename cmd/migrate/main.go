package main

import (
	"context"
	"fmt"
	"os"

	"goqmra/adapters/db/postgres/migrations"
	"goqmra/adapters/excel"
	"goqmra/adapters/postgres"
	"goqmra/internal"
	"goqmra/internal/config"
	"goqmra/internal/pathogen"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const usage = `Usage: migrate <up|status|seed> [workbook.xlsx]

  up      apply pending schema migrations
  status  list migrations and whether they are applied
  seed    apply migrations, then upsert the pathogen table from the workbook
          argument, PATHOGEN_WORKBOOK, or the built-in table

DATABASE_URL selects the database.`

func main() {
	logger := internal.DefaultLogger

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Warn("Could not load .env file: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db.DB, logger)

	switch os.Args[1] {
	case "up":
		err = up(ctx, migrator, logger)
	case "status":
		err = status(ctx, migrator)
	case "seed":
		workbook := cfg.Data.PathogenWorkbook
		if len(os.Args) > 2 {
			workbook = os.Args[2]
		}
		if err = up(ctx, migrator, logger); err == nil {
			err = seed(ctx, db, excel.WorkbookConfig{FilePath: workbook, Sheet: cfg.Data.PathogenSheet}, logger)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func up(ctx context.Context, migrator *migrations.Migrator, logger *internal.Logger) error {
	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	logger.Info("Migrations complete: %d applied", len(applied))
	return nil
}

func status(ctx context.Context, migrator *migrations.Migrator) error {
	statuses, err := migrator.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Migration Status:")
	fmt.Println("=================")
	appliedCount := 0
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
			appliedCount++
		}
		fmt.Printf("  %s_%s: %s\n", s.Version, s.Name, state)
	}
	fmt.Printf("\nSummary: %d/%d migrations applied\n", appliedCount, len(statuses))
	return nil
}

func seed(ctx context.Context, db *sqlx.DB, workbook excel.WorkbookConfig, logger *internal.Logger) error {
	source := pathogen.Default()
	if workbook.FilePath != "" {
		var err error
		if source, err = excel.LoadPathogens(workbook, logger); err != nil {
			return err
		}
	}

	writer := postgres.NewPathogenWriter(db)
	records := source.Records()
	for _, record := range records {
		if err := writer.SavePathogen(ctx, record); err != nil {
			return err
		}
	}
	logger.Info("Seeded %d pathogens", len(records))
	return nil
}
