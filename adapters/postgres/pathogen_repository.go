package postgres

import (
	"context"
	"fmt"
	"sort"

	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
	"goqmra/internal/pathogen"
	"goqmra/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// pathogenRow mirrors one row of the pathogens table.
type pathogenRow struct {
	Name         string         `db:"name"`
	DisplayName  string         `db:"display_name"`
	Group        string         `db:"pathogen_group"`
	DefaultModel string         `db:"default_model"`
	IllnessRatio float64        `db:"illness_ratio"`
	DALYsPerCase float64        `db:"dalys_per_case"`
	Reference    string         `db:"reference"`
	Aliases      pq.StringArray `db:"aliases"`
	Routes       pq.StringArray `db:"routes"`
}

// modelRow mirrors one row of the pathogen_models table.
type modelRow struct {
	Pathogen string  `db:"pathogen_name"`
	Model    string  `db:"model"`
	Alpha    float64 `db:"alpha"`
	Beta     float64 `db:"beta"`
	R        float64 `db:"r"`
}

// pathogenRepository implements the PathogenRepository interface
type pathogenRepository struct {
	db *sqlx.DB
}

// NewPathogenRepository creates a new pathogen repository
func NewPathogenRepository(db *sqlx.DB) ports.PathogenRepository {
	return &pathogenRepository{db: db}
}

// PathogenWriter is the write side used by the migrate command to seed the table.
type PathogenWriter interface {
	SavePathogen(ctx context.Context, record pathogen.Record) error
}

// NewPathogenWriter creates a writer on the same tables the repository reads.
func NewPathogenWriter(db *sqlx.DB) PathogenWriter {
	return &pathogenRepository{db: db}
}

// ListPathogens loads every pathogen with its dose-response parameters.
func (r *pathogenRepository) ListPathogens(ctx context.Context) ([]pathogen.Record, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Records(), nil
}

// GetPathogen resolves name, alias or any spelling variant to a pathogen.
// Unknown names fail with a not-found error listing what the table holds.
func (r *pathogenRepository) GetPathogen(ctx context.Context, name string) (*pathogen.Record, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	record, err := db.Get(name)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// database reads both tables and builds the validated lookup index.
func (r *pathogenRepository) database(ctx context.Context) (*pathogen.Database, error) {
	var rows []pathogenRow
	query := `SELECT name, display_name, pathogen_group, default_model, illness_ratio,
		dalys_per_case, reference, aliases, routes
	FROM pathogens ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pathogens: %w", err)
	}

	var models []modelRow
	query = `SELECT pathogen_name, model, alpha, beta, r FROM pathogen_models ORDER BY pathogen_name, model`
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("failed to list pathogen models: %w", err)
	}

	records := assemble(rows, models)
	db, err := pathogen.NewDatabase(records)
	if err != nil {
		return nil, fmt.Errorf("invalid pathogen table: %w", err)
	}
	return db, nil
}

// SavePathogen upserts a pathogen and replaces its model parameters.
func (r *pathogenRepository) SavePathogen(ctx context.Context, record pathogen.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	routes := make([]string, len(record.Routes))
	for i, route := range record.Routes {
		routes[i] = string(route)
	}

	query := `INSERT INTO pathogens (
		name, display_name, pathogen_group, default_model, illness_ratio,
		dalys_per_case, reference, aliases, routes
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (name) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		pathogen_group = EXCLUDED.pathogen_group,
		default_model = EXCLUDED.default_model,
		illness_ratio = EXCLUDED.illness_ratio,
		dalys_per_case = EXCLUDED.dalys_per_case,
		reference = EXCLUDED.reference,
		aliases = EXCLUDED.aliases,
		routes = EXCLUDED.routes,
		updated_at = NOW()`

	_, err = tx.ExecContext(ctx, query,
		record.Name, record.DisplayName, record.Group, string(record.DefaultModel), record.IllnessRatio,
		record.DALYsPerCase, record.Reference, pq.Array(record.Aliases), pq.Array(routes),
	)
	if err != nil {
		return fmt.Errorf("failed to save pathogen %s: %w", record.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pathogen_models WHERE pathogen_name = $1`, record.Name); err != nil {
		return fmt.Errorf("failed to clear models for %s: %w", record.Name, err)
	}

	for _, row := range modelRows(record) {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO pathogen_models (pathogen_name, model, alpha, beta, r)
			VALUES (:pathogen_name, :model, :alpha, :beta, :r)`, row)
		if err != nil {
			return fmt.Errorf("failed to save model %s for %s: %w", row.Model, record.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pathogen %s: %w", record.Name, err)
	}
	return nil
}

// assemble joins pathogen rows with their model rows. Model rows without a
// matching pathogen are ignored.
func assemble(rows []pathogenRow, models []modelRow) []pathogen.Record {
	records := make([]pathogen.Record, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		routes := make([]exposure.Route, len(row.Routes))
		for j, route := range row.Routes {
			routes[j] = exposure.Route(route)
		}
		records[i] = pathogen.Record{
			Name:         row.Name,
			DisplayName:  row.DisplayName,
			Group:        row.Group,
			Aliases:      []string(row.Aliases),
			Models:       make(map[doseresponse.Kind]doseresponse.Parameters),
			DefaultModel: doseresponse.Kind(row.DefaultModel),
			IllnessRatio: row.IllnessRatio,
			DALYsPerCase: row.DALYsPerCase,
			Routes:       routes,
			Reference:    row.Reference,
		}
		index[row.Name] = i
	}
	for _, m := range models {
		i, ok := index[m.Pathogen]
		if !ok {
			continue
		}
		kind := doseresponse.Kind(m.Model)
		records[i].Models[kind] = doseresponse.Parameters{Kind: kind, Alpha: m.Alpha, Beta: m.Beta, R: m.R}
	}
	return records
}

// modelRows flattens the model map in a stable order.
func modelRows(record pathogen.Record) []modelRow {
	rows := make([]modelRow, 0, len(record.Models))
	for kind, params := range record.Models {
		rows = append(rows, modelRow{
			Pathogen: record.Name,
			Model:    string(kind),
			Alpha:    params.Alpha,
			Beta:     params.Beta,
			R:        params.R,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Model < rows[j].Model })
	return rows
}
