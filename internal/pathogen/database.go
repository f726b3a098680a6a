package pathogen

import (
	"context"
	"sort"
	"sync"

	"goqmra/domain/core"
	"goqmra/internal/doseresponse"
)

// Database is a read-only pathogen table. It is safe for concurrent use once
// built.
type Database struct {
	records map[string]Record
	index   map[string]string
}

// NewDatabase validates records and indexes them by name and alias.
func NewDatabase(records []Record) (*Database, error) {
	db := &Database{
		records: make(map[string]Record, len(records)),
		index:   make(map[string]string, len(records)*3),
	}
	var report core.ValidationReport
	for _, r := range records {
		if err := r.Validate(); err != nil {
			report.MergeErr(r.Name, err)
			continue
		}
		name := key(r.Name)
		if _, dup := db.index[name]; dup {
			report.Add(r.Name, "duplicate pathogen name or alias")
			continue
		}
		db.records[name] = r
		db.index[name] = name
		for _, alias := range r.Aliases {
			if k := key(alias); k != "" {
				if _, taken := db.index[k]; !taken {
					db.index[k] = name
				}
			}
		}
	}
	if err := report.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

var builtin = sync.OnceValue(func() *Database {
	db, err := NewDatabase(builtinRecords())
	if err != nil {
		panic("pathogen: invalid built-in table: " + err.Error())
	}
	return db
})

// Default returns the built-in reference table.
func Default() *Database {
	return builtin()
}

// Get looks a pathogen up by name or alias, case-insensitively.
func (db *Database) Get(name string) (Record, error) {
	if id, ok := db.index[key(name)]; ok {
		return db.records[id], nil
	}
	return Record{}, core.NewPathogenNotFoundError(name, db.Names())
}

// Parameters returns the dose-response parameters of one model of a pathogen.
// An empty model name selects the pathogen's default model.
func (db *Database) Parameters(name, model string) (doseresponse.Parameters, error) {
	r, err := db.Get(name)
	if err != nil {
		return doseresponse.Parameters{}, err
	}
	return r.Parameters(model)
}

// Model builds the dose-response model of a pathogen.
func (db *Database) Model(name, model string, diag *core.Diagnostics) (doseresponse.Model, error) {
	r, err := db.Get(name)
	if err != nil {
		return nil, err
	}
	return r.Model(model, diag)
}

// ListPathogens implements ports.PathogenRepository.
func (db *Database) ListPathogens(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return db.Records(), nil
}

// GetPathogen implements ports.PathogenRepository.
func (db *Database) GetPathogen(ctx context.Context, name string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := db.Get(name)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Names lists canonical pathogen names in sorted order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.records))
	for _, r := range db.records {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Records returns every record sorted by name.
func (db *Database) Records() []Record {
	out := make([]Record, 0, len(db.records))
	for _, r := range db.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
