package excel

import (
	"fmt"
	"strconv"
	"strings"

	"goqmra/domain/core"
	"goqmra/internal"
	"goqmra/internal/doseresponse"
	"goqmra/internal/exposure"
	"goqmra/internal/pathogen"

	"github.com/xuri/excelize/v2"
)

// LoadPathogens reads a pathogen workbook (or CSV export of one) into a
// validated pathogen database.
func LoadPathogens(config WorkbookConfig, logger *internal.Logger) (*pathogen.Database, error) {
	data, err := NewDataReader(config, logger).ReadData()
	if err != nil {
		return nil, err
	}
	records, err := ParsePathogens(data)
	if err != nil {
		return nil, fmt.Errorf("pathogen workbook %s: %w", config.FilePath, err)
	}
	return pathogen.NewDatabase(records)
}

// ParsePathogens groups model rows by pathogen name, keeping first-seen order.
// Every malformed cell is reported, not just the first.
func ParsePathogens(data *SheetData) ([]pathogen.Record, error) {
	var report core.ValidationReport
	for _, required := range []string{ColumnName, ColumnModel} {
		report.Check(hasHeader(data.Headers, required), "header", fmt.Sprintf("missing column %q", required))
	}
	if err := report.Err(); err != nil {
		return nil, err
	}

	var order []string
	byName := make(map[string]*pathogen.Record)

	for i, row := range data.Rows {
		field := fmt.Sprintf("row %d", i+2)
		name := row[ColumnName]
		if name == "" {
			report.Add(field+"."+ColumnName, "is required")
			continue
		}

		record, ok := byName[name]
		if !ok {
			record = &pathogen.Record{
				Name:   name,
				Models: make(map[doseresponse.Kind]doseresponse.Parameters),
			}
			byName[name] = record
			order = append(order, name)
		}
		fillPathogenColumns(record, row, field, &report)

		kind, err := doseresponse.ParseKind(row[ColumnModel])
		if err != nil {
			report.Add(field+"."+ColumnModel, err.Error())
			continue
		}
		if _, dup := record.Models[kind]; dup {
			report.Add(field+"."+ColumnModel, fmt.Sprintf("%s listed twice for %s", kind, name))
			continue
		}
		params := doseresponse.Parameters{Kind: kind}
		params.Alpha = parseNumber(row, ColumnAlpha, field, &report)
		params.Beta = parseNumber(row, ColumnBeta, field, &report)
		params.R = parseNumber(row, ColumnR, field, &report)
		record.Models[kind] = params

		if isTrue(row[ColumnDefault]) {
			if record.DefaultModel != "" && record.DefaultModel != kind {
				report.Add(field+"."+ColumnDefault, fmt.Sprintf("%s already has default model %s", name, record.DefaultModel))
			} else {
				record.DefaultModel = kind
			}
		}
	}

	records := make([]pathogen.Record, 0, len(order))
	for _, name := range order {
		record := byName[name]
		if record.DefaultModel == "" && len(record.Models) == 1 {
			for kind := range record.Models {
				record.DefaultModel = kind
			}
		}
		if record.DisplayName == "" {
			record.DisplayName = record.Name
		}
		records = append(records, *record)
	}

	if err := report.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// fillPathogenColumns copies pathogen-level cells the record does not have yet.
func fillPathogenColumns(record *pathogen.Record, row RawRowData, field string, report *core.ValidationReport) {
	if record.DisplayName == "" {
		record.DisplayName = row[ColumnDisplayName]
	}
	if record.Group == "" {
		record.Group = row[ColumnGroup]
	}
	if record.Reference == "" {
		record.Reference = row[ColumnReference]
	}
	if len(record.Aliases) == 0 {
		record.Aliases = splitList(row[ColumnAliases])
	}
	if len(record.Routes) == 0 {
		for _, name := range splitList(row[ColumnRoutes]) {
			route, err := exposure.ParseRoute(name)
			if err != nil {
				report.Add(field+"."+ColumnRoutes, err.Error())
				continue
			}
			record.Routes = append(record.Routes, route)
		}
	}
	if row[ColumnIllnessRatio] != "" && record.IllnessRatio == 0 {
		record.IllnessRatio = parseNumber(row, ColumnIllnessRatio, field, report)
	}
	if row[ColumnDALYs] != "" && record.DALYsPerCase == 0 {
		record.DALYsPerCase = parseNumber(row, ColumnDALYs, field, report)
	}
}

// WritePathogenWorkbook exports records in the layout ParsePathogens reads,
// one row per model.
func WritePathogenWorkbook(path, sheet string, records []pathogen.Record) error {
	if sheet == "" {
		sheet = DefaultWorkbookConfig().Sheet
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	line := 2
	for _, record := range records {
		routes := make([]string, len(record.Routes))
		for i, route := range record.Routes {
			routes[i] = string(route)
		}
		for _, kind := range record.ModelKinds() {
			params := record.Models[doseresponse.Kind(kind)]
			def := ""
			if params.Kind == record.DefaultModel {
				def = "yes"
			}
			values := []interface{}{
				record.Name, record.DisplayName, record.Group, strings.Join(record.Aliases, ";"), kind,
				params.Alpha, params.Beta, params.R, def, record.IllnessRatio,
				record.DALYsPerCase, strings.Join(routes, ";"), record.Reference,
			}
			cell, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write %s/%s: %w", record.Name, kind, err)
			}
			line++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func parseNumber(row RawRowData, column, field string, report *core.ValidationReport) float64 {
	raw := row[column]
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		report.Add(field+"."+column, fmt.Sprintf("%q is not a number", raw))
		return 0
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTrue(raw string) bool {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "1", "x":
		return true
	}
	return false
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
