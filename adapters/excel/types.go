package excel

// RawRowData represents a row of raw sheet data keyed by normalised header
type RawRowData map[string]string

// SheetData represents one sheet read from a workbook or CSV file
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Workbook columns. One row describes one dose-response model of a pathogen;
// the pathogen-level columns only need to be filled on one of its rows.
const (
	ColumnName         = "name"
	ColumnDisplayName  = "display_name"
	ColumnGroup        = "group"
	ColumnAliases      = "aliases"
	ColumnModel        = "model"
	ColumnAlpha        = "alpha"
	ColumnBeta         = "beta"
	ColumnR            = "r"
	ColumnDefault      = "default"
	ColumnIllnessRatio = "illness_given_infection"
	ColumnDALYs        = "dalys_per_case"
	ColumnRoutes       = "routes"
	ColumnReference    = "reference"
)

// Columns lists the workbook header in write order.
var Columns = []string{
	ColumnName, ColumnDisplayName, ColumnGroup, ColumnAliases, ColumnModel,
	ColumnAlpha, ColumnBeta, ColumnR, ColumnDefault, ColumnIllnessRatio,
	ColumnDALYs, ColumnRoutes, ColumnReference,
}
