package excel

// WorkbookConfig holds configuration for the pathogen workbook source
type WorkbookConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
}

// DefaultWorkbookConfig returns the sheet name the writer uses
func DefaultWorkbookConfig() WorkbookConfig {
	return WorkbookConfig{Sheet: "pathogens"}
}
