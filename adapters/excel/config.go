package excel

import (
	"path/filepath"
	"strings"
)

// File types understood by the reader and writer
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DetectFileType maps a file name to csv or xlsx by extension. Anything that
// is not .csv is treated as a workbook.
func DetectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FileTypeCSV
	default:
		return FileTypeXLSX
	}
}

// IsSupported reports whether the extension is .csv, .xlsx or .xlsm
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReaderConfig controls how rows are turned into a dataset
type ReaderConfig struct {
	// Sheet to read from a workbook; empty means the first sheet
	Sheet string `json:"sheet"`
	// TrimCells strips surrounding whitespace from data cells
	TrimCells bool `json:"trim_cells"`
}

// DefaultReaderConfig reads the first sheet and trims cells
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{TrimCells: true}
}
