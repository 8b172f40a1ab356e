package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"goclean/domain/cleaning"
)

// DefaultSheet is the sheet name used when exporting workbooks
const DefaultSheet = "Sheet1"

// DataWriter exports a dataset to CSV or XLSX
type DataWriter struct {
	filePath string
	fileType string
}

// NewDataWriter creates a writer; the file type follows the extension
func NewDataWriter(filePath string) *DataWriter {
	return &DataWriter{filePath: filePath, fileType: DetectFileType(filePath)}
}

// Write implements ports.DatasetSink
func (w *DataWriter) Write(ctx context.Context, ds *cleaning.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", w.filePath, err)
	}

	switch w.fileType {
	case FileTypeCSV:
		err = WriteCSV(f, ds)
	default:
		err = WriteXLSX(f, ds)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	log.Printf("[DataWriter] wrote %v to %s", ds.Shape(), w.filePath)
	return nil
}

// WriteCSV writes a header row followed by one line per row. Missing cells
// are written empty.
func WriteCSV(out io.Writer, ds *cleaning.Dataset) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(ds.Names()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, ds.NumColumns())
	for i := 0; i < ds.NumRows(); i++ {
		for j, v := range ds.Row(i) {
			record[j] = v.Text()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the dataset to a single-sheet workbook. Numbers are
// stored as numeric cells and missing cells are left blank.
func WriteXLSX(out io.Writer, ds *cleaning.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, ds.NumColumns())
	for j, name := range ds.Names() {
		header[j] = name
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]interface{}, ds.NumColumns())
	for i := 0; i < ds.NumRows(); i++ {
		for j, v := range ds.Row(i) {
			switch {
			case v.IsNumeric():
				row[j] = v.NumericVal
			case v.IsString():
				row[j] = v.StringVal
			default:
				row[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
