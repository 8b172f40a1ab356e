package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"goclean/domain/cleaning"
)

// DataReader handles reading Excel and CSV files into a dataset. Every cell
// is read as text; type detection is left to the cleaning pipeline.
type DataReader struct {
	filePath string
	fileType string
	content  []byte
	config   ReaderConfig
}

// NewDataReader creates a reader for a file on disk
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	return &DataReader{filePath: filePath, fileType: DetectFileType(filePath), config: config}
}

// NewDataReaderFromBytes creates a reader for uploaded content. The name is
// only used to pick the file type.
func NewDataReaderFromBytes(name string, content []byte, config ReaderConfig) *DataReader {
	return &DataReader{filePath: name, fileType: DetectFileType(name), content: content, config: config}
}

// Load implements ports.DatasetSource
func (r *DataReader) Load(ctx context.Context) (*cleaning.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.ReadRows()
	if err != nil {
		return nil, err
	}
	return r.toDataset(rows)
}

// ReadRows returns the raw rows of the file, header first
func (r *DataReader) ReadRows() ([][]string, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	src, err := r.open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	switch r.fileType {
	case FileTypeCSV:
		return r.readCSV(src)
	case FileTypeXLSX:
		return r.readExcel(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) open() (io.ReadCloser, error) {
	if r.content != nil {
		return io.NopCloser(bytes.NewReader(r.content)), nil
	}
	f, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}
	return f, nil
}

// readExcel reads the configured sheet, or the first one
func (r *DataReader) readExcel(src io.Reader) ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	// short and long rows are handled in toDataset
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// toDataset turns the header row into column names and the remaining rows
// into text cells. Short rows are padded with missing values; cells past the
// last header are dropped.
func (r *DataReader) toDataset(rows [][]string) (*cleaning.Dataset, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, cleaning.ErrNoColumns
	}

	headers := rows[0]
	data := rows[1:]
	columns := make([][]cleaning.Value, len(headers))
	for j := range columns {
		columns[j] = make([]cleaning.Value, len(data))
	}

	truncated := 0
	for i, row := range data {
		if len(row) > len(headers) {
			truncated++
		}
		for j := range headers {
			if j >= len(row) {
				columns[j][i] = cleaning.NewMissingValue()
				continue
			}
			cell := row[j]
			if r.config.TrimCells {
				cell = strings.TrimSpace(cell)
			}
			columns[j][i] = cleaning.NewStringValue(cell)
		}
	}
	if truncated > 0 {
		log.Printf("[DataReader] %d rows had more cells than headers; extra cells dropped", truncated)
	}

	ds := cleaning.NewDataset()
	for j, header := range headers {
		if err := ds.AddColumn(header, columns[j]); err != nil {
			return nil, err
		}
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), ds.NumColumns(), ds.NumRows())
	return ds, nil
}
