package reader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gowilks/domain/model"
	"gowilks/internal/errors"
)

// DataReader loads a single observable column from an Excel or CSV file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadColumn reads the named column into a dataset
func (r *DataReader) ReadColumn(column string) (*model.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.New(errors.CodeReaderError, fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.New(errors.CodeReaderError, "unsupported file type: "+r.fileType)
	}
	if err != nil {
		return nil, err
	}

	return columnDataset(rows, column)
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

// columnDataset extracts one header-named column of floats from row data
func columnDataset(rows [][]string, column string) (*model.Dataset, error) {
	if len(rows) < 2 {
		return nil, errors.New(errors.CodeReaderError, "file must have a header row and at least one data row")
	}

	col := -1
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.New(errors.CodeReaderError, "column not found: "+column)
	}

	values := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) {
			// Trailing cells can be absent in Excel rows; skip
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: invalid numeric value %q", i+2, cell)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New(errors.CodeReaderError, "column contains no numeric values: "+column)
	}

	return model.NewDataset(column, values)
}
