// Package export writes result tables as CSV files or as one Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"bikeusage/internal"
	"bikeusage/ports"

	"github.com/xuri/excelize/v2"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// WorkbookName is the file an xlsx export writes all sheets to.
const WorkbookName = "bikeusage.xlsx"

// maxSheetName is Excel's sheet name limit
const maxSheetName = 31

// TableWriter writes ports.Table values into a directory
type TableWriter struct {
	dir    string
	format string
	logger *internal.Logger
}

var _ ports.TableWriterPort = (*TableWriter)(nil)

// NewTableWriter creates a writer for dir in format csv or xlsx
func NewTableWriter(dir, format string, logger *internal.Logger) (*TableWriter, error) {
	if format != FormatCSV && format != FormatXLSX {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TableWriter{dir: dir, format: format, logger: logger}, nil
}

// Write stores tables as <dir>/<name>.csv, or as sheets of <dir>/bikeusage.xlsx.
func (w *TableWriter) Write(tables ...ports.Table) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if w.format == FormatXLSX {
		path, err := w.writeWorkbook(tables)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(w.dir, t.Name+".csv")
		if err := writeCSV(path, t); err != nil {
			return nil, err
		}
		w.logger.Info("wrote %s (%d rows)", path, len(t.Rows))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, t ports.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return file.Close()
}

func (w *TableWriter) writeWorkbook(tables []ports.Table) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, t := range tables {
		name := t.Name
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		if err := setRow(f, name, 1, t.Header); err != nil {
			return "", err
		}
		for r, row := range t.Rows {
			if err := setRow(f, name, r+2, row); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(w.dir, WorkbookName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("wrote %s (%d sheets)", path, len(tables))
	return path, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		// keep numbers numeric so spreadsheets can sort and chart them
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cells[i] = f
		} else {
			cells[i] = v
		}
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
