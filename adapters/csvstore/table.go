package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// row maps trimmed header names to trimmed cell values
type row map[string]string

func (r row) str(col string) string {
	return r[col]
}

func (r row) float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (r row) int(col string) (int, bool) {
	f, ok := r.float(col)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// boolean accepts true/false in any case and numeric flags
func (r row) boolean(col string) bool {
	v := strings.ToLower(r[col])
	switch v {
	case "true", "t", "yes":
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f != 0
}

// readTable reads a header-first table from a .csv or .xlsx file. Excel files
// are read from their first sheet.
func readTable(path string) ([]row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported table file: %s", path)
	}
}

func readCSV(path string) ([]row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := trimHeaders(header)

	var rows []row
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, toRow(headers, rec))
	}
	return rows, nil
}

func readXLSX(path string) ([]row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}
	headers := trimHeaders(cells[0])
	rows := make([]row, 0, len(cells)-1)
	for _, rec := range cells[1:] {
		rows = append(rows, toRow(headers, rec))
	}
	return rows, nil
}

func trimHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		// strip a UTF-8 byte order mark from the first column
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func toRow(headers, rec []string) row {
	r := make(row, len(headers))
	for j, cell := range rec {
		if j < len(headers) {
			r[headers[j]] = strings.TrimSpace(cell)
		}
	}
	return r
}

// listTables returns the sorted .csv and .xlsx files directly in dir. ok is
// false when dir does not exist.
func listTables(dir string, extra ...string) ([]string, bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	exts := append([]string{".csv", ".xlsx"}, extra...)
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, true, nil
}
