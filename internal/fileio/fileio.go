// Package fileio loads delimited and spreadsheet files into datasets and
// writes result tables back out as CSV. Readers are picked by file extension;
// CSV input goes through charset detection so Excel exports in legacy
// encodings load cleanly.
package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/locmatch/internal/dataset"
)

// ReadFile loads a dataset from path, choosing the parser by extension.
// Supported: .csv, .xlsx, .xls. The first row is the header row.
func ReadFile(path, name string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadAny(f, filepath.Base(path), name)
}

// ReadAny loads a dataset from r, choosing the parser by the extension of
// filename. name becomes the dataset's logical name in errors and logs.
func ReadAny(r io.Reader, filename, name string) (*dataset.Dataset, error) {
	var (
		columns []string
		rows    []map[string]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		columns, rows, err = readCSV(r)
	case ".xlsx":
		columns, rows, err = readXLSX(r)
	case ".xls":
		columns, rows, err = readXLS(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("read %s: no header row", filename)
	}
	return dataset.New(name, columns, rows), nil
}

// header trims the raw header cells and substitutes a positional name for any
// blank one so every column stays addressable.
func header(raw []string) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// toRows converts raw records to row maps keyed by header, skipping rows that
// are entirely blank.
func toRows(records [][]string, columns []string) []map[string]string {
	var out []map[string]string
	for _, rec := range records {
		m := make(map[string]string, len(columns))
		empty := true
		for c, col := range columns {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[col] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
