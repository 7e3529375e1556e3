package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/locmatch/internal/dataset"
)

// readCSV reads a CSV stream, auto-detecting the encoding and converting to
// UTF-8. UTF-8 is assumed when detection is inconclusive.
func readCSV(r io.Reader) ([]string, []map[string]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	cr := csv.NewReader(charsetReader(cs, br))
	cr.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	columns := header(records[0])
	return columns, toRows(records[1:], columns), nil
}

// charsetReader wraps r with a decoder for the detected legacy charset.
// Anything else passes through untouched as UTF-8.
func charsetReader(cs string, r io.Reader) io.Reader {
	switch cs {
	case "windows-1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// WriteCSV writes a dataset to path as UTF-8 CSV, columns in dataset order.
func WriteCSV(d *dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSVTo(f, d)
}

// WriteCSVTo streams a dataset as CSV to w.
func WriteCSVTo(out io.Writer, d *dataset.Dataset) error {
	w := csv.NewWriter(out)
	if err := w.Write(d.Columns); err != nil {
		return err
	}
	rec := make([]string, len(d.Columns))
	for i := range d.Rows {
		for c, col := range d.Columns {
			rec[c] = d.Cell(i, col)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
