package fileio

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/locmatch/internal/dataset"
)

func TestReadAnyCSV(t *testing.T) {
	in := strings.NewReader("CUSTOMER_ID,POSTAL_CODE,CUSTOMER_DESC\n1,12345,Alpha Cafe\n,,\n2,9876,Beta Bar\n")
	d, err := ReadAny(in, "customers.csv", "reference")
	if err != nil {
		t.Fatalf("ReadAny() error = %v", err)
	}
	if got, want := strings.Join(d.Columns, "|"), "CUSTOMER_ID|POSTAL_CODE|CUSTOMER_DESC"; got != want {
		t.Errorf("columns = %s, want %s", got, want)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank row skipped)", d.Len())
	}
	if got := d.Cell(1, "CUSTOMER_DESC"); got != "Beta Bar" {
		t.Errorf("Cell(1, CUSTOMER_DESC) = %q, want Beta Bar", got)
	}
}

func TestReadAnyBlankHeaderAndRaggedRows(t *testing.T) {
	in := strings.NewReader("ID,,NAME\n1,x\n")
	d, err := ReadAny(in, "data.csv", "target")
	if err != nil {
		t.Fatalf("ReadAny() error = %v", err)
	}
	if got := d.Columns[1]; got != "Column 2" {
		t.Errorf("blank header = %q, want Column 2", got)
	}
	if got := d.Cell(0, "NAME"); got != "" {
		t.Errorf("short row padding = %q, want empty", got)
	}
}

func TestReadAnyUnsupportedExtension(t *testing.T) {
	if _, err := ReadAny(strings.NewReader(""), "data.parquet", "x"); err == nil {
		t.Error("ReadAny(.parquet) error = nil, want error")
	}
}

func TestCharsetReaderDecodesWindows1252(t *testing.T) {
	// 0x93/0x94 are the curly quotes specific to windows-1252, 0xE9 is é
	in := []byte{0x93, 'C', 'a', 'f', 0xE9, 0x94}
	got, err := io.ReadAll(charsetReader("windows-1252", bytes.NewReader(in)))
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if string(got) != "“Café”" {
		t.Errorf("decoded = %q, want %q", got, "“Café”")
	}

	// unknown charsets pass bytes through unchanged
	got, err = io.ReadAll(charsetReader("utf-8", bytes.NewReader(in)))
	if err != nil {
		t.Fatalf("passthrough error = %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("passthrough altered bytes: %v", got)
	}
}

func TestReadAnyLatin1CSV(t *testing.T) {
	// a Latin-1 Excel export: accented French text, invalid as UTF-8
	in := "CUSTOMER_ID,POSTAL_CODE,CUSTOMER_DESC,STREET_ADDRESS\n" +
		"1,75001,Caf\xe9 de la R\xe9publique,12 rue de l'\xc9glise\n" +
		"2,13002,P\xe2tisserie L\xe9once,3 all\xe9e des H\xeatres\n" +
		"3,69003,Th\xe9\xe2tre du March\xe9,7 place de l'\xc9toile\n"

	d, err := ReadAny(strings.NewReader(in), "export.csv", "reference")
	if err != nil {
		t.Fatalf("ReadAny() error = %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}
	if got := d.Cell(0, "CUSTOMER_DESC"); got != "Café de la République" {
		t.Errorf("Cell(0, CUSTOMER_DESC) = %q, want Café de la République", got)
	}
	if got := d.Cell(1, "STREET_ADDRESS"); got != "3 allée des Hêtres" {
		t.Errorf("Cell(1, STREET_ADDRESS) = %q, want 3 allée des Hêtres", got)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	d := dataset.New("out", []string{"a", "b"}, []map[string]string{
		{"a": "1", "b": "x,y"},
		{"a": "", "b": ""},
	})
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(d, path); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	back, err := ReadFile(path, "back")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if back.Len() != 1 {
		// second row is blank-only and dropped on read
		t.Fatalf("Len() = %d, want 1", back.Len())
	}
	if got := back.Cell(0, "b"); got != "x,y" {
		t.Errorf("quoted cell = %q, want x,y", got)
	}
}
