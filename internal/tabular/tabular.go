// internal/tabular/tabular.go
package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"
)

// Table – nagłówek + wiersze danych z eksportu CSV/XLSX
type Table struct {
	File   string
	Header []string
	Rows   [][]string
	Lines  []int // numer rekordu w pliku dla Rows[i], nagłówek = 1

	index map[string]int
}

// Options – jak czytać plik źródłowy
type Options struct {
	Encoding string // etykieta charsetu, "" = utf-8
	Sheet    string // tylko .xlsx, "" = pierwszy arkusz
}

// Read wczytuje cały plik; .xlsx przez excelize, reszta jako CSV.
func Read(path string, opt Options) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readXLSX(path, opt.Sheet)
	} else {
		records, err = readCSV(path, opt.Encoding)
	}
	if err != nil {
		return nil, err
	}
	return newTable(path, records), nil
}

// Parse czyta CSV z dowolnego readera (testy, stdin).
func Parse(name string, r io.Reader, encoding string) (*Table, error) {
	records, err := decodeCSV(name, r, encoding)
	if err != nil {
		return nil, err
	}
	return newTable(name, records), nil
}

func newTable(name string, records [][]string) *Table {
	t := &Table{File: name, index: map[string]int{}}
	if len(records) == 0 {
		return t
	}
	t.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
		t.Lines = append(t.Lines, i+2)
	}
	return t
}

// Has – czy kolumna jest w nagłówku
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Missing zwraca kolumny, których brak w nagłówku.
func (t *Table) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Get – wartość komórki; brak kolumny lub krótszy wiersz => ("", false)
func (t *Table) Get(row []string, col string) (string, bool) {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func readCSV(path, encoding string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeCSV(path, f, encoding)
}

func decodeCSV(name string, r io.Reader, encoding string) ([][]string, error) {
	in, err := charset.NewReaderLabel(NormalizeCharset(encoding), bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%s: charset %q: %w", name, encoding, err)
	}

	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1 // eksporty bywają poszarpane
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return records, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
	}
	return rows, nil
}

// NormalizeCharset mapuje nietypowe etykiety na standardowe nazwy rozpoznawane przez charset.NewReaderLabel
func NormalizeCharset(cs string) string {
	c := strings.TrimSpace(strings.ToLower(cs))
	switch c {
	case "":
		return "utf-8"
	case "latin ii", "latin-2", "latin2", "iso8859-2", "iso_8859-2":
		return "iso-8859-2"
	case "cp1250", "windows1250", "win-1250":
		return "windows-1250"
	case "cp1252", "windows1252", "win-1252", "ansi":
		return "windows-1252"
	default:
		return c
	}
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
