package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bartek5186/pogdata/internal/planogram"
	"github.com/bartek5186/pogdata/internal/tabular"
)

func yn(s string) bool {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "Y", "T", "1", "TRUE", "YES":
		return true
	default:
		return false
	}
}

func i64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	// Excel potrafi dopisać ".0"
	s = strings.TrimSuffix(s, ".0")
	return strconv.ParseInt(s, 10, 64)
}

func requiredInt(tbl *tabular.Table, row []string, line int, col string) (int, error) {
	raw, _ := tbl.Get(row, col)
	v, err := i64(raw)
	if err != nil {
		return 0, &planogram.RowError{
			File:   tbl.File,
			Row:    line,
			Column: col,
			Err:    fmt.Errorf("%w: %q is not an integer", planogram.ErrMalformedRow, raw),
		}
	}
	return int(v), nil
}

// facings: puste albo 0 => 1
func facings(tbl *tabular.Table, row []string, line int) (int, error) {
	raw, _ := tbl.Get(row, colFacings)
	if strings.TrimSpace(raw) == "" {
		return 1, nil
	}
	v, err := requiredInt(tbl, row, line, colFacings)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 1, nil
	}
	return v, nil
}
