// internal/importer/importer.go
package importer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bartek5186/pogdata/internal/lookup"
	"github.com/bartek5186/pogdata/internal/planogram"
	"github.com/bartek5186/pogdata/internal/tabular"
)

// kolumny eksportu planogramu
const (
	colUPC      = "UPC"
	colName     = "Product Name"
	colNew      = "New Flag"
	colDelete   = "Delete Flag"
	colSegment  = "POG Segment"
	colFixture  = "Fixture"
	colPosition = "Position"
	colFacings  = "FW"
	colMove     = "Move Flag" // endcap nie ma
	colSRP      = "SRP"       // endcap nie ma
)

var requiredColumns = []string{colUPC, colName, colNew, colSegment, colFixture, colPosition, colFacings}

// Source – jeden eksport (CSV/XLSX) + nagłówek layoutu
type Source struct {
	Path           string         `json:"path" mapstructure:"path"`
	Encoding       string         `json:"encoding,omitempty" mapstructure:"encoding"`
	Sheet          string         `json:"sheet,omitempty" mapstructure:"sheet"`
	AllowNewBadges bool           `json:"allow_new_badges" mapstructure:"allow_new_badges"`
	Meta           planogram.Meta `json:"layout" mapstructure:"layout"`
}

type Importer struct {
	log    zerolog.Logger
	tables *lookup.Tables
}

func New(log zerolog.Logger, tables *lookup.Tables) *Importer {
	return &Importer{log: log, tables: tables}
}

// ImportFile czyta eksport z dysku i buduje layout.
func (i *Importer) ImportFile(src Source) (planogram.Layout, error) {
	tbl, err := tabular.Read(src.Path, tabular.Options{Encoding: src.Encoding, Sheet: src.Sheet})
	if err != nil {
		return planogram.Layout{}, fmt.Errorf("import %s: %w", src.Meta.ID, err)
	}
	return i.ImportTable(tbl, src)
}

// ImportTable – właściwa transformacja: wiersze -> aktywne + usunięte,
// sortowanie po (segment, półka, pozycja), merge z ledgerem usuniętych.
func (i *Importer) ImportTable(tbl *tabular.Table, src Source) (planogram.Layout, error) {
	if missing := tbl.Missing(requiredColumns...); len(missing) > 0 {
		return planogram.Layout{}, fmt.Errorf("%s: %w: %s", tbl.File, planogram.ErrMissingColumn, strings.Join(missing, ", "))
	}

	var (
		products []planogram.Product
		removed  []planogram.RemovedProduct

		named, sized int
	)
	const maxDbgRows = 10
	dbgRows := 0

	for n, row := range tbl.Rows {
		line := tbl.Lines[n]

		rawUPC, _ := tbl.Get(row, colUPC)
		upc := planogram.NormalizeUPC(rawUPC)
		if upc == "" {
			return planogram.Layout{}, &planogram.RowError{File: tbl.File, Row: line, Column: colUPC, Err: planogram.ErrEmptyUPC}
		}

		name, _ := tbl.Get(row, colName)
		name = strings.TrimSpace(name)
		if d, ok := i.tables.Description(upc); ok {
			name = d
			named++
		}

		var width, height *float64
		if d, ok := i.tables.Dimensions(upc); ok {
			width, height = d.WidthIn, d.HeightIn
			sized++
		}

		if del, _ := tbl.Get(row, colDelete); yn(del) {
			removed = append(removed, planogram.RemovedProduct{UPC: upc, Name: name, WidthIn: width, HeightIn: height})
			continue
		}

		p := planogram.Product{UPC: upc, Name: name, WidthIn: width, HeightIn: height}

		var err error
		if p.Segment, err = requiredInt(tbl, row, line, colSegment); err != nil {
			return planogram.Layout{}, err
		}
		if p.Shelf, err = requiredInt(tbl, row, line, colFixture); err != nil {
			return planogram.Layout{}, err
		}
		if p.Position, err = requiredInt(tbl, row, line, colPosition); err != nil {
			return planogram.Layout{}, err
		}
		if p.Facings, err = facings(tbl, row, line); err != nil {
			return planogram.Layout{}, err
		}

		newFlag, _ := tbl.Get(row, colNew)
		p.IsNew = src.AllowNewBadges && yn(newFlag)
		move, _ := tbl.Get(row, colMove)
		p.IsMove = yn(move)
		srp, _ := tbl.Get(row, colSRP)
		if strings.EqualFold(strings.TrimSpace(srp), "SRP") {
			p.SRP = "SRP"
		}

		if dbgRows < maxDbgRows {
			i.log.Debug().
				Int("row", line).
				Str("upc_raw", rawUPC).
				Str("upc", upc).
				Int("segment", p.Segment).
				Int("shelf", p.Shelf).
				Int("position", p.Position).
				Msg("importer: row mapped")
			dbgRows++
		}
		products = append(products, p)
	}

	slices.SortStableFunc(products, planogram.Compare)

	merged := i.mergeRemoved(src.Meta.ID, removed, i.tables.Removed(src.Meta.ID))
	layout := planogram.NewLayout(src.Meta, products, merged)

	i.log.Info().
		Str("layout", src.Meta.ID).
		Str("file", tbl.File).
		Int("rows", len(tbl.Rows)).
		Int("products", layout.TotalProducts).
		Int("removed_csv", len(removed)).
		Int("removed_total", len(merged)).
		Int("described", named).
		Int("with_dimensions", sized).
		Bool("new_badges", src.AllowNewBadges).
		Msg("CSV → layout OK")
	return layout, nil
}

// mergeRemoved: najpierw wpisy z CSV (powtórzony UPC – wygrywa ostatni wiersz,
// pozycja zostaje po pierwszym), potem z ledgera – tylko UPC, których jeszcze nie ma.
func (i *Importer) mergeRemoved(layoutID string, fromCSV, ledger []planogram.RemovedProduct) []planogram.RemovedProduct {
	out := make([]planogram.RemovedProduct, 0, len(fromCSV)+len(ledger))
	seen := make(map[string]int, len(fromCSV)+len(ledger))

	add := func(p planogram.RemovedProduct, replace bool) bool {
		key := planogram.NormalizeUPC(p.UPC)
		at, dup := seen[key]
		if !dup {
			seen[key] = len(out)
			out = append(out, p)
			return true
		}
		kept := out[at]
		if replace {
			out[at] = p
			kept, p = p, kept
		}
		if kept.Name != p.Name {
			i.log.Warn().
				Str("layout", layoutID).
				Str("upc", key).
				Str("kept_name", kept.Name).
				Str("dropped_name", p.Name).
				Msg("removed products: duplicate UPC with different name")
		}
		return false
	}

	for _, p := range fromCSV {
		add(p, true)
	}
	added := 0
	for _, p := range ledger {
		if add(p, false) {
			added++
		}
	}
	if len(ledger) > 0 {
		i.log.Debug().
			Str("layout", layoutID).
			Int("ledger", len(ledger)).
			Int("ledger_added", added).
			Msg("removed products merged")
	}
	return out
}
