// internal/lookup/lookup.go
package lookup

import (
	"fmt"
	"strings"

	"github.com/bartek5186/pogdata/internal/jsonfile"
	"github.com/bartek5186/pogdata/internal/planogram"
	"github.com/bartek5186/pogdata/internal/tabular"
)

// Tables – słowniki budowane raz na starcie, potem tylko do odczytu.
// Klucze to znormalizowane UPC (bez zer wiodących).
type Tables struct {
	descriptions map[string]string
	dimensions   map[string]planogram.Size
	removed      map[string][]planogram.RemovedProduct
}

// New buduje tabele z gotowych map (testy, inne źródła). Klucze są normalizowane.
func New(desc map[string]string, dims map[string]planogram.Dimensions, removed map[string][]planogram.RemovedProduct) *Tables {
	t := &Tables{
		descriptions: make(map[string]string, len(desc)),
		dimensions:   make(map[string]planogram.Size, len(dims)),
		removed:      make(map[string][]planogram.RemovedProduct, len(removed)),
	}
	for k, v := range desc {
		t.descriptions[planogram.NormalizeUPC(k)] = v
	}
	for k, v := range dims {
		t.dimensions[planogram.NormalizeUPC(k)] = planogram.SizeOf(v)
	}
	for id, list := range removed {
		t.removed[id] = append([]planogram.RemovedProduct(nil), list...)
	}
	return t
}

// Description – opis produktu z products.csv
func (t *Tables) Description(upc string) (string, bool) {
	if t == nil {
		return "", false
	}
	d, ok := t.descriptions[planogram.NormalizeUPC(upc)]
	return d, ok
}

// Dimensions – wymiary z dimensions.json; nieznany wymiar = nil.
// Zwraca świeże wskaźniki, wywołujący może je trzymać w produkcie.
func (t *Tables) Dimensions(upc string) (planogram.Size, bool) {
	if t == nil {
		return planogram.Size{}, false
	}
	d, ok := t.dimensions[planogram.NormalizeUPC(upc)]
	if !ok || !d.Known() {
		return planogram.Size{}, false
	}
	return planogram.Size{WidthIn: copyFloat(d.WidthIn), HeightIn: copyFloat(d.HeightIn)}, true
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Removed – ledger produktów usuniętych dla danego layoutu (kopia)
func (t *Tables) Removed(layoutID string) []planogram.RemovedProduct {
	if t == nil {
		return nil
	}
	return append([]planogram.RemovedProduct(nil), t.removed[layoutID]...)
}

// Stats – do logów
func (t *Tables) Stats() (descriptions, dimensions, ledgers int) {
	if t == nil {
		return 0, 0, 0
	}
	return len(t.descriptions), len(t.dimensions), len(t.removed)
}

// Paths – skąd czytać słowniki
type Paths struct {
	Descriptions         string
	DescriptionsEncoding string
	Dimensions           string // opcjonalny
	Removed              string // opcjonalny
}

// Load wczytuje wszystkie słowniki. products.csv jest wymagany (o ile ścieżka
// podana), dimensions.json i removed-products.json są opcjonalne.
func Load(p Paths) (*Tables, error) {
	var (
		desc map[string]string
		err  error
	)
	if p.Descriptions != "" {
		desc, err = LoadDescriptions(p.Descriptions, p.DescriptionsEncoding)
		if err != nil {
			return nil, err
		}
	}
	dims, err := LoadDimensions(p.Dimensions)
	if err != nil {
		return nil, err
	}
	removed, err := LoadRemoved(p.Removed)
	if err != nil {
		return nil, err
	}
	return &Tables{descriptions: desc, dimensions: dims, removed: removed}, nil
}

// LoadDescriptions czyta CSV z kolumnami UPC, Description.
func LoadDescriptions(path, encoding string) (map[string]string, error) {
	tbl, err := tabular.Read(path, tabular.Options{Encoding: encoding})
	if err != nil {
		return nil, fmt.Errorf("descriptions: %w", err)
	}
	if missing := tbl.Missing("UPC", "Description"); len(missing) > 0 {
		return nil, fmt.Errorf("descriptions: %s: %w: %s", path, planogram.ErrMissingColumn, strings.Join(missing, ", "))
	}

	out := make(map[string]string, len(tbl.Rows))
	for _, row := range tbl.Rows {
		raw, _ := tbl.Get(row, "UPC")
		upc := planogram.NormalizeUPC(raw)
		if upc == "" {
			continue
		}
		d, _ := tbl.Get(row, "Description")
		out[upc] = strings.TrimSpace(d)
	}
	return out, nil
}

type dimensionsFile struct {
	GeneratedAt string                          `json:"generatedAt,omitempty"`
	Dimensions  map[string]planogram.Size `json:"dimensions"`
}

// LoadDimensions czyta {dimensions: {upc: {widthIn, heightIn}}}; brak pliku = pusta mapa.
// Każdy z kluczy może nie wystąpić (albo być null).
func LoadDimensions(path string) (map[string]planogram.Size, error) {
	out := map[string]planogram.Size{}
	if path == "" {
		return out, nil
	}
	var f dimensionsFile
	if _, err := jsonfile.ReadOptional(path, &f); err != nil {
		return nil, fmt.Errorf("dimensions: %w", err)
	}
	for k, v := range f.Dimensions {
		out[planogram.NormalizeUPC(k)] = v
	}
	return out, nil
}

// LoadRemoved czyta {layoutId: [{upc, name}]}; brak pliku = pusta mapa.
func LoadRemoved(path string) (map[string][]planogram.RemovedProduct, error) {
	out := map[string][]planogram.RemovedProduct{}
	if path == "" {
		return out, nil
	}
	if _, err := jsonfile.ReadOptional(path, &out); err != nil {
		return nil, fmt.Errorf("removed products: %w", err)
	}
	return out, nil
}
