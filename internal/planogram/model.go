// internal/planogram/model.go
package planogram

// Typ regału, na który trafia sklep
const (
	FixturePallet = "pallet"
	FixtureEndcap = "endcap"
)

// Product – pojedyncza pozycja na półce
type Product struct {
	UPC      string   `json:"upc"`
	Name     string   `json:"name"`
	WidthIn  *float64 `json:"widthIn,omitempty"`
	HeightIn *float64 `json:"heightIn,omitempty"`
	Segment  int      `json:"segment"`
	Shelf    int      `json:"shelf"`
	Position int      `json:"position"`
	Facings  int      `json:"facings"`
	IsNew    bool     `json:"isNew"`
	IsMove   bool     `json:"isMove"`
	IsChange bool     `json:"isChange"`
	SRP      string   `json:"srp"`
}

// RemovedProduct – produkt zdjęty z planogramu (bez miejsca na półce)
type RemovedProduct struct {
	UPC      string   `json:"upc"`
	Name     string   `json:"name"`
	WidthIn  *float64 `json:"widthIn,omitempty"`
	HeightIn *float64 `json:"heightIn,omitempty"`
}

// Dimensions – wymiary fizyczne w calach
type Dimensions struct {
	WidthIn  float64 `json:"widthIn"`
	HeightIn float64 `json:"heightIn"`
}

// Size – wpis z dimensions.json; brakujący klucz zostaje nil
type Size struct {
	WidthIn  *float64 `json:"widthIn,omitempty"`
	HeightIn *float64 `json:"heightIn,omitempty"`
}

// Known – czy znamy choć jeden wymiar
func (s Size) Known() bool { return s.WidthIn != nil || s.HeightIn != nil }

// SizeOf – pełne wymiary jako Size
func SizeOf(d Dimensions) Size {
	w, h := d.WidthIn, d.HeightIn
	return Size{WidthIn: &w, HeightIn: &h}
}

// Layout – plik pallet.json / endcap.json
type Layout struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Subtitle        string            `json:"subtitle"`
	PogNumber       string            `json:"pogNumber"`
	LiveDate        string            `json:"liveDate"`
	Sides           int               `json:"sides"`
	Shelves         int               `json:"shelves"`
	TotalProducts   int               `json:"totalProducts"`
	UPCRedirects    map[string]string `json:"upcRedirects"`
	RemovedProducts []RemovedProduct  `json:"removedProducts"`
	Products        []Product         `json:"products"`
}

// Meta – statyczne dane nagłówka layoutu (z configa)
type Meta struct {
	ID        string            `json:"id" mapstructure:"id"`
	Name      string            `json:"name" mapstructure:"name"`
	Subtitle  string            `json:"subtitle" mapstructure:"subtitle"`
	PogNumber string            `json:"pog_number" mapstructure:"pog_number"`
	LiveDate  string            `json:"live_date" mapstructure:"live_date"`
	Sides     int               `json:"sides" mapstructure:"sides"`
	Shelves   int               `json:"shelves" mapstructure:"shelves"`
	Redirects map[string]string `json:"upc_redirects" mapstructure:"upc_redirects"`
}

// StoreMap: numer sklepu (5 cyfr) -> typ regału
type StoreMap map[string]string

// NewLayout składa layout z nagłówka i list produktów; totalProducts = len(products).
func NewLayout(m Meta, products []Product, removed []RemovedProduct) Layout {
	if products == nil {
		products = []Product{}
	}
	if removed == nil {
		removed = []RemovedProduct{}
	}
	redirects := make(map[string]string, len(m.Redirects))
	for k, v := range m.Redirects {
		redirects[k] = v
	}
	return Layout{
		ID:              m.ID,
		Name:            m.Name,
		Subtitle:        m.Subtitle,
		PogNumber:       m.PogNumber,
		LiveDate:        m.LiveDate,
		Sides:           m.Sides,
		Shelves:         m.Shelves,
		TotalProducts:   len(products),
		UPCRedirects:    redirects,
		RemovedProducts: removed,
		Products:        products,
	}
}

// Less – kanoniczna kolejność renderowania (segment, półka, pozycja)
func Less(a, b Product) bool {
	if a.Segment != b.Segment {
		return a.Segment < b.Segment
	}
	if a.Shelf != b.Shelf {
		return a.Shelf < b.Shelf
	}
	return a.Position < b.Position
}

// Compare zwraca -1/0/1 dla slices.SortStableFunc.
func Compare(a, b Product) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}
