// internal/generator/generator.go
package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bartek5186/pogdata/internal/planogram"
)

// Fixture – kształt sztucznego layoutu
type Fixture struct {
	Meta         planogram.Meta `json:"layout" mapstructure:"layout"`
	ItemsPerSide []int          `json:"items_per_side" mapstructure:"items_per_side"`
	// losowe odznaki new/move/SRP; endcap ma je zawsze wyłączone
	RandomBadges bool `json:"random_badges" mapstructure:"random_badges"`
}

// Total – liczba produktów na całym regale
func (f Fixture) Total() int {
	n := 0
	for _, c := range f.ItemsPerSide {
		n += c
	}
	return n
}

// Quota – ile sklepów ma dostać dany typ
type Quota struct {
	Fixture string `json:"fixture" mapstructure:"fixture"`
	Count   int    `json:"count" mapstructure:"count"`
}

type Generator struct {
	log zerolog.Logger
	rng *rand.Rand
}

// New – rng przekazywany z zewnątrz (stały seed => powtarzalny wynik)
func New(log zerolog.Logger, rng *rand.Rand) *Generator {
	return &Generator{log: log, rng: rng}
}

// ScanImages zwraca UPC z nazw plików .webp (bez rozszerzenia), w kolejności os.ReadDir.
func ScanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	var upcs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".webp") {
			continue
		}
		upcs = append(upcs, strings.TrimSuffix(name, ext))
	}
	if len(upcs) == 0 {
		return nil, fmt.Errorf("images: %s: %w", dir, planogram.ErrNoImages)
	}
	return upcs, nil
}

// Stores: najpierw stałe przypisania, potem kolejne numery 00001, 00002, ...
// aż do wypełnienia limitów (w kolejności quotas). Zajęte numery są pomijane.
func Stores(overrides map[string]string, quotas []Quota) planogram.StoreMap {
	stores := make(planogram.StoreMap, len(overrides))
	counts := map[string]int{}
	for id, fx := range overrides {
		stores[id] = fx
		counts[fx]++
	}

	pending := func() bool {
		for _, q := range quotas {
			if counts[q.Fixture] < q.Count {
				return true
			}
		}
		return false
	}

	for num := 1; pending(); num++ {
		id := fmt.Sprintf("%05d", num)
		if _, taken := stores[id]; taken {
			continue
		}
		for _, q := range quotas {
			if counts[q.Fixture] < q.Count {
				stores[id] = q.Fixture
				counts[q.Fixture]++
				break
			}
		}
	}
	return stores
}

// Shuffle miesza pulę UPC raz, deterministycznie dla danego rng.
func (g *Generator) Shuffle(upcs []string) []string {
	pool := append([]string(nil), upcs...)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// Products rozkłada produkty na boki i półki: na każdym boku round-robin po
// półkach, pozycje 1..n osobno na każdej półce. Pula jest zapętlana.
func (g *Generator) Products(fx Fixture, pool []string) ([]planogram.Product, error) {
	if len(pool) == 0 {
		return nil, planogram.ErrNoImages
	}
	shelves := fx.Meta.Shelves
	if shelves <= 0 {
		return nil, fmt.Errorf("fixture %s: shelves must be positive, got %d", fx.Meta.ID, shelves)
	}

	out := make([]planogram.Product, 0, fx.Total())
	idx := 0
	for side, count := range fx.ItemsPerSide {
		perShelf := make([]int, shelves)
		for k := 0; k < count; k++ {
			perShelf[k%shelves]++
		}

		for s, n := range perShelf {
			for pos := 1; pos <= n; pos++ {
				upc := pool[idx%len(pool)]
				idx++

				p := planogram.Product{
					UPC:      upc,
					Name:     "Suncare Product " + upc,
					Segment:  side + 1,
					Shelf:    s + 1,
					Position: pos,
					Facings:  1,
				}
				if fx.RandomBadges {
					p.IsNew = g.rng.Intn(2) == 1
					p.IsMove = g.rng.Intn(2) == 1
					if g.rng.Float64() > 0.8 && g.rng.Intn(2) == 0 {
						p.SRP = "SRP"
					}
				}
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// Layout – pełny sztuczny layout dla regału
func (g *Generator) Layout(fx Fixture, pool []string) (planogram.Layout, error) {
	products, err := g.Products(fx, pool)
	if err != nil {
		return planogram.Layout{}, err
	}
	if fx.Meta.Sides != len(fx.ItemsPerSide) {
		g.log.Warn().
			Str("layout", fx.Meta.ID).
			Int("sides", fx.Meta.Sides).
			Int("items_per_side", len(fx.ItemsPerSide)).
			Msg("generator: sides differ from items_per_side entries")
	}
	l := planogram.NewLayout(fx.Meta, products, nil)
	g.log.Info().
		Str("layout", l.ID).
		Int("products", l.TotalProducts).
		Int("pool", len(pool)).
		Msg("generator: layout built")
	return l, nil
}
