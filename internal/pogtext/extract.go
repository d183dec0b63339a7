package pogtext

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bartek5186/pogdata/internal/jsonfile"
	"github.com/bartek5186/pogdata/internal/planogram"
)

// Source – zrzut tekstu planogramu dla danego layoutu
type Source struct {
	LayoutID string `json:"layout_id" mapstructure:"layout_id"`
	Path     string `json:"path" mapstructure:"path"`
}

// DimensionsFile – format dimensions.json
type DimensionsFile struct {
	GeneratedAt string                          `json:"generatedAt"`
	Dimensions  map[string]planogram.Dimensions `json:"dimensions"`
}

// Output – złączone wyniki wszystkich źródeł
type Output struct {
	Dimensions DimensionsFile
	Removed    map[string][]planogram.RemovedProduct
	Conflicts  []Conflict
}

// ExtractAll – kolejne źródła nadpisują wymiary wcześniejszych (jak Object.assign),
// ledger usuniętych trzymany osobno per layout.
func ExtractAll(log zerolog.Logger, sources []Source, now time.Time) (Output, error) {
	out := Output{
		Dimensions: DimensionsFile{
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Dimensions:  map[string]planogram.Dimensions{},
		},
		Removed: map[string][]planogram.RemovedProduct{},
	}

	for _, src := range sources {
		f, err := os.Open(src.Path)
		if err != nil {
			return Output{}, fmt.Errorf("extract %s: %w", src.LayoutID, err)
		}
		res, err := Parse(f)
		f.Close()
		if err != nil {
			return Output{}, fmt.Errorf("extract %s: %s: %w", src.LayoutID, src.Path, err)
		}

		for upc, d := range res.Dimensions {
			out.Dimensions.Dimensions[upc] = d
		}
		removed := res.Removed
		if removed == nil {
			removed = []planogram.RemovedProduct{}
		}
		out.Removed[src.LayoutID] = removed
		out.Conflicts = append(out.Conflicts, res.Conflicts...)

		log.Info().
			Str("layout", src.LayoutID).
			Str("file", src.Path).
			Int("dimensions", len(res.Dimensions)).
			Int("removed", len(res.Removed)).
			Int("conflicts", len(res.Conflicts)).
			Msg("extract: source parsed")
	}

	for _, c := range out.Conflicts {
		log.Warn().
			Str("upc", c.UPC).
			Float64("height_in", c.Existing.HeightIn).
			Float64("width_in", c.Existing.WidthIn).
			Float64("next_height_in", c.Next.HeightIn).
			Float64("next_width_in", c.Next.WidthIn).
			Msg("extract: dimension conflict, keeping first")
	}
	return out, nil
}

// Write zapisuje oba pliki; oba są budowane zanim cokolwiek trafi na dysk.
func (o Output) Write(dimensionsPath, removedPath string) error {
	if err := jsonfile.WriteAtomic(dimensionsPath, o.Dimensions); err != nil {
		return err
	}
	return jsonfile.WriteAtomic(removedPath, o.Removed)
}
