package importer

import (
	"fmt"
	"path/filepath"

	"github.com/bartek5186/pogdata/internal/jsonfile"
	"github.com/bartek5186/pogdata/internal/planogram"
)

// ImportAll buduje wszystkie layouty w pamięci; pierwszy błąd przerywa całość,
// więc nic nie zostanie zapisane.
func (i *Importer) ImportAll(sources []Source) ([]planogram.Layout, error) {
	out := make([]planogram.Layout, 0, len(sources))
	for _, src := range sources {
		l, err := i.ImportFile(src)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// WriteLayouts zapisuje <dir>/<id>.json dla każdego layoutu (atomowo, plik po pliku).
func WriteLayouts(dir string, layouts []planogram.Layout) ([]string, error) {
	paths := make([]string, 0, len(layouts))
	for _, l := range layouts {
		path := filepath.Join(dir, l.ID+".json")
		if err := jsonfile.WriteAtomic(path, l); err != nil {
			return paths, fmt.Errorf("write layout %s: %w", l.ID, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
