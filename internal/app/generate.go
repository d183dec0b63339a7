package app

import (
	"math/rand"

	"github.com/bartek5186/pogdata/internal/generator"
	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/jsonfile"
	"github.com/bartek5186/pogdata/internal/planogram"
)

const jobGenerate = "generate-data"

// Generate: obrazki -> stores.json + sztuczne layouty. Zapis dopiero gdy wszystko gotowe.
func (a *App) Generate() (err error) {
	gc := a.Cfg.Generator
	imagesDir := a.Path(gc.ImagesDir)

	runs := make([]*journal.Run, 0, len(gc.Fixtures))
	// także runy rozpoczęte przed błędem Begin
	defer func() {
		if err != nil {
			a.failAll(runs, err)
		}
	}()
	for _, fx := range gc.Fixtures {
		run, err := a.Journal.Begin(jobGenerate, fx.Meta.ID, imagesDir)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	upcs, err := generator.ScanImages(imagesDir)
	if err != nil {
		return err
	}
	a.Log.Info().Str("dir", imagesDir).Int("images", len(upcs)).Int64("seed", gc.Seed).Msg("generator: images scanned")

	gen := generator.New(a.Log, rand.New(rand.NewSource(gc.Seed)))
	pool := gen.Shuffle(upcs)

	stores := generator.Stores(gc.StoreOverrides, gc.Quotas)

	layouts := make([]planogram.Layout, 0, len(gc.Fixtures))
	for _, fx := range gc.Fixtures {
		l, err := gen.Layout(fx, pool)
		if err != nil {
			return err
		}
		layouts = append(layouts, l)
	}

	storesPath := a.Output(gc.StoresFile)
	if err := jsonfile.WriteAtomic(storesPath, stores); err != nil {
		return err
	}
	a.Log.Info().Str("file", storesPath).Int("stores", len(stores)).Msg("stores written")

	for n, l := range layouts {
		path := a.Output(l.ID + ".json")
		if err := jsonfile.WriteAtomic(path, l); err != nil {
			return err
		}
		if err := a.Journal.Done(runs[n], path, l.TotalProducts, 0); err != nil {
			a.Log.Error().Err(err).Msg("journal: done update")
		}
		a.Log.Info().Str("file", path).Str("run_id", runs[n].RunID).Int("products", l.TotalProducts).Msg("layout written")
	}
	return nil
}
