package app

import (
	"github.com/bartek5186/pogdata/internal/importer"
	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/lookup"
)

const jobProcess = "process-csv"

// ProcessCSV: eksporty CSV/XLSX + słowniki -> pallet.json, endcap.json, ...
// Każdy layout jest budowany przed zapisem pierwszego pliku.
func (a *App) ProcessCSV() (err error) {
	ic := a.Cfg.Importer

	sources := make([]importer.Source, 0, len(ic.Sources))
	runs := make([]*journal.Run, 0, len(ic.Sources))
	// także runy rozpoczęte przed błędem Begin
	defer func() {
		if err != nil {
			a.failAll(runs, err)
		}
	}()
	for _, src := range ic.Sources {
		src.Path = a.Path(src.Path)
		sources = append(sources, src)

		run, err := a.Journal.Begin(jobProcess, src.Meta.ID, src.Path)
		if err != nil {
			return err
		}
		runs = append(runs, run)
		if a.Journal.Unchanged(run) {
			a.Log.Info().Str("layout", src.Meta.ID).Str("sha256", run.SHA256).Msg("source unchanged since last run, rewriting anyway")
		}
	}

	tables, err := lookup.Load(lookup.Paths{
		Descriptions:         a.Path(ic.Descriptions),
		DescriptionsEncoding: ic.DescriptionsEncoding,
		Dimensions:           a.Path(ic.Dimensions),
		Removed:              a.Path(ic.Removed),
	})
	if err != nil {
		return err
	}
	nd, ndims, nled := tables.Stats()
	a.Log.Info().Int("descriptions", nd).Int("dimensions", ndims).Int("removed_ledgers", nled).Msg("lookups loaded")

	imp := importer.New(a.Log, tables)
	layouts, err := imp.ImportAll(sources)
	if err != nil {
		return err
	}

	paths, err := importer.WriteLayouts(a.Path(a.Cfg.DataDir), layouts)
	if err != nil {
		return err
	}

	for n, l := range layouts {
		if err := a.Journal.Stage(runs[n], l); err != nil {
			a.Log.Error().Err(err).Str("layout", l.ID).Msg("journal: staging failed")
		}
		if err := a.Journal.Done(runs[n], paths[n], l.TotalProducts, len(l.RemovedProducts)); err != nil {
			a.Log.Error().Err(err).Msg("journal: done update")
		}
		a.Log.Info().
			Str("file", paths[n]).
			Str("run_id", runs[n].RunID).
			Int("products", l.TotalProducts).
			Int("removed", len(l.RemovedProducts)).
			Msg("layout written")
	}
	a.Log.Info().Int("layouts", len(layouts)).Msg("Data generation complete.")
	return nil
}
