package app

import (
	"time"

	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/pogtext"
)

const jobExtract = "extract-dimensions"

// ExtractDimensions: zrzuty tekstu planogramów -> dimensions.json + removed-products.json
// (pliki, z których potem korzysta ProcessCSV).
func (a *App) ExtractDimensions() (err error) {
	sources := make([]pogtext.Source, 0, len(a.Cfg.Extractor.Sources))
	runs := make([]*journal.Run, 0, len(a.Cfg.Extractor.Sources))
	// także runy rozpoczęte przed błędem Begin
	defer func() {
		if err != nil {
			a.failAll(runs, err)
		}
	}()
	for _, src := range a.Cfg.Extractor.Sources {
		src.Path = a.Path(src.Path)
		sources = append(sources, src)

		run, err := a.Journal.Begin(jobExtract, src.LayoutID, src.Path)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	out, err := pogtext.ExtractAll(a.Log, sources, time.Now())
	if err != nil {
		return err
	}

	dimsPath := a.Path(a.Cfg.Importer.Dimensions)
	removedPath := a.Path(a.Cfg.Importer.Removed)
	if err := out.Write(dimsPath, removedPath); err != nil {
		return err
	}

	for n, src := range sources {
		if err := a.Journal.Done(runs[n], dimsPath, 0, len(out.Removed[src.LayoutID])); err != nil {
			a.Log.Error().Err(err).Msg("journal: done update")
		}
	}
	if len(out.Conflicts) > 0 {
		a.Log.Warn().Int("conflicts", len(out.Conflicts)).Msg("Dimension conflicts found")
	}
	a.Log.Info().Int("dimensions", len(out.Dimensions.Dimensions)).Str("file", dimsPath).Msg("dimensions saved")
	a.Log.Info().Str("file", removedPath).Msg("removed items saved")
	return nil
}
