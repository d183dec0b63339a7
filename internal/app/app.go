// internal/app/app.go
package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	conf "github.com/bartek5186/pogdata/internal/config"
	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/logs"
)

// DefaultConfigPath – config obok miejsca uruchomienia, jak skrypty
const DefaultConfigPath = "planogram.json"

type Options struct {
	ConfigPath string
	Verbose    bool
	Console    io.Writer // nil = os.Stdout
}

// App – wspólny start dla wszystkich komend: config, logger, dziennik.
type App struct {
	Log     zerolog.Logger
	Cfg     *conf.Config
	CfgPath string
	BaseDir string // ścieżki z configa są względem katalogu configa
	Journal *journal.Handle
}

func New(opt Options) (*App, error) {
	cfgPath := opt.ConfigPath
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
	}
	cfg, firstRun, err := conf.LoadOrCreate(cfgPath)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(cfgPath)

	console := opt.Console
	if console == nil {
		console = os.Stdout
	}
	log, err := logs.New(logs.Options{
		File:    conf.Resolve(base, cfg.LogFile),
		Console: console,
		Verbose: opt.Verbose,
	})
	if err != nil {
		return nil, err
	}
	if firstRun {
		log.Info().Msgf("Utworzono domyślną konfigurację: %s", cfgPath)
	}

	a := &App{Log: log, Cfg: cfg, CfgPath: cfgPath, BaseDir: base}

	if cfg.Journal.Enabled {
		h, err := journal.Open(cfg.Journal, base, log)
		if err != nil {
			return nil, err
		}
		if err := h.Migrate(); err != nil {
			_ = h.Close()
			return nil, err
		}
		a.Journal = h
		log.Debug().Str("journal", h.Path).Msg("journal ready")
	}
	return a, nil
}

// Path – ścieżka z configa względem katalogu configa
func (a *App) Path(p string) string {
	return conf.Resolve(a.BaseDir, p)
}

// Output – plik wynikowy w data_dir
func (a *App) Output(name string) string {
	return filepath.Join(a.Path(a.Cfg.DataDir), name)
}

func (a *App) Close() error {
	return a.Journal.Close()
}

// failAll oznacza wszystkie rozpoczęte uruchomienia jako błędne.
func (a *App) failAll(runs []*journal.Run, cause error) {
	for _, r := range runs {
		if err := a.Journal.Fail(r, cause); err != nil {
			a.Log.Error().Err(err).Str("run_id", r.RunID).Msg("journal: fail update")
		}
	}
}
