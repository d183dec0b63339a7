package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options – gdzie i jak logować
type Options struct {
	File    string    // "" = bez pliku
	Console io.Writer // nil = bez konsoli
	Verbose bool      // debug zamiast info
}

func New(opt Options) (zerolog.Logger, error) {
	// Format czasu
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	if opt.File != "" {
		_ = os.MkdirAll(filepath.Dir(opt.File), 0o755)
		// Utwórz plik logów (append + tworzenie jeśli brak)
		logFile, err := os.OpenFile(opt.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("nie można otworzyć pliku log: %w", err)
		}
		writers = append(writers, logFile)
	}
	if opt.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opt.Console,
			TimeFormat: time.RFC3339,
		})
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	level := zerolog.InfoLevel
	if opt.Verbose {
		level = zerolog.DebugLevel
	}

	// Logger z timestampem i info o miejscu wywołania
	logger := zerolog.New(writer).Level(level).With().
		Timestamp().
		Caller().
		Logger()

	// Ustaw globalny logger
	log.Logger = logger

	return logger, nil
}
