package journal

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config – dziennik uruchomień; domyślnie lokalny plik sqlite
type Config struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"` // sqlite | mysql | postgres
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

type Handle struct {
	DB   *gorm.DB
	Path string
}

// gormWriter przekierowuje logi gorma do zerologa (konsola + plik aplikacji)
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger(log zerolog.Logger) logger.Interface {
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Open otwiera bazę dziennika. Względny DSN sqlite liczony od baseDir.
func Open(cfg Config, baseDir string, log zerolog.Logger) (*Handle, error) {
	dialector, path, err := dialectorFor(cfg, baseDir)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("journal open (%s): %w", cfg.Driver, err)
	}
	return &Handle{DB: gdb, Path: path}, nil
}

func dialectorFor(cfg Config, baseDir string) (gorm.Dialector, string, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "pogdata.db"
		}
		if !filepath.IsAbs(dsn) && !strings.HasPrefix(dsn, "file:") {
			dsn = filepath.Join(baseDir, dsn)
		}
		return sqlite.Open(dsn), dsn, nil
	case "mysql":
		return mysql.Open(cfg.DSN), "mysql", nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), "postgres", nil
	default:
		return nil, "", fmt.Errorf("journal: unsupported driver %q", cfg.Driver)
	}
}

// Close zamyka pulę połączeń; nil-safe.
func (h *Handle) Close() error {
	if h == nil || h.DB == nil {
		return nil
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
