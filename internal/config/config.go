// internal/config/config.go
package conf

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bartek5186/pogdata/internal/generator"
	"github.com/bartek5186/pogdata/internal/importer"
	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/jsonfile"
	"github.com/bartek5186/pogdata/internal/planogram"
	"github.com/bartek5186/pogdata/internal/pogtext"
)

// EnvPrefix – PLANOGRAM_DATA_DIR, PLANOGRAM_IMPORTER_DESCRIPTIONS itd.
const EnvPrefix = "PLANOGRAM"

// Główny config aplikacji
type Config struct {
	DataDir   string          `json:"data_dir" mapstructure:"data_dir"`
	LogFile   string          `json:"log_file" mapstructure:"log_file"` // "" = tylko konsola
	Generator GeneratorConfig `json:"generator" mapstructure:"generator"`
	Importer  ImporterConfig  `json:"importer" mapstructure:"importer"`
	Extractor ExtractorConfig `json:"extractor" mapstructure:"extractor"`
	Journal   journal.Config  `json:"journal" mapstructure:"journal"`
}

type GeneratorConfig struct {
	ImagesDir      string              `json:"images_dir" mapstructure:"images_dir"`
	Seed           int64               `json:"seed" mapstructure:"seed"`
	StoresFile     string              `json:"stores_file" mapstructure:"stores_file"`
	StoreOverrides map[string]string   `json:"store_overrides" mapstructure:"store_overrides"`
	Quotas         []generator.Quota   `json:"quotas" mapstructure:"quotas"`
	Fixtures       []generator.Fixture `json:"fixtures" mapstructure:"fixtures"`
}

type ImporterConfig struct {
	Descriptions         string            `json:"descriptions" mapstructure:"descriptions"`
	DescriptionsEncoding string            `json:"descriptions_encoding,omitempty" mapstructure:"descriptions_encoding"`
	Dimensions           string            `json:"dimensions" mapstructure:"dimensions"`
	Removed              string            `json:"removed" mapstructure:"removed"`
	Sources              []importer.Source `json:"sources" mapstructure:"sources"`
}

type ExtractorConfig struct {
	Sources []pogtext.Source `json:"sources" mapstructure:"sources"`
}

var palletRedirects = map[string]string{
	"0007214003517": "0007214003912",
	"0081008487202": "0081011561524",
	"0081008487122": "0081011561523",
	"0081008487384": "0081011561522",
}

var endcapRedirects = map[string]string{
	"0007214003517": "0007214003912",
	"0081008487202": "0081011561524",
	"0081008487122": "0081011561523",
}

func palletMeta() planogram.Meta {
	return planogram.Meta{
		ID:        planogram.FixturePallet,
		Name:      "4-Sided Pallet",
		Subtitle:  "HP 62IN SUNCARE 5 SHELF 1 PEG 4 SIDED PALLET",
		PogNumber: "185-SUNTAN 680",
		LiveDate:  "02-08-26",
		Sides:     4,
		Shelves:   5,
		Redirects: maps.Clone(palletRedirects),
	}
}

func endcapMeta() planogram.Meta {
	return planogram.Meta{
		ID:        planogram.FixtureEndcap,
		Name:      "4ft Endcap",
		Subtitle:  "FRED MEYER SUNCARE 6 SHELF ENDCAP SEASONAL",
		PogNumber: "185-SUNTAN 150",
		LiveDate:  "02-08-26",
		Sides:     1,
		Shelves:   6,
		Redirects: maps.Clone(endcapRedirects),
	}
}

// Default – konfiguracja zapisywana przy pierwszym uruchomieniu
func Default() *Config {
	return &Config{
		DataDir: "data",
		Generator: GeneratorConfig{
			ImagesDir:  "images",
			Seed:       42,
			StoresFile: "stores.json",
			StoreOverrides: map[string]string{
				"00005": planogram.FixturePallet,
				"00011": planogram.FixturePallet,
				"00021": planogram.FixtureEndcap,
			},
			Quotas: []generator.Quota{
				{Fixture: planogram.FixturePallet, Count: 109},
				{Fixture: planogram.FixtureEndcap, Count: 16},
			},
			Fixtures: []generator.Fixture{
				{Meta: palletMeta(), ItemsPerSide: []int{43, 43, 42, 42}, RandomBadges: true},
				{Meta: endcapMeta(), ItemsPerSide: []int{115}, RandomBadges: false},
			},
		},
		Importer: ImporterConfig{
			Descriptions: "csv/products.csv",
			Dimensions:   "data/dimensions.json",
			Removed:      "data/removed-products.json",
			Sources: []importer.Source{
				{Path: "csv/Pallet Layout.csv", AllowNewBadges: true, Meta: palletMeta()},
				{Path: "csv/Endcap Layout.csv", AllowNewBadges: false, Meta: endcapMeta()},
			},
		},
		Extractor: ExtractorConfig{
			Sources: []pogtext.Source{
				{LayoutID: planogram.FixturePallet, Path: "pdfs/pallet.txt"},
				{LayoutID: planogram.FixtureEndcap, Path: "pdfs/endcap.txt"},
			},
		},
		Journal: journal.Config{
			Enabled: true,
			Driver:  "sqlite",
			DSN:     "pogdata.db",
		},
	}
}

// LoadOrCreate: brak pliku => zapis domyślnego configa, potem Load.
func LoadOrCreate(path string) (*Config, bool, error) {
	firstRun := false
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("błąd otwierania configa: %w", err)
		}
		if err := Save(path, Default()); err != nil {
			return nil, false, fmt.Errorf("błąd zapisu domyślnego configa: %w", err)
		}
		firstRun = true
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, firstRun, nil
}

// Load czyta plik przez viper; zmienne PLANOGRAM_* nadpisują wartości skalarne.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("błąd parsowania configa: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save zapisuje config do pliku
func Save(path string, cfg *Config) error {
	return jsonfile.WriteAtomic(path, cfg)
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("generator.images_dir", d.Generator.ImagesDir)
	v.SetDefault("generator.seed", d.Generator.Seed)
	v.SetDefault("generator.stores_file", d.Generator.StoresFile)
	v.SetDefault("importer.descriptions", d.Importer.Descriptions)
	v.SetDefault("importer.descriptions_encoding", "")
	v.SetDefault("importer.dimensions", d.Importer.Dimensions)
	v.SetDefault("importer.removed", d.Importer.Removed)
	v.SetDefault("journal.enabled", d.Journal.Enabled)
	v.SetDefault("journal.driver", d.Journal.Driver)
	v.SetDefault("journal.dsn", d.Journal.DSN)
}

func validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return errors.New("data_dir is required")
	}
	for _, fx := range cfg.Generator.Fixtures {
		if fx.Meta.ID == "" {
			return errors.New("generator fixture without layout id")
		}
		if fx.Meta.Shelves <= 0 {
			return fmt.Errorf("generator fixture %s: shelves must be positive", fx.Meta.ID)
		}
	}
	for _, q := range cfg.Generator.Quotas {
		if q.Count < 0 {
			return fmt.Errorf("quota for %s must not be negative", q.Fixture)
		}
		if _, err := cfg.Generator.Fixture(q.Fixture); err != nil {
			return fmt.Errorf("quota: %w", err)
		}
	}
	for store, fx := range cfg.Generator.StoreOverrides {
		if _, err := cfg.Generator.Fixture(fx); err != nil {
			return fmt.Errorf("store %s: %w", store, err)
		}
	}
	for _, src := range cfg.Importer.Sources {
		if src.Meta.ID == "" || src.Path == "" {
			return errors.New("importer source needs layout id and path")
		}
	}
	if cfg.Journal.Enabled {
		switch strings.ToLower(cfg.Journal.Driver) {
		case "", "sqlite", "mysql", "postgres", "postgresql":
		default:
			return fmt.Errorf("journal driver must be sqlite, mysql or postgres, got: %s", cfg.Journal.Driver)
		}
	}
	return nil
}

// Fixture zwraca ustawienia generatora dla layoutu.
func (g GeneratorConfig) Fixture(id string) (generator.Fixture, error) {
	for _, fx := range g.Fixtures {
		if fx.Meta.ID == id {
			return fx, nil
		}
	}
	return generator.Fixture{}, fmt.Errorf("%w: %s", planogram.ErrUnknownFixture, id)
}

// Resolve – ścieżka względna liczona od katalogu bazowego.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}
