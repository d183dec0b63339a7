package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartek5186/pogdata/internal/planogram"
)

func TestLoadOrCreate(t *testing.T) {
	t.Run("creates default config on first run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "planogram.json")

		cfg, firstRun, err := LoadOrCreate(path)
		require.NoError(t, err)
		assert.True(t, firstRun)
		assert.FileExists(t, path)

		assert.Equal(t, "data", cfg.DataDir)
		assert.Equal(t, int64(42), cfg.Generator.Seed)
		assert.Equal(t, "images", cfg.Generator.ImagesDir)
		require.Len(t, cfg.Generator.Fixtures, 2)
		assert.Equal(t, []int{43, 43, 42, 42}, cfg.Generator.Fixtures[0].ItemsPerSide)
		assert.True(t, cfg.Generator.Fixtures[0].RandomBadges)
		assert.False(t, cfg.Generator.Fixtures[1].RandomBadges)
		assert.Equal(t, planogram.FixtureEndcap, cfg.Generator.StoreOverrides["00021"])

		require.Len(t, cfg.Importer.Sources, 2)
		endcap := cfg.Importer.Sources[1]
		assert.Equal(t, "csv/Endcap Layout.csv", endcap.Path)
		assert.False(t, endcap.AllowNewBadges)
		assert.Equal(t, "185-SUNTAN 150", endcap.Meta.PogNumber)
		assert.Len(t, endcap.Meta.Redirects, 3)
		assert.Equal(t, "0081011561524", endcap.Meta.Redirects["0081008487202"])
		assert.Len(t, cfg.Importer.Sources[0].Meta.Redirects, 4)

		assert.True(t, cfg.Journal.Enabled)
		assert.Equal(t, "sqlite", cfg.Journal.Driver)
	})

	t.Run("second run reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "planogram.json")
		_, _, err := LoadOrCreate(path)
		require.NoError(t, err)

		_, firstRun, err := LoadOrCreate(path)
		require.NoError(t, err)
		assert.False(t, firstRun)
	})
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planogram.json")
	require.NoError(t, Save(path, Default()))

	t.Setenv("PLANOGRAM_DATA_DIR", "out")
	t.Setenv("PLANOGRAM_GENERATOR_SEED", "7")
	t.Setenv("PLANOGRAM_JOURNAL_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.DataDir)
	assert.Equal(t, int64(7), cfg.Generator.Seed)
	assert.False(t, cfg.Journal.Enabled)
}

func TestLoadFillsMissingScalarsWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planogram.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"importer":{"sources":[]}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "csv/products.csv", cfg.Importer.Descriptions)
	assert.Equal(t, "pogdata.db", cfg.Journal.DSN)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero shelves",
			mutate: func(c *Config) { c.Generator.Fixtures[0].Meta.Shelves = 0 },
			want:   "shelves must be positive",
		},
		{
			name:   "quota for unknown fixture",
			mutate: func(c *Config) { c.Generator.Quotas[0].Fixture = "gondola" },
			want:   "unknown fixture",
		},
		{
			name:   "store override for unknown fixture",
			mutate: func(c *Config) { c.Generator.StoreOverrides["00001"] = "gondola" },
			want:   "store 00001",
		},
		{
			name:   "importer source without path",
			mutate: func(c *Config) { c.Importer.Sources[0].Path = "" },
			want:   "importer source needs layout id and path",
		},
		{
			name:   "unknown journal driver",
			mutate: func(c *Config) { c.Journal.Driver = "oracle" },
			want:   "journal driver",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			path := filepath.Join(t.TempDir(), "planogram.json")
			require.NoError(t, Save(path, cfg))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planogram.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planogram.json")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"data_dir\": \"data\"")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "generator")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "csv", "x.csv"), Resolve("base", "csv/x.csv"))
	assert.Equal(t, "/abs/x.csv", Resolve("base", "/abs/x.csv"))
	assert.Equal(t, "", Resolve("base", ""))
	assert.Equal(t, "x.csv", Resolve("", "x.csv"))
}
