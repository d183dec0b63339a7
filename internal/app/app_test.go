package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	conf "github.com/bartek5186/pogdata/internal/config"
	"github.com/bartek5186/pogdata/internal/journal"
	"github.com/bartek5186/pogdata/internal/planogram"
)

func newApp(t *testing.T, dir string) *App {
	t.Helper()
	a, err := New(Options{ConfigPath: filepath.Join(dir, DefaultConfigPath), Console: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readLayout(t *testing.T, path string) planogram.Layout {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var l planogram.Layout
	require.NoError(t, json.Unmarshal(data, &l))
	return l
}

func countRuns(t *testing.T, a *App, job string, status int) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.Journal.DB.Model(&journal.Run{}).Where("job = ? AND status = ?", job, status).Count(&n).Error)
	return n
}

func TestNewCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	a := newApp(t, dir)

	assert.FileExists(t, filepath.Join(dir, DefaultConfigPath))
	assert.FileExists(t, filepath.Join(dir, "pogdata.db"))
	assert.Equal(t, filepath.Join(dir, "data", "pallet.json"), a.Output("pallet.json"))
	assert.Equal(t, "/abs/x.csv", a.Path("/abs/x.csv"))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 12; i++ {
		writeFile(t, filepath.Join(dir, "images", "00"+strconv.Itoa(1000+i)+".webp"), "")
	}
	writeFile(t, filepath.Join(dir, "images", "readme.txt"), "not an image")

	a := newApp(t, dir)
	require.NoError(t, a.Generate())

	data, err := os.ReadFile(a.Output("stores.json"))
	require.NoError(t, err)
	var stores planogram.StoreMap
	require.NoError(t, json.Unmarshal(data, &stores))
	assert.Len(t, stores, 125)
	assert.Equal(t, planogram.FixtureEndcap, stores["00021"])

	pallet := readLayout(t, a.Output("pallet.json"))
	assert.Equal(t, 170, pallet.TotalProducts)
	assert.Len(t, pallet.Products, 170)
	assert.NotNil(t, pallet.RemovedProducts)

	endcap := readLayout(t, a.Output("endcap.json"))
	assert.Equal(t, 115, endcap.TotalProducts)
	for _, p := range endcap.Products {
		assert.False(t, p.IsNew)
		assert.False(t, p.IsMove)
		assert.Empty(t, p.SRP)
	}

	assert.Equal(t, int64(2), countRuns(t, a, jobGenerate, journal.StatusDone))

	first, err := os.ReadFile(a.Output("pallet.json"))
	require.NoError(t, err)
	require.NoError(t, a.Generate())
	second, err := os.ReadFile(a.Output("pallet.json"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "same seed, same layout")
}

func TestGenerateWithoutImagesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))

	a := newApp(t, dir)
	err := a.Generate()
	require.ErrorIs(t, err, planogram.ErrNoImages)

	assert.NoFileExists(t, a.Output("stores.json"))
	assert.NoFileExists(t, a.Output("pallet.json"))
	assert.Equal(t, int64(2), countRuns(t, a, jobGenerate, journal.StatusError))
}

const palletText = `Planogram 185-SUNTAN 680
1 0012345000016 SPF 50 Sunblock 8 oz 7.25 in 2.5 in
Products Removed From Planogram
1 0081008487202 Old Spray SPF 30
Products Added
`

func seedInputs(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "csv", "products.csv"),
		"UPC,Description\n=\"0012345000016\",SPF 50 Sunblock\n0012345000023,Aloe Gel\n")
	writeFile(t, filepath.Join(dir, "csv", "Pallet Layout.csv"),
		"UPC,Product Name,New Flag,Delete Flag,POG Segment,Fixture,Position,FW,Move Flag,SRP\n"+
			"0012345000023,aloe,0,0,1,1,2,1,1,\n"+
			"=\"0012345000016\",sunblock,1,0,1,1,1,2,0,SRP\n"+
			"0081008487202,Old Spray,0,1,,,,,0,\n")
	writeFile(t, filepath.Join(dir, "csv", "Endcap Layout.csv"),
		"UPC,Product Name,New Flag,Delete Flag,POG Segment,Fixture,Position,FW\n"+
			"0012345000016,sunblock,1,0,1,1,1,\n")
	writeFile(t, filepath.Join(dir, "pdfs", "pallet.txt"), palletText)
	writeFile(t, filepath.Join(dir, "pdfs", "endcap.txt"), "nothing here\n")
}

func TestExtractThenProcess(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)
	a := newApp(t, dir)

	require.NoError(t, a.ExtractDimensions())
	assert.FileExists(t, filepath.Join(dir, "data", "dimensions.json"))
	assert.FileExists(t, filepath.Join(dir, "data", "removed-products.json"))

	require.NoError(t, a.ProcessCSV())

	pallet := readLayout(t, a.Output("pallet.json"))
	assert.Equal(t, "185-SUNTAN 680", pallet.PogNumber)
	require.Len(t, pallet.Products, 2)
	assert.Equal(t, 2, pallet.TotalProducts)

	first := pallet.Products[0]
	assert.Equal(t, "12345000016", first.UPC)
	assert.Equal(t, "SPF 50 Sunblock", first.Name)
	assert.Equal(t, 2, first.Facings)
	assert.True(t, first.IsNew)
	assert.Equal(t, "SRP", first.SRP)
	require.NotNil(t, first.WidthIn)
	require.NotNil(t, first.HeightIn)
	assert.Equal(t, 2.5, *first.WidthIn)
	assert.Equal(t, 7.25, *first.HeightIn)

	second := pallet.Products[1]
	assert.Equal(t, "Aloe Gel", second.Name)
	assert.True(t, second.IsMove)
	assert.Nil(t, second.WidthIn)

	require.Len(t, pallet.RemovedProducts, 1)
	assert.Equal(t, "81008487202", pallet.RemovedProducts[0].UPC)
	assert.Equal(t, "Old Spray", pallet.RemovedProducts[0].Name, "CSV entry wins over the ledger")

	endcap := readLayout(t, a.Output("endcap.json"))
	require.Len(t, endcap.Products, 1)
	assert.False(t, endcap.Products[0].IsNew, "endcap never shows new badges")
	assert.Equal(t, 1, endcap.Products[0].Facings)
	assert.Empty(t, endcap.RemovedProducts)

	assert.Equal(t, int64(2), countRuns(t, a, jobExtract, journal.StatusDone))
	assert.Equal(t, int64(2), countRuns(t, a, jobProcess, journal.StatusDone))

	var staged int64
	require.NoError(t, a.Journal.DB.Model(&journal.StagedProduct{}).Count(&staged).Error)
	assert.Equal(t, int64(4), staged)
}

func TestProcessFirstRunLogsNoLookupNoise(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)

	var console bytes.Buffer
	a, err := New(Options{ConfigPath: filepath.Join(dir, DefaultConfigPath), Console: &console})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.ProcessCSV())
	assert.Contains(t, console.String(), "layout written")
	assert.NotContains(t, console.String(), "record not found")
}

func TestProcessFailsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)
	writeFile(t, filepath.Join(dir, "csv", "Endcap Layout.csv"),
		"UPC,Product Name,New Flag,POG Segment,Fixture,Position,FW\n0012345000016,x,0,one,1,1,1\n")
	a := newApp(t, dir)

	err := a.ProcessCSV()
	require.ErrorIs(t, err, planogram.ErrMalformedRow)

	var rowErr *planogram.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "POG Segment", rowErr.Column)

	assert.NoFileExists(t, a.Output("pallet.json"), "no partial output")
	assert.Equal(t, int64(2), countRuns(t, a, jobProcess, journal.StatusError))
}

func TestProcessBeginFailureFailsEarlierRuns(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)
	a := newApp(t, dir)

	errJournal := errors.New("journal unavailable")
	require.NoError(t, a.Journal.DB.Callback().Create().Before("gorm:create").
		Register("test:fail_endcap_run", func(db *gorm.DB) {
			if r, ok := db.Statement.Dest.(*journal.Run); ok && r.Layout == planogram.FixtureEndcap {
				_ = db.AddError(errJournal)
			}
		}))

	err := a.ProcessCSV()
	require.ErrorIs(t, err, errJournal)

	assert.Equal(t, int64(1), countRuns(t, a, jobProcess, journal.StatusError), "pallet run begun before the failure")
	assert.Equal(t, int64(0), countRuns(t, a, jobProcess, journal.StatusPending))
	assert.NoFileExists(t, a.Output("pallet.json"))
}

func TestProcessMissingColumn(t *testing.T) {
	dir := t.TempDir()
	seedInputs(t, dir)
	writeFile(t, filepath.Join(dir, "csv", "Pallet Layout.csv"), "UPC,Product Name\n1,x\n")
	a := newApp(t, dir)

	err := a.ProcessCSV()
	require.ErrorIs(t, err, planogram.ErrMissingColumn)
}

func TestConfigPathsFollowConfigDir(t *testing.T) {
	dir := t.TempDir()
	cfg := conf.Default()
	cfg.DataDir = "out"
	cfg.Journal.Enabled = false
	require.NoError(t, conf.Save(filepath.Join(dir, DefaultConfigPath), cfg))

	a := newApp(t, dir)
	assert.Nil(t, a.Journal)
	assert.Equal(t, filepath.Join(dir, "out", "stores.json"), a.Output("stores.json"))
	assert.NoFileExists(t, filepath.Join(dir, "pogdata.db"))
}

func TestCommandRunsAction(t *testing.T) {
	dir := t.TempDir()
	called := false
	cmd := Command("noop", "test", func(a *App) error {
		called = true
		assert.NotNil(t, a.Cfg)
		return nil
	})
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "cfg.json")})
	require.NoError(t, cmd.Execute())
	assert.True(t, called)
	assert.FileExists(t, filepath.Join(dir, "cfg.json"))
}
