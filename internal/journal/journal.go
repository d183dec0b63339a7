package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bartek5186/pogdata/internal/planogram"
)

const batchSize = 500

// Begin rejestruje nowe uruchomienie (status=pending). Dla pliku źródłowego
// liczy sha256 i rozmiar; katalog albo brak pliku => puste pola.
// Na nil-handle zwraca lokalny Run bez zapisu.
func (h *Handle) Begin(job, layout, source string) (*Run, error) {
	run := &Run{
		RunID:  uuid.NewString(),
		Job:    job,
		Layout: layout,
		Source: source,
		Status: StatusPending,
	}
	if fi, err := os.Stat(source); err == nil && fi.Mode().IsRegular() {
		run.SizeBytes = fi.Size()
		if sum, err := fileSHA256(source); err == nil {
			run.SHA256 = sum
		}
	}
	if h == nil {
		return run, nil
	}
	if err := h.DB.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// PreviousDone – ostatnie udane uruchomienie joba dla layoutu (poza bieżącym).
func (h *Handle) PreviousDone(run *Run) (*Run, bool, error) {
	if h == nil || run == nil {
		return nil, false, nil
	}
	var prev Run
	// Find + Limit: brak poprzedniego uruchomienia to normalna sytuacja, nie błąd
	res := h.DB.
		Where("job = ? AND layout = ? AND status = ? AND run_id <> ?", run.Job, run.Layout, StatusDone, run.RunID).
		Order("finished_at DESC").
		Limit(1).
		Find(&prev)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return &prev, true, nil
}

// Unchanged – czy źródło ma ten sam sha256 co ostatnie udane uruchomienie.
func (h *Handle) Unchanged(run *Run) bool {
	if run == nil || run.SHA256 == "" {
		return false
	}
	prev, ok, err := h.PreviousDone(run)
	return err == nil && ok && prev.SHA256 == run.SHA256
}

// Stage zapisuje wiersze layoutu (aktywne + usunięte) w jednej transakcji.
func (h *Handle) Stage(run *Run, l planogram.Layout) error {
	if h == nil || run == nil {
		return nil
	}
	rows := make([]StagedProduct, 0, len(l.Products)+len(l.RemovedProducts))
	for _, p := range l.Products {
		rows = append(rows, StagedProduct{
			RunID:    run.RunID,
			Seq:      len(rows) + 1,
			LayoutID: l.ID,
			UPC:      p.UPC,
			Name:     p.Name,
			Segment:  p.Segment,
			Shelf:    p.Shelf,
			Position: p.Position,
			Facings:  p.Facings,
			IsNew:    p.IsNew,
			IsMove:   p.IsMove,
			SRP:      p.SRP,
			WidthIn:  p.WidthIn,
			HeightIn: p.HeightIn,
		})
	}
	for _, p := range l.RemovedProducts {
		rows = append(rows, StagedProduct{
			RunID:    run.RunID,
			Seq:      len(rows) + 1,
			LayoutID: l.ID,
			UPC:      p.UPC,
			Name:     p.Name,
			Removed:  true,
			WidthIn:  p.WidthIn,
			HeightIn: p.HeightIn,
		})
	}

	return h.DB.Transaction(func(tx *gorm.DB) error {
		// idempotentnie dla tego run_id
		if err := tx.Where("run_id = ?", run.RunID).Delete(&StagedProduct{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, batchSize).Error
	})
}

// Done: status=1, liczniki, finished_at=now
func (h *Handle) Done(run *Run, output string, products, removed int) error {
	if run == nil {
		return nil
	}
	now := time.Now()
	run.Status = StatusDone
	run.Output = output
	run.Products = products
	run.Removed = removed
	run.FinishedAt = &now
	if h == nil {
		return nil
	}
	return h.DB.Model(&Run{}).Where("run_id = ?", run.RunID).
		Updates(map[string]any{
			"status":      StatusDone,
			"output":      output,
			"products":    products,
			"removed":     removed,
			"finished_at": now,
		}).Error
}

// Fail: status=2 + treść błędu
func (h *Handle) Fail(run *Run, cause error) error {
	if run == nil || cause == nil {
		return nil
	}
	now := time.Now()
	run.Status = StatusError
	run.LastError = cause.Error()
	run.FinishedAt = &now
	if h == nil {
		return nil
	}
	return h.DB.Model(&Run{}).Where("run_id = ?", run.RunID).
		Updates(map[string]any{
			"status":      StatusError,
			"last_error":  cause.Error(),
			"finished_at": now,
		}).Error
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
