package journal

import (
	"fmt"
)

// Migrate tworzy/aktualizuje schemat dziennika.
func (h *Handle) Migrate() error {
	if h == nil {
		return nil
	}
	if err := h.DB.AutoMigrate(
		&Run{},
		&StagedProduct{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
