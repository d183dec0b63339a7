// internal/journal/models.go
package journal

import "time"

// statusy uruchomień
const (
	StatusPending = 0
	StatusDone    = 1
	StatusError   = 2
)

// runs
type Run struct {
	RunID      string `gorm:"primaryKey;column:run_id"`
	Job        string `gorm:"index"` // generate-data / process-csv / extract-dimensions
	Layout     string `gorm:"index"`
	Source     string
	SHA256     string `gorm:"index"`
	SizeBytes  int64
	Output     string
	Status     int `gorm:"index"` // 0=pending, 1=done, 2=error
	Products   int
	Removed    int
	LastError  string    `gorm:"type:text"`
	StartedAt  time.Time `gorm:"autoCreateTime"`
	FinishedAt *time.Time
}

// staged_products – wiersze layoutu z danego uruchomienia
type StagedProduct struct {
	RunID    string `gorm:"primaryKey"`
	Seq      int    `gorm:"primaryKey"`
	LayoutID string `gorm:"index"`
	UPC      string `gorm:"index"`
	Name     string
	Removed  bool
	Segment  int
	Shelf    int
	Position int
	Facings  int
	IsNew    bool
	IsMove   bool
	SRP      string
	WidthIn  *float64
	HeightIn *float64
}
