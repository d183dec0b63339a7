package planogram

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a numeric field cannot be parsed
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyUPC is returned when a row has no usable UPC
	ErrEmptyUPC = errors.New("empty UPC")

	// ErrNoImages is returned when the image directory has no product images
	ErrNoImages = errors.New("no product images found")

	// ErrUnknownFixture is returned for a fixture id missing from the configuration
	ErrUnknownFixture = errors.New("unknown fixture")
)

// RowError wskazuje plik, numer rekordu (nagłówek = 1) i kolumnę.
type RowError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: row %d: column %q: %v", e.File, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: row %d: %v", e.File, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
