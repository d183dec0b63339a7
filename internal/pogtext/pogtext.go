// internal/pogtext/pogtext.go
package pogtext

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bartek5186/pogdata/internal/planogram"
)

var (
	reUPC     = regexp.MustCompile(`\b\d{11,14}\b`)
	reInches  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+in\b`)
	reRemoved = regexp.MustCompile(`^\s*\d+\s+(\d{11,14})\s+(.+)$`)
)

const (
	removedStart = "Products Removed From Planogram"
	tolerance    = 0.01
)

// Conflict – ten sam UPC z innymi wymiarami w kolejnej linii
type Conflict struct {
	UPC      string               `json:"upc"`
	Existing planogram.Dimensions `json:"existing"`
	Next     planogram.Dimensions `json:"next"`
	Line     string               `json:"line"`
}

// Result – wynik jednego zrzutu tekstowego planogramu
type Result struct {
	Dimensions map[string]planogram.Dimensions
	Removed    []planogram.RemovedProduct
	Conflicts  []Conflict
}

// Parse czyta tekst (jedna linia = jeden wiersz tabeli z PDF-a).
func Parse(r io.Reader) (Result, error) {
	res := Result{Dimensions: map[string]planogram.Dimensions{}}
	seenRemoved := map[string]bool{}
	inRemoved := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		parseDimensions(line, &res)

		if strings.Contains(line, removedStart) {
			inRemoved = true
			continue
		}
		if !inRemoved {
			continue
		}
		if strings.Contains(line, "Products Added") ||
			strings.Contains(line, "Products Changed") ||
			strings.HasPrefix(line, "Page:") ||
			strings.HasPrefix(line, "--") {
			inRemoved = false
			continue
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "UPC Product") {
			continue
		}
		m := reRemoved.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		upc := planogram.NormalizeUPC(m[1])
		if seenRemoved[upc] {
			continue
		}
		seenRemoved[upc] = true
		res.Removed = append(res.Removed, planogram.RemovedProduct{UPC: upc, Name: strings.TrimSpace(m[2])})
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// linia z wymiarami: UPC + co najmniej dwie wartości "<liczba> in";
// przedostatnia to wysokość, ostatnia szerokość
func parseDimensions(line string, res *Result) {
	if !strings.Contains(line, " in") {
		return
	}
	upcRaw := reUPC.FindString(line)
	if upcRaw == "" {
		return
	}
	sizes := reInches.FindAllStringSubmatch(line, -1)
	if len(sizes) < 2 {
		return
	}
	height, err1 := strconv.ParseFloat(sizes[len(sizes)-2][1], 64)
	width, err2 := strconv.ParseFloat(sizes[len(sizes)-1][1], 64)
	if err1 != nil || err2 != nil {
		return
	}

	upc := planogram.NormalizeUPC(upcRaw)
	next := planogram.Dimensions{WidthIn: width, HeightIn: height}
	if existing, ok := res.Dimensions[upc]; ok {
		if math.Abs(existing.HeightIn-height) > tolerance || math.Abs(existing.WidthIn-width) > tolerance {
			res.Conflicts = append(res.Conflicts, Conflict{UPC: upc, Existing: existing, Next: next, Line: line})
		}
		return
	}
	res.Dimensions[upc] = next
}
