package main

import (
	"fmt"
	"os"

	"github.com/bartek5186/pogdata/internal/app"
)

func main() {
	cmd := app.Command("extract-dimensions", "Wyciąga wymiary i usunięte produkty ze zrzutów tekstu planogramów",
		(*app.App).ExtractDimensions)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Błąd:", err)
		os.Exit(1)
	}
}
