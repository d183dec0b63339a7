package main

import (
	"fmt"
	"os"

	"github.com/bartek5186/pogdata/internal/app"
)

func main() {
	cmd := app.Command("generate-data", "Generuje stores.json i przykładowe layouty z katalogu obrazków",
		(*app.App).Generate)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Błąd:", err)
		os.Exit(1)
	}
}
