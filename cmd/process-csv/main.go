package main

import (
	"fmt"
	"os"

	"github.com/bartek5186/pogdata/internal/app"
)

func main() {
	cmd := app.Command("process-csv", "Zamienia eksporty planogramów (CSV/XLSX) na pliki layoutów JSON",
		(*app.App).ProcessCSV)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Błąd:", err)
		os.Exit(1)
	}
}
