// Package samples provisions example CSV files for both entity kinds.
// The generated files use the exact headers the importer expects and a
// couple of rows that pass validation against a database seeded with the
// realtors file.
package samples

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bcre/estate-import/internal/core"
)

// Write creates realtors.csv and listings.csv under dir.
// Existing files are overwritten. Returns the paths written.
func Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sample dir: %w", err)
	}

	var written []string
	for _, s := range sampleFiles() {
		path := filepath.Join(dir, s.name)
		if err := writeCSV(path, s.rows); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

type sampleFile struct {
	name string
	rows [][]string
}

func sampleFiles() []sampleFile {
	return []sampleFile{
		{
			name: "realtors.csv",
			rows: [][]string{
				columnsFor("realtor"),
				{"Jane Doe", "photos/realtors/jane.jpg", "Senior agent", "555-0100", "jane@example.com", "true", "2019-04-01"},
				{"Sam Lee", "", "", "555-0101", "sam@example.com", "false", ""},
			},
		},
		{
			name: "listings.csv",
			rows: [][]string{
				columnsFor("listing"),
				{"1", "Harbourview 2BR", "12 Gloucester Rd", "Gloucester Rd", "Wan Chai", "Bright corner unit",
					"8500000", "2", "1.5", "1", "620", "680.5", "true", "2024-06-01",
					"photos/listings/1/main.jpg", "", "", "", "", "", ""},
				{"2", "Sai Kung village house", "", "", "Sai Kung", "",
					"12800000", "4", "2.5", "0", "2100", "2250", "false", "",
					"", "", "", "", "", "", ""},
			},
		},
	}
}

// columnsFor returns the registered header for an entity kind.
func columnsFor(key string) []string {
	def, ok := core.Get(key)
	if !ok {
		panic(fmt.Sprintf("entity not registered: %s", key))
	}
	return def.Info.Columns
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
