// Package entities registers the importable entity definitions with the
// core registry. Import this package for side effects to make the realtor
// and listing pipelines available.
package entities

import (
	"github.com/bcre/estate-import/internal/core"
)

// getCell returns the cleaned named cell from a row, or "" when the
// column is absent from the file.
func getCell(row []string, idx core.HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return core.CleanCell(row[pos])
}
