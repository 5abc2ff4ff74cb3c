// Package schema normalizes and validates the column layout of a raw
// table against a declared required-field set.
package schema

import (
	"fmt"
	"strings"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

// SchemaError reports every required field absent after column-name
// normalization, not just the first one found.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Validate trims surrounding whitespace from the table's column names,
// verifies every required field is present (exact case match after
// trimming) and returns a projection containing the required columns
// plus any of the optional ones the source carries. The source table
// is not mutated.
//
// When two source columns trim to the same name the first occurrence
// wins; later duplicates are dropped from the projection.
func Validate(t models.Table, required, optional []string) (models.Table, error) {
	normalized := make([]string, 0, len(t.Columns))
	// normalized name -> original source column name
	byName := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		name := strings.TrimSpace(col)
		if _, ok := byName[name]; ok {
			continue
		}
		byName[name] = col
		normalized = append(normalized, name)
	}

	var missing []string
	for _, field := range required {
		if _, ok := byName[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return models.Table{}, &SchemaError{Missing: missing}
	}

	keep := make([]string, 0, len(required)+len(optional))
	keep = append(keep, required...)
	for _, field := range optional {
		if _, ok := byName[field]; ok {
			keep = append(keep, field)
		}
	}

	out := models.Table{
		Columns: keep,
		Rows:    make([]map[string]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		projected := make(map[string]string, len(keep))
		for _, field := range keep {
			if v, ok := row[byName[field]]; ok {
				projected[field] = v
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}
