package series

import "strings"

// Resolve maps a station identifier to its sheet name: the lowercased
// identifier must occur as a substring of the lowercased sheet name.
// Sheets are tried in workbook order and the first match wins. With
// overlapping sheet names this is deterministic but can surprise;
// callers needing stricter matching must keep identifiers mutually
// non-overlapping.
func Resolve(store *Store, stationID string) (string, error) {
	needle := strings.ToLower(stationID)
	if needle == "" {
		return "", ErrNotFound
	}
	for _, name := range store.SheetNames() {
		if strings.Contains(strings.ToLower(name), needle) {
			return name, nil
		}
	}
	return "", ErrNotFound
}
