package models

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the date formats accepted in source documents,
// tried in order. Spreadsheet exports are inconsistent about time
// components, so date-only and datetime variants are both listed.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system as spreadsheets store
// it (serial 1 = 1900-01-01, with the historical leap-year bug baked
// in, hence Dec 30 not Dec 31).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseTimestamp parses a source timestamp cell. Numeric cells are
// treated as spreadsheet date serials. Returns false for anything
// unparseable; callers drop such rows rather than coercing them.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
		return t, true
	}
	return time.Time{}, false
}
