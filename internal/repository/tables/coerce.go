package tables

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const dateLayout = "2006-01-02"

// Cell coercion helpers. Spreadsheet cells arrive untyped; anything numeric or
// date-valued is converted here and malformed cells surface as errors instead
// of leaking through as text.

func stringCell(row rowstore.Row, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return fmt.Sprint(row[idx])
}

func intCell(table string, row rowstore.Row, idx int, name string) (int, error) {
	raw := stringCell(row, idx)
	if raw == "" {
		return 0, fmt.Errorf("table %s: missing %s", table, name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("table %s: malformed %s %q: %w", table, name, raw, err)
	}
	return value, nil
}

func decimalCell(table string, row rowstore.Row, idx int, name string) (decimal.Decimal, error) {
	raw := stringCell(row, idx)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("table %s: missing %s", table, name)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("table %s: malformed %s %q: %w", table, name, raw, err)
	}
	return value, nil
}

func dateCell(table string, row rowstore.Row, idx int, name string) (time.Time, error) {
	raw := stringCell(row, idx)
	if raw == "" {
		return time.Time{}, fmt.Errorf("table %s: missing %s", table, name)
	}
	// Sheets sometimes returns datetimes; the date prefix is all we keep.
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	value, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("table %s: malformed %s %q: %w", table, name, raw, err)
	}
	return value, nil
}

func timestampCell(table string, row rowstore.Row, idx int, name string) (time.Time, error) {
	raw := stringCell(row, idx)
	if raw == "" {
		return time.Time{}, fmt.Errorf("table %s: missing %s", table, name)
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("table %s: malformed %s %q: %w", table, name, raw, err)
	}
	return value, nil
}
