package repository

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString returns SQL NULL for a nil pointer.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

// parseDecimal reads a TEXT money column. Amounts are stored as strings so
// SQLite never rounds them through REAL.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseTimestamps(createdAt, updatedAt string) (time.Time, time.Time) {
	c, _ := time.Parse(time.RFC3339, createdAt)
	u, _ := time.Parse(time.RFC3339, updatedAt)
	return c, u
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
