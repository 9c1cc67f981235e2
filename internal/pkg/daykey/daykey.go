// Package daykey handles the canonical YYYY-MM-DD day key used to scope
// attendance records to a single calendar day. Keys are zero-padded, so
// lexical order equals chronological order and range filtering never needs
// calendar arithmetic.
package daykey

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// FromTime returns the day key for t in t's location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// IsValid reports whether s is a well-formed day key.
func IsValid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// MonthPrefix returns the YYYY-MM prefix matching every day key in the
// given month. month is 1-based.
func MonthPrefix(year int, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
