// Package hebdate converts Gregorian calendar dates to their Hebrew calendar
// rendering.
package hebdate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hebcal/hebcal-go/hdate"
)

// Layout is the ISO calendar date layout accepted by Convert.
const Layout = "2006-01-02"

// ConversionError is returned when a Gregorian date cannot be converted.
type ConversionError struct {
	Input string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %q to hebrew date: %v", e.Input, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Convert returns the Hebrew date for an ISO calendar date, e.g.
// "2024-01-01" -> "20 Tevet 5784".
func Convert(date string) (string, error) {
	trimmed := strings.TrimSpace(date)
	if trimmed == "" {
		return "", &ConversionError{Input: date, Err: fmt.Errorf("empty date")}
	}
	t, err := time.Parse(Layout, trimmed)
	if err != nil {
		return "", &ConversionError{Input: date, Err: err}
	}
	return FromTime(t), nil
}

// FromTime renders the calendar day of t (its own location) as a Hebrew date.
func FromTime(t time.Time) string {
	return hdate.FromGregorian(t.Year(), t.Month(), t.Day()).String()
}
