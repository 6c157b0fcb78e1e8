// Package timeutil implements Mosaic's time arithmetic: the half-hour
// billing rounding contract, local-date derivation, relative time
// shortcuts, and recurrence computation for reminders.
//
// All duration math uses fixed-point decimals — stored durations must
// never pass through binary floating point.
package timeutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// DateLayout is the storage format for date-only values.
const DateLayout = "2006-01-02"

var half = decimal.New(5, -1) // 0.5

// RoundHalfHour rounds a duration in whole minutes to half-hour
// precision:
//
//	minutes <= 0          -> 0.0
//	remainder 0           -> h.0
//	remainder 1..30       -> h + 0.5
//	remainder 31..59      -> h + 1.0
//
// Exactly 30 minutes past the hour rounds DOWN to the half hour; only a
// remainder past 30 rounds up.
func RoundHalfHour(minutes int) decimal.Decimal {
	if minutes <= 0 {
		return decimal.Zero
	}
	hours := decimal.NewFromInt(int64(minutes / 60))
	switch r := minutes % 60; {
	case r == 0:
		return hours
	case r <= 30:
		return hours.Add(half)
	default:
		return hours.Add(decimal.NewFromInt(1))
	}
}

// DurationRounded returns the half-hour-rounded duration of the
// interval [start, end). Seconds are truncated before rounding, so
// 29m59s counts as 29 minutes. end before start is an error.
func DurationRounded(start, end time.Time) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "end_time must be after start_time")
	}
	minutes := int(end.Sub(start) / time.Minute)
	return RoundHalfHour(minutes), nil
}

// LocalDate returns the calendar date of t in the given location,
// formatted for storage.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// FormatHours renders a duration decimal with exactly one decimal
// place, the canonical wire and storage form.
func FormatHours(d decimal.Decimal) string {
	return d.StringFixed(1)
}
