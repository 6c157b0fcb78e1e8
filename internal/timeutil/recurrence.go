package timeutil

import (
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// Frequency is a reminder recurrence frequency.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// Valid reports whether f is a supported frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

// NextOccurrence computes the reminder time that follows t for the
// given frequency. The shift happens on the wall clock in loc — a
// daily reminder keeps its local clock time across DST transitions —
// and the result is returned in UTC for storage.
//
// Monthly recurrence preserves the day-of-month; when the target month
// is shorter, the day clamps to the last day of that month
// (Jan 31 -> Feb 28/29, Mar 31 -> Apr 30).
func NextOccurrence(t time.Time, freq Frequency, loc *time.Location) (time.Time, error) {
	lt := t.In(loc)
	switch freq {
	case FreqDaily:
		return onWallClock(lt, 0, 0, 1).UTC(), nil
	case FreqWeekly:
		return onWallClock(lt, 0, 0, 7).UTC(), nil
	case FreqMonthly:
		year, month := lt.Year(), int(lt.Month())+1
		if month > 12 {
			year, month = year+1, 1
		}
		day := lt.Day()
		if last := daysIn(year, time.Month(month)); day > last {
			day = last
		}
		next := time.Date(year, time.Month(month), day,
			lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), loc)
		return next.UTC(), nil
	}
	return time.Time{}, apperr.Newf(apperr.InvalidArgument, "unsupported recurrence frequency %q", freq)
}

// onWallClock shifts the calendar date while pinning the clock time,
// unlike Time.AddDate which can drift an hour across DST.
func onWallClock(lt time.Time, years, months, days int) time.Time {
	shifted := time.Date(lt.Year()+years, time.Month(int(lt.Month())+months), lt.Day()+days,
		lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), lt.Location())
	return shifted
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
