package timeutil

import "time"

// WeekBoundary names the user's working-week convention. It decides
// which weekday "this_week" snaps back to.
type WeekBoundary string

const (
	WeekMonFri WeekBoundary = "mon-fri"
	WeekSunSat WeekBoundary = "sun-sat"
	WeekMonSun WeekBoundary = "mon-sun"
)

// StartDay returns the first weekday of the boundary. Unrecognized
// values fall back to Monday.
func (w WeekBoundary) StartDay() time.Weekday {
	if w == WeekSunSat {
		return time.Sunday
	}
	return time.Monday
}

// Valid reports whether w is one of the known boundaries.
func (w WeekBoundary) Valid() bool {
	switch w {
	case WeekMonFri, WeekSunSat, WeekMonSun:
		return true
	}
	return false
}

// Shortcut tokens accepted wherever a date or datetime literal is
// legal in the query DSL.
const (
	ShortcutToday     = "today"
	ShortcutThisWeek  = "this_week"
	ShortcutThisMonth = "this_month"
	ShortcutThisYear  = "this_year"
	ShortcutNow       = "now"
)

// ResolveShortcut resolves a relative time token against now in the
// user's timezone and week boundary. The second return is false when
// the token is not a shortcut.
//
// All period shortcuts resolve to the first instant of the period at
// 00:00 local time; "now" resolves to the current instant.
func ResolveShortcut(token string, now time.Time, loc *time.Location, week WeekBoundary) (time.Time, bool) {
	local := now.In(loc)
	switch token {
	case ShortcutToday:
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), true
	case ShortcutThisWeek:
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		back := (int(local.Weekday()) - int(week.StartDay()) + 7) % 7
		return start.AddDate(0, 0, -back), true
	case ShortcutThisMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), true
	case ShortcutThisYear:
		return time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc), true
	case ShortcutNow:
		return now, true
	}
	return time.Time{}, false
}
