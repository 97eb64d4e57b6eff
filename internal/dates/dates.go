// Package dates holds the pure date arithmetic used by recurrence expansion
// and the windowed task queries. All functions take the timezone explicitly
// so results do not depend on the host environment.
package dates

import "time"

// Unit is a calendar step size for interval arithmetic.
type Unit int

const (
	Day Unit = iota
	Week
	Month
	Year
)

// AddInterval shifts t by n units. Month and year steps clamp the day of
// month to the last valid day of the target month, so Jan 31 plus one month
// lands on the last day of February instead of rolling into March.
func AddInterval(t time.Time, unit Unit, n int) time.Time {
	switch unit {
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(t, n)
	case Year:
		return addMonths(t, 12*n)
	default:
		return t
	}
}

func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// Normalize the target month with day 1, then clamp the day.
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	first = first.AddDate(0, n, 0)
	ty, tm, _ := first.Date()
	if last := DaysInMonth(ty, tm); day > last {
		day = last
	}
	return time.Date(ty, tm, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// StartOfDay returns the 00:00:00 instant of the calendar day containing t,
// evaluated in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// EndOfDay returns the 23:59:59.999999999 instant of the calendar day
// containing t, evaluated in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns Monday 00:00:00 of the week containing t.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// EndOfWeek returns the last instant of Sunday in the week containing t.
func EndOfWeek(t time.Time, loc *time.Location) time.Time {
	return StartOfWeek(t, loc).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// StartOfMonth returns the first instant of the month containing t.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	year, month, _ := t.In(loc).Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns the last instant of the month containing t.
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// DayKey formats t as its calendar-day key (YYYY-MM-DD) in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
