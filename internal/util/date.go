package util

import "time"

// StartOfDay normalizes a time to midnight UTC so that date arithmetic
// is insensitive to the time-of-day component.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b after
// normalizing both to day boundaries. Negative if b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// AddMonthsClamped advances a date by the given number of calendar
// months, landing on the same day-of-month when possible and on the
// last day of the month otherwise (e.g. Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, months int) time.Time {
	t = StartOfDay(t)
	year, month, day := t.Year(), int(t.Month())+months, t.Day()

	// Get last day of target month by going to day 0 of the month after
	lastDay := time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
