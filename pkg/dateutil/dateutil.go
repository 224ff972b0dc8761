package dateutil

import "time"

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DueDateForWeek calculates the due date for a specific installment week.
// The disbursement week itself carries no installment, so week 1 falls 7 days
// after disbursement, week 2 falls 14 days after, and so on.
func DueDateForWeek(disbursementDate time.Time, weekNumber int) time.Time {
	return DateOnly(disbursementDate).AddDate(0, 0, 7*weekNumber)
}

// WeekdayName returns the long weekday name of a date, e.g. "Monday".
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// WeekBounds returns the ISO week containing t: Monday 00:00:00 through
// Sunday 23:59:59.999999999 in t's location. The Monday start holds
// regardless of the locale's default week start.
func WeekBounds(t time.Time) (start, end time.Time) {
	day := DateOnly(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// StartOfDay is an alias for DateOnly kept for call-site readability.
func StartOfDay(t time.Time) time.Time {
	return DateOnly(t)
}

// StartOfMonth returns the first instant of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns the first instant of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// WithinInclusive reports whether t falls inside [start, end].
func WithinInclusive(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
