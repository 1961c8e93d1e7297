// Package calendar holds the date arithmetic shared by recurrence, reporting
// and the month grid. All functions interpret a time in its own location.
package calendar

import "time"

const fallbackDaysInMonth = 30

// WeekdayIndex maps t to Monday=1 ... Sunday=7 regardless of locale.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// DaysInMonth returns the length of the month containing t.
func DaysInMonth(t time.Time) int {
	n := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if n < 28 || n > 31 {
		return fallbackDaysInMonth
	}
	return n
}

// LeadingBlankCells is the number of empty cells before day 1 in a
// Monday-first month grid: 0 when the month starts on Monday, 6 on Sunday.
func LeadingBlankCells(t time.Time) int {
	return WeekdayIndex(StartOfMonth(t)) - 1
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// MonthDays lists the start of every day in the month containing t.
func MonthDays(t time.Time) []time.Time {
	first := StartOfMonth(t)
	n := DaysInMonth(t)
	days := make([]time.Time, n)
	for i := range n {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// StartOfWeek returns the Monday of ISO week `week` in ISO year `year`.
func StartOfWeek(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	monday := jan4.AddDate(0, 0, 1-WeekdayIndex(jan4))
	return monday.AddDate(0, 0, (week-1)*7)
}

// TruncateMinute drops seconds and sub-second precision.
func TruncateMinute(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// AtTimeOfDay places the wall-clock hour and minute of clock on day.
func AtTimeOfDay(day, clock time.Time) time.Time {
	clock = clock.In(day.Location())
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
