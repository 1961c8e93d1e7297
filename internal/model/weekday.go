package model

import (
	"strings"
	"time"
)

// Weekday uses the ISO numbering: Monday=1 ... Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return "Invalid"
}

func (d Weekday) Short() string {
	if !d.Valid() {
		return "???"
	}
	return d.String()[:3]
}

// WeekdayOf converts a time.Weekday (Sunday=0) to the ISO scale.
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

// Weekdays is a set of weekdays stored as a 7-bit mask, bit 0 = Monday.
type Weekdays uint8

const (
	weekdayMask Weekdays = 1<<7 - 1

	Workdays  = Weekdays(1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4)
	Weekend   = Weekdays(1<<5 | 1<<6)
	EveryDay  = weekdayMask
	NoWeekday = Weekdays(0)
)

func NewWeekdays(days ...Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.Add(d)
	}
	return w
}

func (w Weekdays) Has(d Weekday) bool {
	if !d.Valid() {
		return false
	}
	return w&(1<<(d-1)) != 0
}

func (w Weekdays) Add(d Weekday) Weekdays {
	if !d.Valid() {
		return w
	}
	return w | 1<<(d-1)
}

func (w Weekdays) Remove(d Weekday) Weekdays {
	if !d.Valid() {
		return w
	}
	return w &^ (1 << (d - 1))
}

func (w Weekdays) Toggle(d Weekday) Weekdays {
	if w.Has(d) {
		return w.Remove(d)
	}
	return w.Add(d)
}

// Valid reports whether no bits outside Monday..Sunday are set.
func (w Weekdays) Valid() bool {
	return w&^weekdayMask == 0
}

// Sanitize drops bits that do not name a weekday.
func (w Weekdays) Sanitize() Weekdays {
	return w & weekdayMask
}

func (w Weekdays) Empty() bool {
	return w.Sanitize() == 0
}

// Days lists the members in Monday..Sunday order.
func (w Weekdays) Days() []Weekday {
	var days []Weekday
	for _, d := range AllWeekdays {
		if w.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Summary renders the repeat pattern the way the task editor shows it.
func (w Weekdays) Summary() string {
	switch w.Sanitize() {
	case NoWeekday:
		return "Never"
	case Workdays:
		return "Every Weekday"
	case Weekend:
		return "Every Weekend Day"
	case EveryDay:
		return "Every Day"
	}
	days := w.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.Short()
	}
	return strings.Join(names, ", ")
}
