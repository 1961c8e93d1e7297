package calendar

import (
	"fmt"
	"time"
)

type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	AllTime
)

var granularityNames = map[Granularity]string{
	Day:     "day",
	Week:    "week",
	Month:   "month",
	AllTime: "all time",
}

func (g Granularity) String() string {
	if s, ok := granularityNames[g]; ok {
		return s
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// BucketKey identifies the bucket a date falls in. Period is the ISO week for
// Week keys and the month for Day and Month keys; DayOfMonth is only set for
// Day keys. Keys are comparable with == and ordered by Less.
type BucketKey struct {
	Granularity Granularity
	Year        int
	Period      int
	DayOfMonth  int
}

// Key buckets t at granularity g. Week keys use the ISO year-for-week.
func Key(t time.Time, g Granularity) BucketKey {
	switch g {
	case Day:
		y, m, d := t.Date()
		return BucketKey{Granularity: Day, Year: y, Period: int(m), DayOfMonth: d}
	case Week:
		y, w := t.ISOWeek()
		return BucketKey{Granularity: Week, Year: y, Period: w}
	case Month:
		return BucketKey{Granularity: Month, Year: t.Year(), Period: int(t.Month())}
	default:
		return BucketKey{Granularity: AllTime}
	}
}

// SameBucket reports whether a and b share a bucket at granularity g.
func SameBucket(a, b time.Time, g Granularity) bool {
	return Key(a, g) == Key(b.In(a.Location()), g)
}

func (k BucketKey) Less(o BucketKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Period != o.Period {
		return k.Period < o.Period
	}
	return k.DayOfMonth < o.DayOfMonth
}

// Start returns the first instant of the bucket in loc. AllTime keys return
// the zero time.
func (k BucketKey) Start(loc *time.Location) time.Time {
	switch k.Granularity {
	case Day:
		return time.Date(k.Year, time.Month(k.Period), k.DayOfMonth, 0, 0, 0, 0, loc)
	case Week:
		return StartOfWeek(k.Year, k.Period, loc)
	case Month:
		return time.Date(k.Year, time.Month(k.Period), 1, 0, 0, 0, 0, loc)
	}
	return time.Time{}
}
