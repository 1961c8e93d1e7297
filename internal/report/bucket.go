package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
)

// Bucket is one selectable window in a timeframe picker.
type Bucket struct {
	Key calendar.BucketKey
	// Month is the calendar month the bucket is shown under. For weeks it is
	// the month holding the week's Thursday, so it always agrees with the ISO
	// year in Key.
	Month time.Month
	start time.Time
}

// Start is the first instant of the bucket.
func (b Bucket) Start() time.Time {
	return b.start
}

func (b Bucket) Label() string {
	switch b.Key.Granularity {
	case calendar.Day:
		return b.start.Format("January 2, 2006")
	case calendar.Week:
		return fmt.Sprintf("%s - Week %d, %d", b.Month, b.Key.Period, b.Key.Year)
	case calendar.Month:
		return fmt.Sprintf("%s %d", b.Month, b.Key.Year)
	}
	return "All Time"
}

func (b Bucket) less(o Bucket) bool {
	if b.Key.Year != o.Key.Year {
		return b.Key.Year < o.Key.Year
	}
	if b.Month != o.Month {
		return b.Month < o.Month
	}
	return b.Key.Less(o.Key)
}

// DistinctBuckets lists the buckets that hold at least one session, oldest
// first.
func DistinctBuckets(sessions []model.Session, g calendar.Granularity) []Bucket {
	seen := make(map[calendar.BucketKey]bool)
	var buckets []Bucket
	for _, s := range sessions {
		k := calendar.Key(s.CompletionDate, g)
		if seen[k] {
			continue
		}
		seen[k] = true
		buckets = append(buckets, newBucket(k, s.CompletionDate.Location()))
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].less(buckets[j])
	})
	return buckets
}

func newBucket(k calendar.BucketKey, loc *time.Location) Bucket {
	start := k.Start(loc)
	month := time.Month(k.Period)
	switch k.Granularity {
	case calendar.Week:
		month = start.AddDate(0, 0, 3).Month()
	case calendar.AllTime:
		month = 0
	}
	return Bucket{Key: k, Month: month, start: start}
}
