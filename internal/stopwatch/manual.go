package stopwatch

import (
	"errors"
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
)

var (
	ErrEmptyManualEntry    = errors.New("manual entry starts and ends at the same minute")
	ErrInvertedManualEntry = errors.New("manual entry ends before it starts")
)

// ManualInterval builds an interval on day from the wall-clock times of start
// and end, truncated to the minute.
func ManualInterval(day, start, end time.Time) (model.Interval, error) {
	from := calendar.AtTimeOfDay(day, start)
	to := calendar.AtTimeOfDay(day, end)
	switch {
	case from.Equal(to):
		return model.Interval{}, ErrEmptyManualEntry
	case from.After(to):
		return model.Interval{}, ErrInvertedManualEntry
	}
	return model.Interval{Start: from, End: to}, nil
}
