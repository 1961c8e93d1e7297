// Package report rolls recorded sessions up into per-task totals over day,
// week, month and all-time windows.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/recurrence"
)

type Timeframe int

const (
	Daily Timeframe = iota
	Weekly
	Monthly
	AllTime
)

var Timeframes = []Timeframe{Daily, Weekly, Monthly, AllTime}

var timeframeNames = map[Timeframe]string{
	Daily:   "Daily",
	Weekly:  "Weekly",
	Monthly: "Monthly",
	AllTime: "All Time",
}

func (t Timeframe) String() string {
	if s, ok := timeframeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Timeframe(%d)", int(t))
}

// Granularity is the calendar bucket size the timeframe filters by.
func (t Timeframe) Granularity() calendar.Granularity {
	switch t {
	case Daily:
		return calendar.Day
	case Weekly:
		return calendar.Week
	case Monthly:
		return calendar.Month
	}
	return calendar.AllTime
}

// CompletedSessionFor returns the first session for taskID filed on the
// calendar day of date. With duplicates, the first in slice order wins.
func CompletedSessionFor(sessions []model.Session, taskID string, date time.Time) (model.Session, bool) {
	for _, s := range sessions {
		if s.TaskID == taskID && calendar.SameDay(date, s.CompletionDate) {
			return s, true
		}
	}
	return model.Session{}, false
}

// TotalDuration sums the session's intervals.
func TotalDuration(s model.Session) time.Duration {
	var total time.Duration
	for _, iv := range s.Intervals {
		total += iv.Duration()
	}
	return total
}

// Totals maps task IDs to tracked time.
type Totals map[string]time.Duration

type TaskTotal struct {
	TaskID   string
	Duration time.Duration
}

// Rollup sums session durations per task for sessions filed in the same
// bucket as anchor. Tasks whose total is zero are left out.
func Rollup(sessions []model.Session, tf Timeframe, anchor time.Time) Totals {
	g := tf.Granularity()
	totals := make(Totals)
	for _, s := range sessions {
		if g != calendar.AllTime && !calendar.SameBucket(anchor, s.CompletionDate, g) {
			continue
		}
		totals[s.TaskID] += TotalDuration(s)
	}
	for id, d := range totals {
		if d == 0 {
			delete(totals, id)
		}
	}
	return totals
}

// Sorted lists the totals longest first, ties by task ID.
func (t Totals) Sorted() []TaskTotal {
	out := make([]TaskTotal, 0, len(t))
	for id, d := range t {
		out = append(out, TaskTotal{TaskID: id, Duration: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration > out[j].Duration
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

func (t Totals) Sum() time.Duration {
	var sum time.Duration
	for _, d := range t {
		sum += d
	}
	return sum
}

// Completion is the status of one calendar day: how many tasks were due and
// how many of those have a session filed that day.
type Completion struct {
	Due  int
	Done int
}

// Complete reports whether every due task was done. Days with nothing due
// are not complete.
func (c Completion) Complete() bool {
	return c.Due > 0 && c.Done >= c.Due
}

func DayCompletion(projects []model.Project, sessions []model.Session, date time.Time) Completion {
	var c Completion
	for _, t := range recurrence.TasksOn(projects, date) {
		c.Due++
		if _, ok := CompletedSessionFor(sessions, t.ID, date); ok {
			c.Done++
		}
	}
	return c
}
