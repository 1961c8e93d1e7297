// Package recurrence decides which tasks are due on a calendar date. Every
// view that lists due tasks (day list, month grid, completion counts) goes
// through IsActive.
package recurrence

import (
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
)

// IsActive reports whether task is due on date.
//
// A task that starts more than a day after date is never due; the one day of
// slack lets a task created later today show up in today's list. A task is
// always due on the day it starts, and afterwards on every weekday in its
// RepeatDays.
func IsActive(task model.Task, date time.Time) bool {
	start := task.StartDate.In(date.Location())
	if start.After(date.AddDate(0, 0, 1)) {
		return false
	}
	if calendar.SameDay(date, start) {
		return true
	}
	weekday := model.Weekday(calendar.WeekdayIndex(date))
	return task.RepeatDays.Sanitize().Has(weekday)
}

// TasksOn lists the tasks due on date, in project order and then task order.
func TasksOn(projects []model.Project, date time.Time) []model.Task {
	var due []model.Task
	for _, p := range projects {
		for _, t := range p.Tasks {
			if IsActive(t, date) {
				due = append(due, t)
			}
		}
	}
	return due
}

// Day is one calendar day with the tasks due on it.
type Day struct {
	Date  time.Time
	Tasks []model.Task
}

// MonthSchedule lists the days of the month containing month that have at
// least one due task.
func MonthSchedule(projects []model.Project, month time.Time) []Day {
	var days []Day
	for _, d := range calendar.MonthDays(month) {
		tasks := TasksOn(projects, d)
		if len(tasks) == 0 {
			continue
		}
		days = append(days, Day{Date: d, Tasks: tasks})
	}
	return days
}
