package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PriorityLow     = 1
	PriorityDefault = 2
	PriorityHigh    = 3
)

type Project struct {
	ID        string
	Name      string
	Tasks     []Task
	StartDate time.Time
	Priority  int
}

// Task returns the task with the given id, if the project owns it.
func (p Project) Task(id string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

type Task struct {
	ID         string
	ProjectID  string
	Name       string
	Tags       []string
	StartDate  time.Time
	Priority   int
	RepeatDays Weekdays
}

// Session is the time spent on a task, filed under CompletionDate. TaskID is a
// weak reference; sessions are not owned by tasks.
type Session struct {
	ID             string
	CompletionDate time.Time
	TaskID         string
	Intervals      []Interval
}

type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

type Tag struct {
	Name string
}

// NewID returns a fresh opaque identifier for a project, task or session.
func NewID() string {
	return uuid.NewString()
}

// ValidPriority reports whether p is within PriorityLow..PriorityHigh.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// AllTasks flattens projects into their tasks, preserving project and task order.
func AllTasks(projects []Project) []Task {
	var tasks []Task
	for _, p := range projects {
		tasks = append(tasks, p.Tasks...)
	}
	return tasks
}
