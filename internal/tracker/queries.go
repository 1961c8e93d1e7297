package tracker

import (
	"context"
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/recurrence"
	"github.com/sadopc/activity/internal/report"
	"github.com/sadopc/activity/internal/search"
)

const unknownName = "Unknown"

// DueTask is a task due on a day together with its status for that day.
type DueTask struct {
	Task        model.Task
	ProjectName string
	// Session is the session filed for the day, nil when not done.
	Session *model.Session
	// LastTracked is the end of the task's latest interval, zero if never.
	LastTracked time.Time
}

func (d DueTask) Done() bool {
	return d.Session != nil
}

func (d DueTask) Tracked() time.Duration {
	if d.Session == nil {
		return 0
	}
	return report.TotalDuration(*d.Session)
}

// TasksOn lists the tasks due on date in project and task order.
func (s *Service) TasksOn(ctx context.Context, date time.Time) ([]DueTask, error) {
	projects, sessions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := projectNames(projects)

	var due []DueTask
	for _, t := range recurrence.TasksOn(projects, date) {
		d := DueTask{Task: t, ProjectName: names[t.ProjectID], LastTracked: lastTracked(sessions, t.ID)}
		if sess, ok := report.CompletedSessionFor(sessions, t.ID, date); ok {
			d.Session = &sess
		}
		due = append(due, d)
	}
	return due, nil
}

func (s *Service) Today(ctx context.Context) ([]DueTask, error) {
	return s.TasksOn(ctx, s.now())
}

func (s *Service) MonthSchedule(ctx context.Context, month time.Time) ([]recurrence.Day, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return recurrence.MonthSchedule(projects, month), nil
}

func (s *Service) DayCompletion(ctx context.Context, date time.Time) (report.Completion, error) {
	projects, sessions, err := s.snapshot(ctx)
	if err != nil {
		return report.Completion{}, err
	}
	return report.DayCompletion(projects, sessions, date), nil
}

// MonthCompletion returns the completion of every day in the month holding
// month; index 0 is the 1st.
func (s *Service) MonthCompletion(ctx context.Context, month time.Time) ([]report.Completion, error) {
	projects, sessions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	days := calendar.MonthDays(month)
	out := make([]report.Completion, len(days))
	for i, d := range days {
		out[i] = report.DayCompletion(projects, sessions, d)
	}
	return out, nil
}

// ReportRow is one task's share of a report.
type ReportRow struct {
	TaskID      string
	TaskName    string
	ProjectName string
	Duration    time.Duration
}

type Report struct {
	Timeframe report.Timeframe
	Anchor    time.Time
	Rows      []ReportRow
	Total     time.Duration
}

// Report rolls up tracked time for the bucket holding anchor, longest first.
// Sessions of deleted tasks are listed as Unknown.
func (s *Service) Report(ctx context.Context, tf report.Timeframe, anchor time.Time) (Report, error) {
	projects, sessions, err := s.snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	totals := report.Rollup(sessions, tf, anchor)

	type owner struct{ task, project string }
	owners := make(map[string]owner)
	for _, p := range projects {
		for _, t := range p.Tasks {
			owners[t.ID] = owner{task: t.Name, project: p.Name}
		}
	}

	r := Report{Timeframe: tf, Anchor: anchor, Total: totals.Sum()}
	for _, tt := range totals.Sorted() {
		o, ok := owners[tt.TaskID]
		if !ok {
			o = owner{task: unknownName, project: unknownName}
		}
		r.Rows = append(r.Rows, ReportRow{TaskID: tt.TaskID, TaskName: o.task, ProjectName: o.project, Duration: tt.Duration})
	}
	return r, nil
}

// Buckets lists the windows that hold recorded time, oldest first.
func (s *Service) Buckets(ctx context.Context, g calendar.Granularity) ([]report.Bucket, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	return report.DistinctBuckets(sessions, g), nil
}

func (s *Service) Search(ctx context.Context, query string) ([]search.Match, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return search.Search(projects, query), nil
}

func (s *Service) snapshot(ctx context.Context) ([]model.Project, []model.Session, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return projects, sessions, nil
}

func projectNames(projects []model.Project) map[string]string {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

func lastTracked(sessions []model.Session, taskID string) time.Time {
	var last time.Time
	for _, sess := range sessions {
		if sess.TaskID != taskID {
			continue
		}
		for _, iv := range sess.Intervals {
			if iv.End.After(last) {
				last = iv.End
			}
		}
	}
	return last
}
