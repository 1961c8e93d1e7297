package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/report"
	"github.com/sadopc/activity/internal/stopwatch"
	"github.com/sadopc/activity/internal/store"
)

// Tracking is a running stopwatch bound to the task and day it records for.
type Tracking struct {
	TaskID string
	Day    time.Time
	Engine *stopwatch.Engine

	sessionID      string
	completionDate time.Time
}

// Continues reports whether the tracking appends to a session that already
// existed when it started.
func (tr *Tracking) Continues() bool {
	return tr.sessionID != ""
}

func (s *Service) Sessions(ctx context.Context) ([]model.Session, error) {
	sessions, err := s.store.ListSessions(ctx, store.SessionFilter{})
	if err != nil {
		return nil, persist("list sessions", err)
	}
	return sessions, nil
}

// SessionFor returns the session filed for taskID on day, if any.
func (s *Service) SessionFor(ctx context.Context, taskID string, day time.Time) (model.Session, bool, error) {
	from := calendar.StartOfDay(day)
	to := from.AddDate(0, 0, 1)
	sessions, err := s.store.ListSessions(ctx, store.SessionFilter{TaskID: taskID, From: &from, To: &to})
	if err != nil {
		return model.Session{}, false, persist("list sessions", err)
	}
	sess, ok := report.CompletedSessionFor(sessions, taskID, day)
	return sess, ok, nil
}

// RecordSession files intervals for taskID on day. A task has at most one
// session per day: when one exists the intervals are appended to it.
func (s *Service) RecordSession(ctx context.Context, taskID string, day time.Time, intervals []model.Interval) (model.Session, error) {
	if len(intervals) == 0 {
		return model.Session{}, invalid("intervals", "nothing to record")
	}
	for _, iv := range intervals {
		if iv.End.Before(iv.Start) {
			return model.Session{}, invalid("intervals", "interval ends before it starts")
		}
	}
	if err := s.requireTask(ctx, taskID); err != nil {
		return model.Session{}, err
	}

	existing, ok, err := s.SessionFor(ctx, taskID, day)
	if err != nil {
		return model.Session{}, err
	}
	if ok {
		merged := existing
		merged.Intervals = append(append([]model.Interval(nil), existing.Intervals...), intervals...)
		if err := s.store.UpdateSession(ctx, merged); err != nil {
			return model.Session{}, persist("update session", err)
		}
		s.l.Info("appended to session", "id", merged.ID, "task", taskID, "intervals", len(intervals))
		return merged, nil
	}

	sess := model.Session{
		ID:             model.NewID(),
		TaskID:         taskID,
		CompletionDate: calendar.StartOfDay(day),
		Intervals:      append([]model.Interval(nil), intervals...),
	}
	if err := s.store.InsertSession(ctx, sess); err != nil {
		return model.Session{}, persist("create session", err)
	}
	s.l.Info("recorded session", "id", sess.ID, "task", taskID, "total", report.TotalDuration(sess))
	return sess, nil
}

// StartTracking starts a stopwatch for taskID on day. An existing session for
// the day is resumed so the new time is appended to it.
func (s *Service) StartTracking(ctx context.Context, taskID string, day time.Time, opts ...stopwatch.Option) (*Tracking, error) {
	if err := s.requireTask(ctx, taskID); err != nil {
		return nil, err
	}
	existing, ok, err := s.SessionFor(ctx, taskID, day)
	if err != nil {
		return nil, err
	}

	tr := &Tracking{TaskID: taskID, Day: calendar.StartOfDay(day)}
	if ok {
		tr.sessionID = existing.ID
		tr.completionDate = existing.CompletionDate
		tr.Engine = stopwatch.Resume(existing.Intervals, opts...)
	} else {
		tr.Engine = stopwatch.New(opts...)
	}
	tr.Engine.Start()
	s.l.Info("started tracking", "task", taskID, "continue", ok)
	return tr, nil
}

// FinishTracking stops the stopwatch and persists everything it recorded.
func (s *Service) FinishTracking(ctx context.Context, tr *Tracking) (model.Session, error) {
	intervals := tr.Engine.Finish()
	if !tr.Continues() {
		if len(intervals) == 0 {
			return model.Session{}, invalid("intervals", "nothing tracked")
		}
		return s.RecordSession(ctx, tr.TaskID, tr.Day, intervals)
	}

	sess := model.Session{
		ID:             tr.sessionID,
		TaskID:         tr.TaskID,
		CompletionDate: tr.completionDate,
		Intervals:      intervals,
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return model.Session{}, persist("update session", err)
	}
	s.l.Info("finished tracking", "session", sess.ID, "total", report.TotalDuration(sess))
	return sess, nil
}

// AddManualEntry records a single interval typed in by the user.
func (s *Service) AddManualEntry(ctx context.Context, taskID string, day, start, end time.Time) (model.Session, error) {
	iv, err := stopwatch.ManualInterval(day, start, end)
	if err != nil {
		return model.Session{}, &ValidationError{Field: "interval", Reason: err.Error(), Err: err}
	}
	return s.RecordSession(ctx, taskID, day, []model.Interval{iv})
}

// DiscardSessions deletes all time recorded for a task and reports how many
// sessions were removed.
func (s *Service) DiscardSessions(ctx context.Context, taskID string) (int64, error) {
	n, err := s.store.DeleteSessionsForTask(ctx, taskID)
	if err != nil {
		return 0, persist("discard sessions", err)
	}
	s.l.Info("discarded sessions", "task", taskID, "count", n)
	return n, nil
}

func (s *Service) requireTask(ctx context.Context, taskID string) error {
	_, err := s.store.GetTask(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return &ValidationError{Field: "task", Reason: "not found", Err: err}
	}
	return persist("get task", err)
}
