package tui

import (
	"context"
	"time"

	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/tracker"
)

const defaultIdleTimeout = 5 * time.Minute

// timerModel binds a running stopwatch to the task it records for. The
// stopwatch keeps time; the model adds idle detection on top of it.
type timerModel struct {
	svc      *tracker.Service
	tracking *tracker.Tracking

	taskName    string
	projectName string

	// Idle detection
	now          func() time.Time
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newTimerModel(svc *tracker.Service) timerModel {
	return timerModel{
		svc:          svc,
		now:          time.Now,
		lastActivity: time.Now(),
		idleTimeout:  defaultIdleTimeout,
	}
}

// start begins tracking task on day. Time already filed for the day is
// continued rather than replaced.
func (t *timerModel) start(ctx context.Context, task model.Task, projectName string, day time.Time) error {
	if t.active() {
		return nil
	}
	tr, err := t.svc.StartTracking(ctx, task.ID, day)
	if err != nil {
		return err
	}
	t.tracking = tr
	t.taskName = task.Name
	t.projectName = projectName
	t.lastActivity = t.now()
	t.isIdle = false
	return nil
}

// finish stops the stopwatch and persists what it recorded. The tracking is
// kept when the write fails so finish can be retried.
func (t *timerModel) finish(ctx context.Context) (model.Session, error) {
	if !t.active() {
		return model.Session{}, nil
	}
	sess, err := t.svc.FinishTracking(ctx, t.tracking)
	if err != nil {
		return model.Session{}, err
	}
	t.tracking = nil
	t.isIdle = false
	return sess, nil
}

// discard drops the running stopwatch without saving anything.
func (t *timerModel) discard() {
	if !t.active() {
		return
	}
	t.tracking.Engine.Reset()
	t.tracking.Engine.Close()
	t.tracking = nil
	t.isIdle = false
}

func (t *timerModel) pause() {
	if t.running() {
		t.tracking.Engine.Stop()
	}
}

func (t *timerModel) resume() {
	if t.paused() {
		t.tracking.Engine.Start()
		t.isIdle = false
		t.lastActivity = t.now()
	}
}

func (t *timerModel) toggle() {
	switch {
	case t.running():
		t.pause()
	case t.paused():
		t.resume()
	}
}

func (t *timerModel) tick() {
	if t.running() && t.now().Sub(t.lastActivity) > t.idleTimeout && !t.isIdle {
		t.isIdle = true
		t.pause()
	}
}

func (t *timerModel) recordActivity() {
	t.lastActivity = t.now()
	if t.isIdle && t.paused() {
		t.resume()
		t.isIdle = false
	}
}

func (t timerModel) active() bool {
	return t.tracking != nil
}

func (t timerModel) running() bool {
	return t.active() && t.tracking.Engine.IsRunning()
}

func (t timerModel) paused() bool {
	return t.active() && !t.tracking.Engine.IsRunning()
}

func (t timerModel) taskID() string {
	if !t.active() {
		return ""
	}
	return t.tracking.TaskID
}

func (t timerModel) currentElapsed() time.Duration {
	if !t.active() {
		return 0
	}
	return t.tracking.Engine.TotalElapsed()
}
