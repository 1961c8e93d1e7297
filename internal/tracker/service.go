// Package tracker is the boundary between callers and persistence. It
// validates input, applies typed patches, runs the delete cascade and ties
// recurrence, stopwatch, reporting and search to stored data.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/search"
	"github.com/sadopc/activity/internal/store"
)

type Service struct {
	store Store
	l     *log.Logger
	now   func() time.Time
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.l = l
		}
	}
}

// WithClock replaces time.Now for "today" and default start dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(st Store, opts ...Option) *Service {
	s := &Service{store: st, l: log.New(io.Discard), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// ============================================================
// Projects
// ============================================================

func (s *Service) Projects(ctx context.Context) ([]model.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, persist("list projects", err)
	}
	return projects, nil
}

func (s *Service) Project(ctx context.Context, id string) (model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, persist("get project", err)
	}
	return p, nil
}

// CreateProject adds a project. Names must be unique among projects,
// ignoring case.
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Project{}, invalid("name", "required")
	}
	priority, err := priorityOrDefault(in.Priority)
	if err != nil {
		return model.Project{}, err
	}

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return model.Project{}, persist("list projects", err)
	}
	for _, p := range projects {
		if sameName(p.Name, name) {
			return model.Project{}, invalid("name", fmt.Sprintf("a project named %q already exists", p.Name))
		}
	}

	p := model.Project{
		ID:        model.NewID(),
		Name:      name,
		StartDate: s.dateOrNow(in.StartDate),
		Priority:  priority,
	}
	if err := s.store.InsertProject(ctx, p); err != nil {
		return model.Project{}, persist("create project", err)
	}
	s.l.Info("created project", "id", p.ID, "name", p.Name)
	return p, nil
}

// PatchProject applies patch to a project. Renames are not checked for
// uniqueness.
func (s *Service) PatchProject(ctx context.Context, id string, patch ProjectPatch) (model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, persist("get project", err)
	}
	updated, err := patch.apply(p)
	if err != nil {
		return model.Project{}, err
	}
	if err := s.store.UpdateProject(ctx, updated); err != nil {
		return model.Project{}, persist("update project", err)
	}
	return updated, nil
}

// DeleteProject removes a project, its tasks and their sessions.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProjectCascade(ctx, id); err != nil {
		s.l.Error("delete project", "id", id, "err", err)
		return persist("delete project", err)
	}
	s.l.Info("deleted project", "id", id)
	return nil
}

// ============================================================
// Tasks
// ============================================================

func (s *Service) Task(ctx context.Context, id string) (model.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, persist("get task", err)
	}
	return t, nil
}

// CreateTask adds a task to the end of a project. Names must be unique within
// the project, ignoring case.
func (s *Service) CreateTask(ctx context.Context, projectID string, in TaskInput) (model.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Task{}, invalid("name", "required")
	}
	priority, err := priorityOrDefault(in.Priority)
	if err != nil {
		return model.Task{}, err
	}
	if !in.RepeatDays.Valid() {
		return model.Task{}, invalid("repeat days", "unknown weekday")
	}

	p, err := s.projectForWrite(ctx, projectID)
	if err != nil {
		return model.Task{}, err
	}
	if clash, ok := taskNamed(p.Tasks, name); ok {
		return model.Task{}, invalid("name", fmt.Sprintf("%s already has a task named %q", p.Name, clash.Name))
	}

	t := model.Task{
		ID:         model.NewID(),
		ProjectID:  p.ID,
		Name:       name,
		Tags:       cleanTags(in.Tags),
		StartDate:  s.dateOrNow(in.StartDate),
		Priority:   priority,
		RepeatDays: in.RepeatDays,
	}
	if err := s.store.InsertTask(ctx, t); err != nil {
		return model.Task{}, persist("create task", err)
	}
	s.l.Info("created task", "id", t.ID, "project", p.Name, "name", t.Name, "repeat", t.RepeatDays.Summary())
	return t, nil
}

func (s *Service) PatchTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, persist("get task", err)
	}
	updated, err := patch.apply(t)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.store.UpdateTask(ctx, updated); err != nil {
		return model.Task{}, persist("update task", err)
	}
	return updated, nil
}

// DeleteTask removes a task and its sessions.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTasksCascade(ctx, []string{id}); err != nil {
		s.l.Error("delete task", "id", id, "err", err)
		return persist("delete task", err)
	}
	s.l.Info("deleted task", "id", id)
	return nil
}

// MoveTasks moves tasks to the end of another project. Every task is
// attempted; failures are returned together. A task whose name is already
// taken in the target project is not moved.
func (s *Service) MoveTasks(ctx context.Context, taskIDs []string, toProjectID string) error {
	target, err := s.projectForWrite(ctx, toProjectID)
	if err != nil {
		return err
	}
	var result *multierror.Error
	for _, id := range taskIDs {
		t, err := s.store.GetTask(ctx, id)
		if err != nil {
			result = multierror.Append(result, persist("get task", err))
			continue
		}
		if t.ProjectID == target.ID {
			continue
		}
		if clash, ok := taskNamed(target.Tasks, t.Name); ok {
			result = multierror.Append(result, invalid("name", fmt.Sprintf("%s already has a task named %q", target.Name, clash.Name)))
			continue
		}
		t.ProjectID = target.ID
		if err := s.store.UpdateTask(ctx, t); err != nil {
			s.l.Error("move task", "id", id, "to", target.ID, "err", err)
			result = multierror.Append(result, persist("move task", err))
			continue
		}
		target.Tasks = append(target.Tasks, t)
		s.l.Info("moved task", "id", id, "to", target.Name)
	}
	return result.ErrorOrNil()
}

func (s *Service) projectForWrite(ctx context.Context, id string) (model.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Project{}, &ValidationError{Field: "project", Reason: "not found", Err: err}
	}
	if err != nil {
		return model.Project{}, persist("get project", err)
	}
	return p, nil
}

func (s *Service) dateOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func priorityOrDefault(p int) (int, error) {
	if p == 0 {
		return model.PriorityDefault, nil
	}
	if !model.ValidPriority(p) {
		return 0, invalid("priority", "must be between 1 and 3")
	}
	return p, nil
}

func taskNamed(tasks []model.Task, name string) (model.Task, bool) {
	for _, t := range tasks {
		if sameName(t.Name, name) {
			return t, true
		}
	}
	return model.Task{}, false
}

func sameName(a, b string) bool {
	return search.Fold(strings.TrimSpace(a)) == search.Fold(strings.TrimSpace(b))
}
