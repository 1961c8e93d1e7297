package tracker

import (
	"context"

	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/store"
)

// Store is the persistence the service needs. *store.Store implements it.
type Store interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	InsertProject(ctx context.Context, p model.Project) error
	UpdateProject(ctx context.Context, p model.Project) error
	DeleteProjectCascade(ctx context.Context, id string) error

	GetTask(ctx context.Context, id string) (model.Task, error)
	InsertTask(ctx context.Context, t model.Task) error
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTasksCascade(ctx context.Context, ids []string) error

	ListSessions(ctx context.Context, f store.SessionFilter) ([]model.Session, error)
	InsertSession(ctx context.Context, s model.Session) error
	UpdateSession(ctx context.Context, s model.Session) error
	DeleteSessionsForTask(ctx context.Context, taskID string) (int64, error)

	LoadSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error
	InsertTag(ctx context.Context, t model.Tag) error
	DeleteTag(ctx context.Context, name string) error
}

var _ Store = (*store.Store)(nil)
