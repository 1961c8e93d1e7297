package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DeleteTasksCascade deletes each task and every session filed for it. All
// tasks are attempted; failures are logged and returned together.
func (s *Store) DeleteTasksCascade(ctx context.Context, taskIDs []string) error {
	var result *multierror.Error
	for _, id := range taskIDs {
		n, err := s.DeleteSessionsForTask(ctx, id)
		if err != nil {
			s.l.Error("cascade: delete sessions", "task", id, "err", err)
			result = multierror.Append(result, err)
			continue
		}
		if err := s.DeleteTask(ctx, id); err != nil {
			s.l.Error("cascade: delete task", "task", id, "err", err)
			result = multierror.Append(result, err)
			continue
		}
		s.l.Debug("cascade: deleted task", "task", id, "sessions", n)
	}
	return result.ErrorOrNil()
}

// DeleteProjectCascade deletes a project, its tasks and their sessions. The
// project row is kept if any task could not be removed.
func (s *Store) DeleteProjectCascade(ctx context.Context, projectID string) error {
	tasks, err := s.ListTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	if err := s.DeleteTasksCascade(ctx, ids); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return s.DeleteProject(ctx, projectID)
}
