package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/activity/internal/model"
)

const selectProjects = `SELECT id, name, start_date, priority FROM projects`

// InsertProject stores p without its tasks. New projects go after existing ones.
func (s *Store) InsertProject(ctx context.Context, p model.Project) error {
	now := time.Now().UTC().Format(time.RFC3339)
	s.l.Debug("inserting project", "id", p.ID, "name", p.Name)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, start_date, priority, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM projects), ?, ?)`,
		p.ID, p.Name, formatTime(p.StartDate), p.Priority, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetProject loads a project with its tasks.
func (s *Store) GetProject(ctx context.Context, id string) (model.Project, error) {
	row := s.db.QueryRowContext(ctx, selectProjects+` WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return model.Project{}, fmt.Errorf("get project %s: %w", id, notFound(err))
	}
	p.Tasks, err = s.ListTasks(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// ListProjects loads every project with its tasks, in creation order.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, selectProjects+` ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	tasks, err := s.listAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Tasks = tasks[projects[i].ID]
	}
	return projects, nil
}

// UpdateProject writes the project's own fields. Tasks are untouched.
func (s *Store) UpdateProject(ctx context.Context, p model.Project) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, start_date = ?, priority = ?, updated_at = ? WHERE id = ?`,
		p.Name, formatTime(p.StartDate), p.Priority, now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	return nil
}

// DeleteProject removes the project row only. It fails while tasks still
// reference the project; use DeleteProjectCascade.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.l.Debug("deleting project", "id", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func scanProject(sc scanner) (model.Project, error) {
	var p model.Project
	var startDate string
	if err := sc.Scan(&p.ID, &p.Name, &startDate, &p.Priority); err != nil {
		return model.Project{}, err
	}
	var err error
	p.StartDate, err = parseTime(startDate)
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}
