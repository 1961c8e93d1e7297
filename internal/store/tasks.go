package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/activity/internal/model"
)

const selectTasks = `SELECT id, project_id, name, tags, start_date, priority, repeat_days FROM tasks`

// InsertTask appends t to the end of its project's task list.
func (s *Store) InsertTask(ctx context.Context, t model.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	s.l.Debug("inserting task", "id", t.ID, "project", t.ProjectID, "name", t.Name)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, name, tags, start_date, priority, repeat_days, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE project_id = ?), ?, ?)`,
		t.ID, t.ProjectID, t.Name, tags, formatTime(t.StartDate), t.Priority, int(t.RepeatDays), t.ProjectID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTasks+` WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, notFound(err))
	}
	return t, nil
}

// ListTasks returns a project's tasks in list order.
func (s *Store) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTasks+` WHERE project_id = ? ORDER BY position, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) listAllTasks(ctx context.Context) (map[string][]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectTasks+` ORDER BY project_id, position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	byProject := make(map[string][]model.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	return byProject, rows.Err()
}

// UpdateTask writes every field of t. A changed ProjectID moves the task to
// the end of the target project's list.
func (s *Store) UpdateTask(ctx context.Context, t model.Task) error {
	tags, err := encodeTags(t.Tags)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET
			position = CASE WHEN project_id = ? THEN position
				ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE project_id = ?) END,
			project_id = ?, name = ?, tags = ?, start_date = ?, priority = ?, repeat_days = ?, updated_at = ?
		 WHERE id = ?`,
		t.ProjectID, t.ProjectID,
		t.ProjectID, t.Name, tags, formatTime(t.StartDate), t.Priority, int(t.RepeatDays), now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTask removes the task row only. Its sessions are left alone; use
// DeleteTasksCascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.l.Debug("deleting task", "id", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func scanTask(sc scanner) (model.Task, error) {
	var t model.Task
	var tags, startDate string
	var repeat int
	if err := sc.Scan(&t.ID, &t.ProjectID, &t.Name, &tags, &startDate, &t.Priority, &repeat); err != nil {
		return model.Task{}, err
	}
	var err error
	if t.StartDate, err = parseTime(startDate); err != nil {
		return model.Task{}, err
	}
	if t.Tags, err = decodeTags(tags); err != nil {
		return model.Task{}, err
	}
	t.RepeatDays = model.Weekdays(repeat).Sanitize()
	return t, nil
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	var tags []string
	if s == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}
