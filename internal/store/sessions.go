package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/activity/internal/model"
)

// InsertSession stores s together with its intervals.
func (s *Store) InsertSession(ctx context.Context, sess model.Session) error {
	s.l.Debug("inserting session", "id", sess.ID, "task", sess.TaskID, "intervals", len(sess.Intervals))
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, task_id, completion_date, created_at) VALUES (?, ?, ?, ?)`,
			sess.ID, sess.TaskID, formatTime(sess.CompletionDate), time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return insertIntervals(ctx, tx, sess.ID, sess.Intervals)
	})
}

// UpdateSession replaces the session's completion date and intervals.
func (s *Store) UpdateSession(ctx context.Context, sess model.Session) error {
	s.l.Debug("updating session", "id", sess.ID, "intervals", len(sess.Intervals))
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE sessions SET task_id = ?, completion_date = ? WHERE id = ?`,
			sess.TaskID, formatTime(sess.CompletionDate), sess.ID,
		)
		if err != nil {
			return fmt.Errorf("update session %s: %w", sess.ID, err)
		}
		if err := checkAffected(res); err != nil {
			return fmt.Errorf("update session %s: %w", sess.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM intervals WHERE session_id = ?`, sess.ID); err != nil {
			return fmt.Errorf("clear intervals: %w", err)
		}
		return insertIntervals(ctx, tx, sess.ID, sess.Intervals)
	})
}

func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	sessions, err := s.ListSessions(ctx, SessionFilter{ID: id})
	if err != nil {
		return model.Session{}, err
	}
	if len(sessions) == 0 {
		return model.Session{}, fmt.Errorf("get session %s: %w", id, ErrNotFound)
	}
	return sessions[0], nil
}

// ListSessions returns the sessions matching f ordered by completion date,
// then insertion. Intervals are loaded in recorded order.
func (s *Store) ListSessions(ctx context.Context, f SessionFilter) ([]model.Session, error) {
	where, args := f.where()
	query := `SELECT s.id, s.task_id, s.completion_date, i.start_time, i.end_time
		FROM sessions s
		LEFT JOIN intervals i ON i.session_id = s.id
		WHERE 1=1` + where + `
		ORDER BY s.completion_date, s.rowid, i.position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var id, taskID, completion string
		var start, end sql.NullString
		if err := rows.Scan(&id, &taskID, &completion, &start, &end); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if n := len(sessions); n == 0 || sessions[n-1].ID != id {
			date, err := parseTime(completion)
			if err != nil {
				return nil, err
			}
			sessions = append(sessions, model.Session{ID: id, TaskID: taskID, CompletionDate: date})
		}
		if !start.Valid || !end.Valid {
			continue
		}
		iv, err := parseInterval(start.String, end.String)
		if err != nil {
			return nil, err
		}
		last := &sessions[len(sessions)-1]
		last.Intervals = append(last.Intervals, iv)
	}
	return sessions, rows.Err()
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.l.Debug("deleting session", "id", id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteSessionsForTask removes every session filed for taskID and reports
// how many were removed.
func (s *Store) DeleteSessionsForTask(ctx context.Context, taskID string) (int64, error) {
	s.l.Debug("deleting sessions", "task", taskID)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE task_id = ?`, taskID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions for task %s: %w", taskID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SessionFilter narrows ListSessions. From is inclusive, To exclusive; both
// compare against the completion date.
type SessionFilter struct {
	ID     string
	TaskID string
	From   *time.Time
	To     *time.Time
}

func (f SessionFilter) where() (string, []any) {
	var b strings.Builder
	var args []any
	if f.ID != "" {
		b.WriteString(` AND s.id = ?`)
		args = append(args, f.ID)
	}
	if f.TaskID != "" {
		b.WriteString(` AND s.task_id = ?`)
		args = append(args, f.TaskID)
	}
	if f.From != nil {
		b.WriteString(` AND s.completion_date >= ?`)
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		b.WriteString(` AND s.completion_date < ?`)
		args = append(args, formatTime(*f.To))
	}
	return b.String(), args
}

func insertIntervals(ctx context.Context, tx *sql.Tx, sessionID string, intervals []model.Interval) error {
	for i, iv := range intervals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO intervals (session_id, position, start_time, end_time) VALUES (?, ?, ?, ?)`,
			sessionID, i, formatTime(iv.Start), formatTime(iv.End),
		)
		if err != nil {
			return fmt.Errorf("insert interval %d: %w", i, err)
		}
	}
	return nil
}

func parseInterval(start, end string) (model.Interval, error) {
	from, err := parseTime(start)
	if err != nil {
		return model.Interval{}, err
	}
	to, err := parseTime(end)
	if err != nil {
		return model.Interval{}, err
	}
	return model.Interval{Start: from, End: to}, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
