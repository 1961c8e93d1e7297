package store

import (
	"context"
	"fmt"

	"github.com/sadopc/activity/internal/model"
)

// ListTags returns the tag vocabulary in the order tags were added.
func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// InsertTag adds a tag to the vocabulary. Adding an existing name is a no-op.
func (s *Store) InsertTag(ctx context.Context, t model.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tags (name, position) VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tags))`,
		t.Name,
	)
	if err != nil {
		return fmt.Errorf("insert tag %q: %w", t.Name, err)
	}
	return nil
}

// DeleteTag removes a tag from the vocabulary. Tasks keep their tag strings.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete tag %q: %w", name, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete tag %q: %w", name, err)
	}
	return nil
}
