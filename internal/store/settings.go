package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/activity/internal/model"
)

const (
	keyFirstName        = "first_name"
	keyLastName         = "last_name"
	keyEmail            = "email"
	keyBirthday         = "birthday"
	keyAccentColor      = "accent_color"
	keyNotificationTime = "notification_time"
	keyFontSize         = "font_size"
)

const birthdayLayout = "2006-01-02"

type Setting struct {
	Key   string
	Value string
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, notFound(err))
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings assembles the settings record. Unset or unreadable values
// fall back to their defaults.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	out := model.DefaultSettings()
	for _, kv := range all {
		v := kv.Value
		switch kv.Key {
		case keyFirstName:
			out.FirstName = &v
		case keyLastName:
			out.LastName = &v
		case keyEmail:
			out.Email = &v
		case keyBirthday:
			if t, err := time.ParseInLocation(birthdayLayout, v, time.Local); err == nil {
				out.Birthday = &t
			} else {
				s.l.Warn("ignoring stored birthday", "value", v, "err", err)
			}
		case keyAccentColor:
			if c := model.AccentColor(v); c.Valid() {
				out.AccentColor = c
			}
		case keyNotificationTime:
			if hm, err := model.ParseHourAndMinute(v); err == nil {
				out.NotificationTime = &hm
			} else {
				s.l.Warn("ignoring stored notification time", "value", v, "err", err)
			}
		case keyFontSize:
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				out.FontSize = f
			}
		}
	}
	out.AvailableTags, err = s.ListTags(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	return out, nil
}

// SaveSettings writes every scalar field of set. Nil optional fields are
// removed. The tag vocabulary is managed with InsertTag and DeleteTag.
func (s *Store) SaveSettings(ctx context.Context, set model.Settings) error {
	values := map[string]*string{
		keyFirstName:   set.FirstName,
		keyLastName:    set.LastName,
		keyEmail:       set.Email,
		keyAccentColor: ptr(string(set.AccentColor)),
		keyFontSize:    ptr(strconv.FormatFloat(set.FontSize, 'f', -1, 64)),
	}
	values[keyBirthday] = nil
	if set.Birthday != nil {
		values[keyBirthday] = ptr(set.Birthday.Format(birthdayLayout))
	}
	values[keyNotificationTime] = nil
	if set.NotificationTime != nil {
		values[keyNotificationTime] = ptr(set.NotificationTime.String())
	}

	s.l.Debug("saving settings")
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for key, v := range values {
			var err error
			if v == nil {
				_, err = tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
			} else {
				_, err = tx.ExecContext(ctx,
					`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
					key, *v,
				)
			}
			if err != nil {
				return fmt.Errorf("save setting %q: %w", key, err)
			}
		}
		return nil
	})
}

func ptr[T any](v T) *T {
	return &v
}
