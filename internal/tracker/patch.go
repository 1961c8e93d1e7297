package tracker

import (
	"strings"
	"time"

	"github.com/sadopc/activity/internal/model"
)

type ProjectInput struct {
	Name      string
	StartDate time.Time // zero means now
	Priority  int       // zero means PriorityDefault
}

type TaskInput struct {
	Name       string
	Tags       []string
	StartDate  time.Time // zero means now
	Priority   int       // zero means PriorityDefault
	RepeatDays model.Weekdays
}

// ProjectPatch changes the non-nil fields of a project.
type ProjectPatch struct {
	Name      *string
	StartDate *time.Time
	Priority  *int
}

// TaskPatch changes the non-nil fields of a task. Moving a task between
// projects goes through MoveTasks.
type TaskPatch struct {
	Name       *string
	Tags       *[]string
	StartDate  *time.Time
	Priority   *int
	RepeatDays *model.Weekdays
}

// SettingsPatch changes the non-nil fields of the settings record. A pointer
// to an empty string clears a personal field.
type SettingsPatch struct {
	FirstName             *string
	LastName              *string
	Email                 *string
	Birthday              *time.Time
	ClearBirthday         bool
	AccentColor           *model.AccentColor
	NotificationTime      *model.HourAndMinute
	ClearNotificationTime bool
	FontSize              *float64
}

const (
	minFontSize = 8
	maxFontSize = 48
)

func (p ProjectPatch) apply(proj model.Project) (model.Project, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return proj, invalid("name", "required")
		}
		proj.Name = name
	}
	if p.StartDate != nil {
		if p.StartDate.IsZero() {
			return proj, invalid("start date", "required")
		}
		proj.StartDate = *p.StartDate
	}
	if p.Priority != nil {
		if !model.ValidPriority(*p.Priority) {
			return proj, invalid("priority", "must be between 1 and 3")
		}
		proj.Priority = *p.Priority
	}
	return proj, nil
}

func (p TaskPatch) apply(t model.Task) (model.Task, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return t, invalid("name", "required")
		}
		t.Name = name
	}
	if p.Tags != nil {
		t.Tags = cleanTags(*p.Tags)
	}
	if p.StartDate != nil {
		if p.StartDate.IsZero() {
			return t, invalid("start date", "required")
		}
		t.StartDate = *p.StartDate
	}
	if p.Priority != nil {
		if !model.ValidPriority(*p.Priority) {
			return t, invalid("priority", "must be between 1 and 3")
		}
		t.Priority = *p.Priority
	}
	if p.RepeatDays != nil {
		if !p.RepeatDays.Valid() {
			return t, invalid("repeat days", "unknown weekday")
		}
		t.RepeatDays = *p.RepeatDays
	}
	return t, nil
}

func (p SettingsPatch) apply(s model.Settings) (model.Settings, error) {
	s.FirstName = patchOptional(s.FirstName, p.FirstName)
	s.LastName = patchOptional(s.LastName, p.LastName)
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email != "" && !strings.Contains(email, "@") {
			return s, invalid("email", "must contain @")
		}
	}
	s.Email = patchOptional(s.Email, p.Email)

	switch {
	case p.ClearBirthday:
		s.Birthday = nil
	case p.Birthday != nil:
		b := *p.Birthday
		s.Birthday = &b
	}
	if p.AccentColor != nil {
		if !p.AccentColor.Valid() {
			return s, invalid("accent color", "unknown color")
		}
		s.AccentColor = *p.AccentColor
	}
	switch {
	case p.ClearNotificationTime:
		s.NotificationTime = nil
	case p.NotificationTime != nil:
		if !p.NotificationTime.Valid() {
			return s, invalid("notification time", "out of range")
		}
		hm := *p.NotificationTime
		s.NotificationTime = &hm
	}
	if p.FontSize != nil {
		if *p.FontSize < minFontSize || *p.FontSize > maxFontSize {
			return s, invalid("font size", "out of range")
		}
		s.FontSize = *p.FontSize
	}
	return s, nil
}

func patchOptional(cur, patch *string) *string {
	if patch == nil {
		return cur
	}
	v := strings.TrimSpace(*patch)
	if v == "" {
		return nil
	}
	return &v
}

// cleanTags trims tags and drops blanks and repeats, keeping order.
func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
