package tracker

import (
	"context"
	"strings"

	"github.com/sadopc/activity/internal/model"
)

func (s *Service) Settings(ctx context.Context) (model.Settings, error) {
	set, err := s.store.LoadSettings(ctx)
	if err != nil {
		return model.Settings{}, persist("load settings", err)
	}
	return set, nil
}

// SaveSettings validates and stores patch. The returned settings are what was
// written.
func (s *Service) SaveSettings(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	cur, err := s.Settings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	updated, err := patch.apply(cur)
	if err != nil {
		return model.Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, updated); err != nil {
		return model.Settings{}, persist("save settings", err)
	}
	s.l.Debug("saved settings", "accent", updated.AccentColor, "font_size", updated.FontSize)
	return updated, nil
}

// AddTag adds name to the tag vocabulary.
func (s *Service) AddTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("tag", "required")
	}
	return persist("add tag", s.store.InsertTag(ctx, model.Tag{Name: name}))
}

// RemoveTag drops name from the vocabulary. Tasks tagged with it keep the tag.
func (s *Service) RemoveTag(ctx context.Context, name string) error {
	return persist("remove tag", s.store.DeleteTag(ctx, name))
}
