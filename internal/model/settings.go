package model

import (
	"fmt"
	"time"
)

type AccentColor string

const (
	AccentRed    AccentColor = "red"
	AccentGreen  AccentColor = "green"
	AccentBlue   AccentColor = "blue"
	AccentYellow AccentColor = "yellow"
	AccentPurple AccentColor = "purple"
)

var AccentColors = []AccentColor{AccentRed, AccentGreen, AccentBlue, AccentYellow, AccentPurple}

func (c AccentColor) Valid() bool {
	for _, a := range AccentColors {
		if a == c {
			return true
		}
	}
	return false
}

// Hex is the terminal color used for the accent.
func (c AccentColor) Hex() string {
	switch c {
	case AccentRed:
		return "#E74C3C"
	case AccentGreen:
		return "#2ECC71"
	case AccentBlue:
		return "#3498DB"
	case AccentPurple:
		return "#9B59B6"
	default:
		return "#F1C40F"
	}
}

// HourAndMinute is a time of day without a date.
type HourAndMinute struct {
	Hour   int
	Minute int
}

func (h HourAndMinute) Valid() bool {
	return h.Hour >= 0 && h.Hour < 24 && h.Minute >= 0 && h.Minute < 60
}

func (h HourAndMinute) String() string {
	return fmt.Sprintf("%02d:%02d", h.Hour, h.Minute)
}

// ParseHourAndMinute parses "HH:MM".
func ParseHourAndMinute(s string) (HourAndMinute, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return HourAndMinute{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return HourAndMinute{Hour: t.Hour(), Minute: t.Minute()}, nil
}

const DefaultFontSize = 14

type Settings struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Birthday         *time.Time
	AccentColor      AccentColor
	AvailableTags    []Tag
	NotificationTime *HourAndMinute
	FontSize         float64
}

func DefaultSettings() Settings {
	return Settings{
		AccentColor: AccentYellow,
		FontSize:    DefaultFontSize,
	}
}

// HasTag reports whether name is in the tag vocabulary (exact match).
func (s Settings) HasTag(name string) bool {
	for _, t := range s.AvailableTags {
		if t.Name == name {
			return true
		}
	}
	return false
}
