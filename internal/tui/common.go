package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/stopwatch"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewProjects
	viewCalendar
	viewReports
	viewSettings
)

var viewNames = []string{"Today", "Projects", "Calendar", "Reports", "Settings"}

// storeTimeout bounds every service call issued from a tea.Cmd.
const storeTimeout = 5 * time.Second

// --- Messages ---

type trackingStartedMsg struct {
	taskName string
}

type trackingFinishedMsg struct {
	session model.Session
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type settingsChangedMsg struct {
	settings model.Settings
}

// --- Helpers ---

func serviceCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func formatDuration(d time.Duration) string {
	return stopwatch.FormatClock(d)
}

// formatTotal is the compact form used in lists; zero shows as a dash.
func formatTotal(d time.Duration) string {
	if s := stopwatch.FormatCompact(d); s != "" {
		return s
	}
	return "-"
}

func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.1fh", d.Hours())
}

func priorityLabel(p int) string {
	switch p {
	case model.PriorityLow:
		return "low"
	case model.PriorityHigh:
		return "high"
	}
	return "normal"
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
