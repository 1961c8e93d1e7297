package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/report"
	"github.com/sadopc/activity/internal/tracker"
)

const cellWidth = 9

// calendarModel is a Monday-first month grid with the completion of every
// day. The cursor is a day; moving it past the month edge changes month.
type calendarModel struct {
	svc    *tracker.Service
	width  int
	height int

	cursor time.Time
	days   []report.Completion // index 0 is the 1st of cursor's month
}

func newCalendarModel(svc *tracker.Service) calendarModel {
	return calendarModel{
		svc:    svc,
		cursor: calendar.StartOfDay(svc.Now()),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	month time.Time
	days  []report.Completion
	err   error
}

// openDayMsg asks the app to show a day in the Today view.
type openDayMsg struct {
	day time.Time
}

func (c calendarModel) refresh() tea.Cmd {
	month := calendar.StartOfMonth(c.cursor)
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		days, err := c.svc.MonthCompletion(ctx, month)
		return calendarDataMsg{month: month, days: days, err: err}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		if msg.err != nil {
			return c, errStatus("Load error", msg.err)
		}
		if msg.month.Equal(calendar.StartOfMonth(c.cursor)) {
			c.days = msg.days
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return c.move(-1)
		case key.Matches(msg, keys.Right):
			return c.move(1)
		case key.Matches(msg, keys.Up):
			return c.move(-7)
		case key.Matches(msg, keys.Down):
			return c.move(7)
		case key.Matches(msg, keys.Today):
			c.cursor = calendar.StartOfDay(c.svc.Now())
			return c, c.refresh()
		case key.Matches(msg, keys.Enter):
			day := c.cursor
			return c, func() tea.Msg { return openDayMsg{day: day} }
		}
	}
	return c, nil
}

func (c calendarModel) move(days int) (calendarModel, tea.Cmd) {
	prev := c.cursor
	c.cursor = calendar.AddDays(c.cursor, days)
	if prev.Month() != c.cursor.Month() || prev.Year() != c.cursor.Year() {
		c.days = nil
		return c, c.refresh()
	}
	return c, nil
}

// completion is the status of day n (1-based) of the shown month.
func (c calendarModel) completion(n int) (report.Completion, bool) {
	if n < 1 || n > len(c.days) {
		return report.Completion{}, false
	}
	return c.days[n-1], true
}

func (c calendarModel) view() string {
	w := c.width - 4
	title := titleStyle.Render(c.cursor.Format("January 2006"))

	var header []string
	for _, d := range model.AllWeekdays {
		header = append(header, mutedStyle.Width(cellWidth).Render(d.Short()))
	}

	rows := []string{title, "", lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	rows = append(rows, c.grid()...)

	due, done := 0, 0
	for _, d := range c.days {
		due += d.Due
		done += d.Done
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d of %d due tasks done this month", done, due)))
	rows = append(rows, mutedStyle.Render("  ←/→/↑/↓: move  enter: open day  .: today"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c calendarModel) grid() []string {
	today := c.svc.Now()
	blanks := calendar.LeadingBlankCells(c.cursor)
	total := calendar.DaysInMonth(c.cursor)

	var lines []string
	var cells []string
	for i := 0; i < blanks; i++ {
		cells = append(cells, lipgloss.NewStyle().Width(cellWidth).Render(""))
	}
	for n := 1; n <= total; n++ {
		day := time.Date(c.cursor.Year(), c.cursor.Month(), n, 0, 0, 0, 0, c.cursor.Location())
		cells = append(cells, c.renderCell(n, calendar.SameDay(day, c.cursor), calendar.SameDay(day, today)))
		if len(cells) == 7 {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			cells = nil
		}
	}
	if len(cells) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lines
}

func (c calendarModel) renderCell(n int, selected, today bool) string {
	label := fmt.Sprintf("%2d", n)
	status := ""
	style := normalItemStyle
	if comp, ok := c.completion(n); ok && comp.Due > 0 {
		status = fmt.Sprintf(" %d/%d", comp.Done, comp.Due)
		if comp.Complete() {
			style = dayCompleteStyle
		} else {
			style = dayPendingStyle
		}
	}
	if today {
		style = style.Inherit(todayCellStyle)
	}
	if selected {
		style = selectedItemStyle.Reverse(true)
	}
	return lipgloss.NewStyle().Width(cellWidth).Render(style.Render(label + status))
}
