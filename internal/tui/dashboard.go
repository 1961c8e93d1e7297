package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/activity/internal/calendar"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/tracker"
)

type dashboardForm int

const (
	formNone dashboardForm = iota
	formManual
	formDiscard
)

// dashboardModel is the Today view: the tasks due on the selected day and the
// stopwatch that records time against them.
type dashboardModel struct {
	svc    *tracker.Service
	timer  timerModel
	width  int
	height int

	day    time.Time
	due    []tracker.DueTask
	cursor int

	formActive bool
	formKind   dashboardForm
	form       *huh.Form

	// Form field pointers (survive value copies)
	manualStart *string
	manualEnd   *string
	confirm     *bool
}

func newDashboardModel(svc *tracker.Service) dashboardModel {
	start, end, confirm := "", "", false
	return dashboardModel{
		svc:         svc,
		timer:       newTimerModel(svc),
		day:         calendar.StartOfDay(svc.Now()),
		manualStart: &start,
		manualEnd:   &end,
		confirm:     &confirm,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.active() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	day time.Time
	due []tracker.DueTask
	err error
}

func (d dashboardModel) loadData() tea.Cmd {
	day := d.day
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		due, err := d.svc.TasksOn(ctx, day)
		return dashboardDataMsg{day: day, due: due, err: err}
	}
}

func (d dashboardModel) selected() (tracker.DueTask, bool) {
	if d.cursor < 0 || d.cursor >= len(d.due) {
		return tracker.DueTask{}, false
	}
	return d.due[d.cursor], true
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		if !calendar.SameDay(msg.day, d.day) {
			return d, nil
		}
		if msg.err != nil {
			return d, errStatus("Load error", msg.err)
		}
		d.due = msg.due
		d.cursor = clamp(d.cursor, 0, len(d.due)-1)
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case tea.KeyMsg:
		d.timer.recordActivity()

		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.due)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Left):
			return d.shiftDay(-1)
		case key.Matches(msg, keys.Right):
			return d.shiftDay(1)
		case key.Matches(msg, keys.Today):
			d.day = calendar.StartOfDay(d.svc.Now())
			d.cursor = 0
			return d, d.loadData()

		case key.Matches(msg, keys.Start):
			return d.startTimer()
		case key.Matches(msg, keys.Finish):
			return d.finishTimer()
		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		case key.Matches(msg, keys.Manual):
			return d.showManualForm()
		case key.Matches(msg, keys.Discard):
			return d.discard()
		}
	}
	return d, nil
}

func (d dashboardModel) shiftDay(n int) (dashboardModel, tea.Cmd) {
	d.day = calendar.AddDays(d.day, n)
	d.cursor = 0
	return d, d.loadData()
}

// showDay jumps to day, as when a calendar cell is opened.
func (d dashboardModel) showDay(day time.Time) (dashboardModel, tea.Cmd) {
	d.day = calendar.StartOfDay(day)
	d.cursor = 0
	return d, d.loadData()
}

func (d dashboardModel) startTimer() (dashboardModel, tea.Cmd) {
	if d.timer.active() {
		return d, infoStatus("Already tracking " + d.timer.taskName)
	}
	dt, ok := d.selected()
	if !ok {
		return d, errStatus("Start", fmt.Errorf("nothing due on %s", d.day.Format("Jan 2")))
	}
	ctx, cancel := serviceCtx()
	defer cancel()
	if err := d.timer.start(ctx, dt.Task, dt.ProjectName, d.day); err != nil {
		return d, errStatus("Start", err)
	}
	name := dt.Task.Name
	return d, func() tea.Msg { return trackingStartedMsg{taskName: name} }
}

func (d dashboardModel) finishTimer() (dashboardModel, tea.Cmd) {
	if !d.timer.active() {
		return d, nil
	}
	ctx, cancel := serviceCtx()
	defer cancel()
	sess, err := d.timer.finish(ctx)
	if err != nil {
		return d, tea.Batch(d.loadData(), errStatus("Finish", err))
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return trackingFinishedMsg{session: sess} },
	)
}

// discard throws away the running stopwatch, or asks before deleting all
// time recorded for the selected task.
func (d dashboardModel) discard() (dashboardModel, tea.Cmd) {
	if d.timer.active() {
		d.timer.discard()
		return d, infoStatus("Stopwatch discarded")
	}
	dt, ok := d.selected()
	if !ok {
		return d, nil
	}
	*d.confirm = false
	d.formKind = formDiscard
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Discard all time recorded for %s?", dt.Task.Name)).
				Affirmative("Discard").
				Negative("Keep").
				Value(d.confirm),
		),
	).WithShowHelp(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showManualForm() (dashboardModel, tea.Cmd) {
	if _, ok := d.selected(); !ok {
		return d, nil
	}
	*d.manualStart = ""
	*d.manualEnd = ""
	d.formKind = formManual

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (HH:MM)").Value(d.manualStart).Validate(validClock),
			huh.NewInput().Title("End (HH:MM)").Value(d.manualEnd).Validate(validClock),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func validClock(s string) error {
	_, err := model.ParseHourAndMinute(strings.TrimSpace(s))
	return err
}

func clockTime(s string) time.Time {
	hm, _ := model.ParseHourAndMinute(strings.TrimSpace(s))
	return time.Date(2000, 1, 1, hm.Hour, hm.Minute, 0, 0, time.Local)
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State != huh.StateCompleted {
		return d, cmd
	}
	d.formActive = false
	d.form = nil

	dt, ok := d.selected()
	if !ok {
		return d, nil
	}
	switch d.formKind {
	case formManual:
		return d, d.addManualEntry(dt.Task.ID, *d.manualStart, *d.manualEnd)
	case formDiscard:
		if *d.confirm {
			return d, d.discardSessions(dt.Task.ID)
		}
	}
	return d, nil
}

func (d dashboardModel) addManualEntry(taskID, start, end string) tea.Cmd {
	return tea.Sequence(d.manualEntry(taskID, start, end), d.loadData())
}

func (d dashboardModel) manualEntry(taskID, start, end string) tea.Cmd {
	day := d.day
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		sess, err := d.svc.AddManualEntry(ctx, taskID, day, clockTime(start), clockTime(end))
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Manual entry: %v", err), isError: true}
		}
		return trackingFinishedMsg{session: sess}
	}
}

func (d dashboardModel) discardSessions(taskID string) tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		n, err := d.svc.DiscardSessions(ctx, taskID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Discard: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Discarded %d sessions", n)}
	}, d.loadData())
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Manual Entry")
		if d.formKind == formDiscard {
			title = titleStyle.Render("Discard Time")
		}
		return panelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderDuePanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.active() {
		timeStr := formatDuration(d.timer.currentElapsed())

		var timeDisplay, indicator string
		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  PAUSED")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}

		taskLine := highlightStyle.Render(d.timer.taskName)
		if d.timer.projectName != "" {
			taskLine = mutedStyle.Render(d.timer.projectName+" / ") + taskLine
		}
		if d.timer.tracking.Continues() {
			taskLine += accentStyle.Render("  (continuing)")
		}

		content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, taskLine)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		subtitleStyle.Render("Select a task and press s to start tracking"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) dayTitle() string {
	now := d.svc.Now()
	switch {
	case calendar.SameDay(d.day, now):
		return "Today"
	case calendar.SameDay(d.day, calendar.AddDays(now, -1)):
		return "Yesterday"
	case calendar.SameDay(d.day, calendar.AddDays(now, 1)):
		return "Tomorrow"
	}
	return d.day.Format("Monday, Jan 2")
}

func (d dashboardModel) renderDuePanel(w int) string {
	done := 0
	var total time.Duration
	for _, dt := range d.due {
		if dt.Done() {
			done++
		}
		total += dt.Tracked()
	}
	header := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render(d.dayTitle()),
		highlightStyle.Render(fmt.Sprintf("%d/%d done", done, len(d.due))),
		mutedStyle.Render(formatTotal(total)),
	)

	if len(d.due) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("Nothing due. Press 2 to add tasks."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := d.svc.Now()
	rows := []string{header}
	for i, dt := range d.due {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := mutedStyle.Render("○")
		if dt.Done() {
			status = successStyle.Render("✓")
		}
		if d.timer.taskID() == dt.Task.ID {
			status = successStyle.Render("●")
		}
		last := "never tracked"
		if !dt.LastTracked.IsZero() {
			last = humanize.RelTime(dt.LastTracked, now, "ago", "from now")
		}
		row := fmt.Sprintf("%s%s %-22s %-16s %8s", cursor, status, dt.Task.Name, dt.ProjectName, formatTotal(dt.Tracked()))
		rows = append(rows, style.Render(row)+mutedStyle.Render("  "+last))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start  x: finish  space: pause  m: manual  D: discard  ←/→: day  .: today"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
