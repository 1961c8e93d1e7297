package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/report"
	"github.com/sadopc/activity/internal/search"
	"github.com/sadopc/activity/internal/store"
	"github.com/sadopc/activity/internal/tracker"
)

var fixedNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local) // Wednesday

func newTestService(t *testing.T) *tracker.Service {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return tracker.NewService(s, tracker.WithClock(func() time.Time { return fixedNow }))
}

// seed creates a project with one task due every day since Jan 1.
func seed(t *testing.T, svc *tracker.Service) (model.Project, model.Task) {
	t.Helper()
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, tracker.ProjectInput{Name: "Fitness"})
	if err != nil {
		t.Fatal(err)
	}
	task, err := svc.CreateTask(ctx, p.ID, tracker.TaskInput{
		Name:       "Run",
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		RepeatDays: model.EveryDay,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p, task
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Timer model
// ============================================================

func TestTimerStartFinish(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	ctx := context.Background()

	tm := newTimerModel(svc)
	if tm.active() {
		t.Fatal("timer should start inactive")
	}

	if err := tm.start(ctx, task, "Fitness", fixedNow); err != nil {
		t.Fatal(err)
	}
	if !tm.running() || tm.paused() {
		t.Fatal("timer should be running after start")
	}
	if tm.taskID() != task.ID || tm.taskName != "Run" || tm.projectName != "Fitness" {
		t.Fatal("task info not set")
	}

	time.Sleep(10 * time.Millisecond)
	sess, err := tm.finish(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sess.TaskID != task.ID || len(sess.Intervals) != 1 {
		t.Fatalf("unexpected session %+v", sess)
	}
	if tm.active() {
		t.Fatal("timer should be inactive after finish")
	}

	if _, ok, err := svc.SessionFor(ctx, task.ID, fixedNow); err != nil || !ok {
		t.Fatalf("session not persisted: %v %v", ok, err)
	}
}

// flakyStore fails session inserts while err is set.
type flakyStore struct {
	*store.Store
	err error
}

func (f *flakyStore) InsertSession(ctx context.Context, s model.Session) error {
	if f.err != nil {
		return f.err
	}
	return f.Store.InsertSession(ctx, s)
}

func TestTimerFinishFailureKeepsTracking(t *testing.T) {
	st, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	flaky := &flakyStore{Store: st}
	svc := tracker.NewService(flaky, tracker.WithClock(func() time.Time { return fixedNow }))
	_, task := seed(t, svc)
	ctx := context.Background()

	tm := newTimerModel(svc)
	if err := tm.start(ctx, task, "Fitness", fixedNow); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	flaky.err = errors.New("disk full")
	if _, err := tm.finish(ctx); !errors.Is(err, tracker.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !tm.active() {
		t.Fatal("a failed write must keep the tracked time")
	}
	recorded := tm.currentElapsed()
	if recorded <= 0 {
		t.Fatal("elapsed time should survive the failed write")
	}

	flaky.err = nil
	sess, err := tm.finish(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tm.active() {
		t.Fatal("timer should be inactive after a successful retry")
	}
	if len(sess.Intervals) != 1 || report.TotalDuration(sess) != recorded {
		t.Fatalf("retry should persist the original interval, got %+v", sess)
	}
	if _, ok, _ := svc.SessionFor(ctx, task.ID, fixedNow); !ok {
		t.Fatal("session not persisted after retry")
	}
}

func TestTimerStartContinuesDay(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	ctx := context.Background()

	tm := newTimerModel(svc)
	tm.start(ctx, task, "Fitness", fixedNow)
	time.Sleep(5 * time.Millisecond)
	if _, err := tm.finish(ctx); err != nil {
		t.Fatal(err)
	}

	tm.start(ctx, task, "Fitness", fixedNow)
	if !tm.tracking.Continues() {
		t.Fatal("second start on the same day should continue the session")
	}
	time.Sleep(5 * time.Millisecond)
	sess, err := tm.finish(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(sess.Intervals))
	}
}

func TestTimerStartUnknownTask(t *testing.T) {
	svc := newTestService(t)
	tm := newTimerModel(svc)
	if err := tm.start(context.Background(), model.Task{ID: "missing"}, "", fixedNow); err == nil {
		t.Fatal("expected error for unknown task")
	}
	if tm.active() {
		t.Fatal("timer should stay inactive")
	}
}

func TestTimerFinishWhenInactive(t *testing.T) {
	svc := newTestService(t)
	tm := newTimerModel(svc)

	sess, err := tm.finish(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != "" {
		t.Fatal("finish on inactive timer should return nothing")
	}
}

func TestTimerToggle(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)

	tm := newTimerModel(svc)
	tm.toggle() // no-op when inactive
	if tm.active() {
		t.Fatal("toggle should not start a timer")
	}

	tm.start(context.Background(), task, "Fitness", fixedNow)
	tm.toggle()
	if !tm.paused() {
		t.Fatal("toggle should pause")
	}
	frozen := tm.currentElapsed()
	time.Sleep(5 * time.Millisecond)
	if tm.currentElapsed() != frozen {
		t.Fatal("elapsed should not grow while paused")
	}
	tm.toggle()
	if !tm.running() {
		t.Fatal("toggle should resume")
	}
	tm.discard()
}

func TestTimerDiscard(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	ctx := context.Background()

	tm := newTimerModel(svc)
	tm.start(ctx, task, "Fitness", fixedNow)
	time.Sleep(5 * time.Millisecond)
	tm.discard()

	if tm.active() || tm.currentElapsed() != 0 {
		t.Fatal("discard should drop the stopwatch")
	}
	if _, ok, _ := svc.SessionFor(ctx, task.ID, fixedNow); ok {
		t.Fatal("discard must not persist anything")
	}
}

func TestTimerIdleDetection(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)

	now := time.Now()
	tm := newTimerModel(svc)
	tm.now = func() time.Time { return now }
	tm.idleTimeout = time.Minute
	tm.start(context.Background(), task, "Fitness", fixedNow)

	now = now.Add(30 * time.Second)
	tm.tick()
	if tm.isIdle || tm.paused() {
		t.Fatal("should not be idle before the timeout")
	}

	now = now.Add(time.Minute)
	tm.tick()
	if !tm.isIdle || !tm.paused() {
		t.Fatal("should auto-pause when idle")
	}

	tm.recordActivity()
	if tm.isIdle || !tm.running() {
		t.Fatal("activity should resume an idle pause")
	}
	tm.discard()
}

func TestTimerManualPauseSurvivesActivity(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)

	tm := newTimerModel(svc)
	tm.start(context.Background(), task, "Fitness", fixedNow)
	tm.pause()
	tm.recordActivity()
	if !tm.paused() {
		t.Fatal("activity must not resume a manual pause")
	}
	tm.discard()
}

// ============================================================
// Helpers
// ============================================================

func TestFormatTotal(t *testing.T) {
	if got := formatTotal(0); got != "-" {
		t.Fatalf("formatTotal(0) = %q", got)
	}
	if got := formatTotal(90 * time.Minute); got == "-" || got == "" {
		t.Fatalf("formatTotal(90m) = %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0h"},
		{30 * time.Minute, "0.5h"},
		{90 * time.Minute, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.d); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{3, 0, -1, 0}, // empty list
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestPriorityLabel(t *testing.T) {
	if priorityLabel(model.PriorityLow) != "low" || priorityLabel(model.PriorityHigh) != "high" || priorityLabel(model.PriorityDefault) != "normal" {
		t.Fatal("unexpected priority labels")
	}
}

func TestSortProjects(t *testing.T) {
	projects := []model.Project{
		{Name: "b", Priority: model.PriorityDefault},
		{Name: "Z", Priority: model.PriorityHigh},
		{Name: "a", Priority: model.PriorityDefault},
		{Name: "c", Priority: model.PriorityLow},
	}
	sortProjects(projects)
	want := []string{"Z", "a", "b", "c"}
	for i, p := range projects {
		if p.Name != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, p.Name, want[i])
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" morning, ,outdoor ,")
	if len(got) != 2 || got[0] != "morning" || got[1] != "outdoor" {
		t.Fatalf("unexpected tags %q", got)
	}
	if splitTags("") != nil {
		t.Fatal("blank input should give no tags")
	}
}

func TestMatchSummary(t *testing.T) {
	p := model.Project{Name: "Run club", Tasks: []model.Task{{ID: "t1", Name: "Long run", Tags: []string{"running"}}}}
	m := search.Search([]model.Project{p}, "run")[0]
	got := matchSummary(m)
	for _, want := range []string{"name", "task Long run", "#running"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if truncate("short", 10) != "short" {
		t.Fatal("short strings stay as they are")
	}
	if got := truncate("stretching", 5); got != "stre…" {
		t.Fatalf("got %q", got)
	}
}

func TestRequired(t *testing.T) {
	check := required("name")
	if check("  ") == nil {
		t.Fatal("blank should fail")
	}
	if check("x") != nil {
		t.Fatal("non-blank should pass")
	}
}

func TestValidClock(t *testing.T) {
	if validClock("09:30") != nil {
		t.Fatal("09:30 should be valid")
	}
	if validClock("25:00") == nil || validClock("nine") == nil {
		t.Fatal("expected invalid clock times to fail")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	if viewNames[viewToday] != "Today" || viewNames[viewCalendar] != "Calendar" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

// ============================================================
// Today view
// ============================================================

func loadedDashboard(t *testing.T, svc *tracker.Service) dashboardModel {
	t.Helper()
	d := newDashboardModel(svc)
	d.setSize(120, 40)
	d, _ = d.update(d.loadData()())
	return d
}

func TestDashboardLoadsDueTasks(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc)

	d := loadedDashboard(t, svc)
	if len(d.due) != 1 || d.due[0].Task.Name != "Run" || d.due[0].ProjectName != "Fitness" {
		t.Fatalf("unexpected due list %+v", d.due)
	}
	if !strings.Contains(d.view(), "Run") {
		t.Fatal("view should list the due task")
	}
}

func TestDashboardStartFinish(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	d := loadedDashboard(t, svc)

	d, cmd := d.update(runes("s"))
	if !d.isRunning() {
		t.Fatal("s should start the stopwatch")
	}
	if msg, ok := cmd().(trackingStartedMsg); !ok || msg.taskName != "Run" {
		t.Fatalf("expected trackingStartedMsg, got %#v", msg)
	}
	if !strings.Contains(d.view(), "RUNNING") {
		t.Fatal("timer panel should show RUNNING")
	}

	time.Sleep(10 * time.Millisecond)
	d, _ = d.update(runes("x"))
	if d.isRunning() {
		t.Fatal("x should finish the stopwatch")
	}
	if _, ok, _ := svc.SessionFor(context.Background(), task.ID, fixedNow); !ok {
		t.Fatal("finish should record a session")
	}
}

func TestDashboardStartWithNothingDue(t *testing.T) {
	svc := newTestService(t)
	d := loadedDashboard(t, svc)

	d, cmd := d.update(runes("s"))
	if d.isRunning() {
		t.Fatal("nothing to start")
	}
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestDashboardDayNavigation(t *testing.T) {
	svc := newTestService(t)
	d := loadedDashboard(t, svc)

	d, _ = d.update(runes("h"))
	if d.day.Day() != 2 {
		t.Fatalf("expected Jan 2, got %v", d.day)
	}
	d, _ = d.update(runes("."))
	if d.day.Day() != 3 {
		t.Fatalf("expected today, got %v", d.day)
	}

	// Results for another day are dropped.
	d, _ = d.update(dashboardDataMsg{day: fixedNow.AddDate(0, 0, 5), due: []tracker.DueTask{{}}})
	if len(d.due) != 0 {
		t.Fatal("stale day data should be ignored")
	}
}

func TestDashboardManualEntry(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	d := loadedDashboard(t, svc)

	msg := d.manualEntry(task.ID, "09:00", "09:45")()
	if _, ok := msg.(trackingFinishedMsg); !ok {
		t.Fatalf("expected trackingFinishedMsg, got %#v", msg)
	}
	sess, ok, _ := svc.SessionFor(context.Background(), task.ID, fixedNow)
	if !ok || report.TotalDuration(sess) != 45*time.Minute {
		t.Fatalf("unexpected session %+v", sess)
	}
}

// ============================================================
// Calendar
// ============================================================

func TestCalendarCompletion(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	ctx := context.Background()
	if _, err := svc.AddManualEntry(ctx, task.ID, fixedNow,
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local),
		time.Date(2024, 1, 3, 9, 30, 0, 0, time.Local)); err != nil {
		t.Fatal(err)
	}

	c := newCalendarModel(svc)
	c.setSize(120, 40)
	c, _ = c.update(c.refresh()())

	if len(c.days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(c.days))
	}
	if got, _ := c.completion(3); !got.Complete() {
		t.Fatalf("Jan 3 should be complete, got %+v", got)
	}
	if got, _ := c.completion(4); got.Due != 1 || got.Complete() {
		t.Fatalf("Jan 4 should be pending, got %+v", got)
	}
	if _, ok := c.completion(32); ok {
		t.Fatal("day 32 does not exist")
	}

	view := c.view()
	for _, want := range []string{"January 2024", "Mon", "Sun", "1/1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("calendar view missing %q", want)
		}
	}
}

func TestCalendarGridStartsMonday(t *testing.T) {
	svc := newTestService(t)
	c := newCalendarModel(svc)
	lines := c.grid()
	// January 2024 starts on a Monday and spans five weeks.
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(strings.TrimSpace(stripANSI(lines[0])), "1") {
		t.Fatalf("first row should start with the 1st: %q", lines[0])
	}
}

func TestCalendarMoveAcrossMonth(t *testing.T) {
	svc := newTestService(t)
	c := newCalendarModel(svc)

	c, cmd := c.move(-7)
	if c.cursor.Month() != time.December || cmd == nil {
		t.Fatal("moving back a week should reach December and reload")
	}
	c, cmd = c.move(1)
	if cmd != nil {
		t.Fatal("moving within a month should not reload")
	}

	_, cmd = c.update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg, ok := cmd().(openDayMsg); !ok || msg.day.Day() != 28 {
		t.Fatalf("expected openDayMsg for Dec 28, got %#v", msg)
	}
}

// ============================================================
// Reports
// ============================================================

func TestReportsLoad(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	ctx := context.Background()
	svc.AddManualEntry(ctx, task.ID, fixedNow,
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local),
		time.Date(2024, 1, 3, 10, 30, 0, 0, time.Local))

	r := newReportsModel(svc)
	r.setSize(120, 40)
	if r.bucketLabel() != "No data" {
		t.Fatal("expected no data before loading")
	}
	r, _ = r.update(r.refresh()())

	if r.result.Total != 90*time.Minute {
		t.Fatalf("expected 1h30m, got %v", r.result.Total)
	}
	if len(r.result.Rows) != 1 || r.result.Rows[0].TaskName != "Run" {
		t.Fatalf("unexpected rows %+v", r.result.Rows)
	}
	if got := r.bucketLabel(); got != "January - Week 1, 2024" {
		t.Fatalf("unexpected bucket %q", got)
	}
	if !strings.Contains(r.view(), "Run") {
		t.Fatal("report view should list the task")
	}
}

func TestReportsCycleTimeframe(t *testing.T) {
	svc := newTestService(t)
	r := newReportsModel(svc)

	r, cmd := r.update(tea.KeyMsg{Type: tea.KeyDown})
	if r.timeframe != report.Monthly || cmd == nil {
		t.Fatalf("expected monthly, got %v", r.timeframe)
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyUp})
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyUp})
	if r.timeframe != report.Daily {
		t.Fatalf("expected daily, got %v", r.timeframe)
	}

	// Late results for another timeframe are ignored.
	r, _ = r.update(reportsDataMsg{timeframe: report.AllTime, result: tracker.Report{Total: time.Hour}})
	if r.result.Total != 0 {
		t.Fatal("stale timeframe data should be ignored")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSave(t *testing.T) {
	svc := newTestService(t)
	s := newSettingsModel(svc)

	*s.firstName = "Ada"
	*s.email = "ada@example.com"
	*s.birthday = "1990-05-01"
	*s.accent = model.AccentBlue
	*s.notifyAt = "07:30"
	*s.fontSize = "14"

	msg, ok := s.saveSettings()().(settingsChangedMsg)
	if !ok {
		t.Fatal("expected settingsChangedMsg")
	}
	set := msg.settings
	if *set.FirstName != "Ada" || set.AccentColor != model.AccentBlue || set.FontSize != 14 {
		t.Fatalf("unexpected settings %+v", set)
	}
	if set.Birthday == nil || set.Birthday.Month() != time.May {
		t.Fatal("birthday not saved")
	}
	if set.NotificationTime == nil || set.NotificationTime.String() != "07:30" {
		t.Fatal("notification time not saved")
	}

	// Blank fields clear.
	*s.birthday = ""
	*s.notifyAt = ""
	msg = s.saveSettings()().(settingsChangedMsg)
	if msg.settings.Birthday != nil || msg.settings.NotificationTime != nil {
		t.Fatal("blank fields should clear")
	}
}

func TestSettingsSaveInvalid(t *testing.T) {
	svc := newTestService(t)
	s := newSettingsModel(svc)
	*s.fontSize = "100"

	if msg, ok := s.saveSettings()().(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestSettingsTags(t *testing.T) {
	svc := newTestService(t)
	s := newSettingsModel(svc)

	if msg := s.addTag("morning")().(statusMsg); msg.isError {
		t.Fatal(msg.text)
	}
	s, _ = s.update(s.refresh()())
	if len(s.settings.AvailableTags) != 1 || s.settings.AvailableTags[0].Name != "morning" {
		t.Fatalf("unexpected tags %+v", s.settings.AvailableTags)
	}
	if !strings.Contains(s.view(), "morning") {
		t.Fatal("view should list the tag")
	}

	if msg := s.removeTag("morning")().(statusMsg); msg.isError {
		t.Fatal(msg.text)
	}
	s, _ = s.update(s.refresh()())
	if len(s.settings.AvailableTags) != 0 {
		t.Fatal("tag should be removed")
	}
}

func TestSettingRowsDefaults(t *testing.T) {
	rows := settingRows(model.DefaultSettings())
	got := map[string]string{}
	for _, r := range rows {
		got[r[0]] = r[1]
	}
	if got["Name"] != "-" || got["Email"] != "-" || got["Accent color"] != "yellow" {
		t.Fatalf("unexpected rows %v", got)
	}
}

// ============================================================
// App model
// ============================================================

func sizedApp(t *testing.T, svc *tracker.Service) App {
	t.Helper()
	m, _ := NewApp(svc).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func TestNewApp(t *testing.T) {
	app := NewApp(newTestService(t))

	if app.activeView != viewToday {
		t.Fatal("default view should be Today")
	}
	if app.showHelp || app.exportPicking || app.isFormActive() {
		t.Fatal("nothing should be open initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := sizedApp(t, newTestService(t))

	for v := range viewNames {
		app.activeView = viewState(v)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppSwitchViews(t *testing.T) {
	var m tea.Model = sizedApp(t, newTestService(t))

	m, _ = m.Update(runes("3"))
	if m.(App).activeView != viewCalendar {
		t.Fatal("3 should open the calendar")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewReports {
		t.Fatal("tab should move to the next view")
	}
	m, _ = m.Update(runes("5"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewToday {
		t.Fatal("tab should wrap around")
	}
}

func TestAppOpenDay(t *testing.T) {
	app := sizedApp(t, newTestService(t))
	app.activeView = viewCalendar

	day := time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local)
	m, cmd := app.Update(openDayMsg{day: day})
	got := m.(App)
	if got.activeView != viewToday || !got.dashboard.day.Equal(day) || cmd == nil {
		t.Fatal("opening a day should show it in the Today view")
	}
}

func TestAppSettingsChangeSetsAccent(t *testing.T) {
	t.Cleanup(func() { setAccent(model.DefaultSettings().AccentColor) })

	app := sizedApp(t, newTestService(t))
	set := model.DefaultSettings()
	set.AccentColor = model.AccentPurple

	m, _ := app.Update(settingsChangedMsg{settings: set})
	if m.(App).settings.settings.AccentColor != model.AccentPurple {
		t.Fatal("settings view should receive the new settings")
	}
	if string(colorPrimary) != model.AccentPurple.Hex() {
		t.Fatalf("accent not applied: %v", colorPrimary)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := sizedApp(t, newTestService(t))

	header := app.renderHeader()
	for _, name := range append([]string{"activity"}, viewNames...) {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestService(t))
	if got := app.View(); got != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", got)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := sizedApp(t, newTestService(t))

	m, _ := app.Update(statusMsg{text: "test status"})
	if !strings.Contains(m.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}

	m, _ = m.Update(trackingFinishedMsg{session: model.Session{Intervals: []model.Interval{
		{Start: fixedNow, End: fixedNow.Add(time.Hour)},
	}}})
	if !strings.HasPrefix(m.(App).status, "Recorded") {
		t.Fatalf("unexpected status %q", m.(App).status)
	}
}

func TestAppFooterShowsTimer(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc)
	app := sizedApp(t, svc)
	app.dashboard, _ = app.dashboard.update(app.dashboard.loadData()())
	app.dashboard, _ = app.dashboard.update(runes("s"))
	t.Cleanup(app.dashboard.timer.discard)

	if !strings.Contains(app.renderFooter(), "●") {
		t.Fatal("footer should show the running timer")
	}
}

func TestAppExport(t *testing.T) {
	svc := newTestService(t)
	_, task := seed(t, svc)
	svc.AddManualEntry(context.Background(), task.ID, fixedNow,
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.Local),
		time.Date(2024, 1, 3, 9, 30, 0, 0, time.Local))
	app := sizedApp(t, svc)
	dir := t.TempDir()

	for format, ext := range []string{".csv", ".json"} {
		msg, ok := app.doExport(format, dir)().(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg", format)
		}
		want := filepath.Join(dir, "activity-export-2024-01-03"+ext)
		if msg.path != want {
			t.Fatalf("got %q, want %q", msg.path, want)
		}
		data, err := os.ReadFile(msg.path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "Run") {
			t.Fatalf("export %s missing task name", ext)
		}
	}
}

func TestAppExportPicker(t *testing.T) {
	var m tea.Model = sizedApp(t, newTestService(t))

	m, _ = m.Update(runes("E"))
	if !m.(App).exportPicking {
		t.Fatal("E should open the export picker")
	}
	if !strings.Contains(m.View(), "Export Format") {
		t.Fatal("picker should render")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.(App).exportCursor != 1 {
		t.Fatal("down should select JSON")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// stripANSI removes terminal escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"timerRunning", func() string { return timerRunningStyle.Render("test") }},
		{"timerPaused", func() string { return timerPausedStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"dayComplete", func() string { return dayCompleteStyle.Render("test") }},
		{"dayPending", func() string { return dayPendingStyle.Render("test") }},
		{"todayCell", func() string { return todayCellStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

func TestSetAccentIgnoresInvalid(t *testing.T) {
	before := colorPrimary
	setAccent(model.AccentColor("orange"))
	if colorPrimary != before {
		t.Fatal("invalid accent should be ignored")
	}
}
