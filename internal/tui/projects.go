package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/search"
	"github.com/sadopc/activity/internal/tracker"
)

var priorityOptions = []huh.Option[int]{
	huh.NewOption("High", model.PriorityHigh),
	huh.NewOption("Normal", model.PriorityDefault),
	huh.NewOption("Low", model.PriorityLow),
}

type projectsModel struct {
	svc    *tracker.Service
	width  int
	height int

	projects     []model.Project
	tags         []model.Tag
	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected project

	searching bool
	query     textinput.Model
	matches   []search.Match
	matchPos  int

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project", "task", "edit_task", "move", "delete_project", "delete_task"

	// Form field pointers (survive value copies)
	formName     *string
	formPriority *int
	formTags     *[]string
	formNewTags  *string
	formRepeat   *[]model.Weekday
	formTarget   *string
	formConfirm  *bool

	editingID string
}

func newProjectsModel(svc *tracker.Service) projectsModel {
	name, prio, tags, newTags := "", model.PriorityDefault, []string{}, ""
	repeat, target, confirm := []model.Weekday{}, "", false

	q := textinput.New()
	q.Placeholder = "project, task or tag"
	q.Prompt = "/ "

	return projectsModel{
		svc:          svc,
		query:        q,
		formName:     &name,
		formPriority: &prio,
		formTags:     &tags,
		formNewTags:  &newTags,
		formRepeat:   &repeat,
		formTarget:   &target,
		formConfirm:  &confirm,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []model.Project
	tags     []model.Tag
	err      error
}

type searchResultMsg struct {
	query   string
	matches []search.Match
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		projects, err := p.svc.Projects(ctx)
		if err != nil {
			return projectsDataMsg{err: err}
		}
		set, err := p.svc.Settings(ctx)
		return projectsDataMsg{projects: projects, tags: set.AvailableTags, err: err}
	}
}

// sortProjects orders by priority, highest first, then by name.
func sortProjects(projects []model.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Priority != projects[j].Priority {
			return projects[i].Priority > projects[j].Priority
		}
		return search.Fold(projects[i].Name) < search.Fold(projects[j].Name)
	})
}

func (p projectsModel) current() (model.Project, bool) {
	if p.cursor < 0 || p.cursor >= len(p.projects) {
		return model.Project{}, false
	}
	return p.projects[p.cursor], true
}

func (p projectsModel) currentTask() (model.Task, bool) {
	proj, ok := p.current()
	if !ok || p.taskCursor < 0 || p.taskCursor >= len(proj.Tasks) {
		return model.Task{}, false
	}
	return proj.Tasks[p.taskCursor], true
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			return p, errStatus("Load error", msg.err)
		}
		selected := ""
		if proj, ok := p.current(); ok {
			selected = proj.ID
		}
		p.projects = msg.projects
		p.tags = msg.tags
		sortProjects(p.projects)
		p.cursor = clamp(p.indexOf(selected), 0, len(p.projects)-1)
		if proj, ok := p.current(); ok {
			p.taskCursor = clamp(p.taskCursor, 0, len(proj.Tasks)-1)
		}
		return p, nil

	case searchResultMsg:
		if msg.query == p.query.Value() {
			p.matches = msg.matches
			p.matchPos = clamp(p.matchPos, 0, len(p.matches)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.searching {
			return p.updateSearch(msg)
		}
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) indexOf(projectID string) int {
	for i, proj := range p.projects {
		if proj.ID == projectID {
			return i
		}
	}
	return p.cursor
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm(false)
	case key.Matches(msg, keys.Edit):
		if len(p.projects) > 0 {
			return p.showProjectForm(true)
		}
	case key.Matches(msg, keys.Delete):
		if proj, ok := p.current(); ok {
			return p.showConfirm("delete_project", proj.ID,
				fmt.Sprintf("Delete %s with its %d tasks and all their time?", proj.Name, len(proj.Tasks)))
		}
	case key.Matches(msg, keys.Search):
		p.searching = true
		p.query.SetValue("")
		p.matches = nil
		p.matchPos = 0
		return p, p.query.Focus()
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	proj, _ := p.current()
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(proj.Tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New), key.Matches(msg, keys.NewTask):
		return p.showTaskForm(false)
	case key.Matches(msg, keys.Edit):
		if _, ok := p.currentTask(); ok {
			return p.showTaskForm(true)
		}
	case key.Matches(msg, keys.Move):
		if _, ok := p.currentTask(); ok && len(p.projects) > 1 {
			return p.showMoveForm()
		}
	case key.Matches(msg, keys.Delete):
		if task, ok := p.currentTask(); ok {
			return p.showConfirm("delete_task", task.ID,
				fmt.Sprintf("Delete %s and all its recorded time?", task.Name))
		}
	}
	return p, nil
}

func (p projectsModel) updateSearch(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.searching = false
		p.query.Blur()
		return p, nil
	case msg.Type == tea.KeyUp:
		if p.matchPos > 0 {
			p.matchPos--
		}
		return p, nil
	case msg.Type == tea.KeyDown:
		if p.matchPos < len(p.matches)-1 {
			p.matchPos++
		}
		return p, nil
	case key.Matches(msg, keys.Enter):
		if p.matchPos < len(p.matches) {
			p.cursor = p.indexOf(p.matches[p.matchPos].Project.ID)
			p.viewingTasks = true
			p.taskCursor = 0
		}
		p.searching = false
		p.query.Blur()
		return p, nil
	}

	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	return p, tea.Batch(cmd, p.runSearch(p.query.Value()))
}

func (p projectsModel) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		matches, err := p.svc.Search(ctx, query)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Search: %v", err), isError: true}
		}
		return searchResultMsg{query: query, matches: matches}
	}
}

func (p projectsModel) showProjectForm(edit bool) (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formPriority = model.PriorityDefault
	p.formType = "project"
	if edit {
		proj, _ := p.current()
		*p.formName = proj.Name
		*p.formPriority = proj.Priority
		p.formType = "edit_project"
		p.editingID = proj.ID
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName).Validate(required("name")),
			huh.NewSelect[int]().Title("Priority").Options(priorityOptions...).Value(p.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showTaskForm(edit bool) (projectsModel, tea.Cmd) {
	*p.formName = ""
	*p.formPriority = model.PriorityDefault
	*p.formTags = []string{}
	*p.formNewTags = ""
	*p.formRepeat = model.EveryDay.Days()
	p.formType = "task"
	if edit {
		task, _ := p.currentTask()
		*p.formName = task.Name
		*p.formPriority = task.Priority
		*p.formTags = append([]string{}, task.Tags...)
		*p.formRepeat = task.RepeatDays.Days()
		p.formType = "edit_task"
		p.editingID = task.ID
	}

	dayOptions := make([]huh.Option[model.Weekday], len(model.AllWeekdays))
	for i, d := range model.AllWeekdays {
		dayOptions[i] = huh.NewOption(d.String(), d)
	}

	fields := []huh.Field{
		huh.NewInput().Title("Task Name").Value(p.formName).Validate(required("name")),
		huh.NewSelect[int]().Title("Priority").Options(priorityOptions...).Value(p.formPriority),
		huh.NewMultiSelect[model.Weekday]().Title("Repeat on").Options(dayOptions...).Value(p.formRepeat),
	}
	if opts := p.tagOptions(); len(opts) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("Tags").Options(opts...).Value(p.formTags))
	}
	fields = append(fields, huh.NewInput().Title("Other tags (comma-separated)").Value(p.formNewTags))

	p.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

// tagOptions offers the vocabulary plus any tag the edited task already has.
func (p projectsModel) tagOptions() []huh.Option[string] {
	seen := make(map[string]bool)
	var opts []huh.Option[string]
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		opts = append(opts, huh.NewOption(name, name))
	}
	for _, t := range p.tags {
		add(t.Name)
	}
	for _, t := range *p.formTags {
		add(t)
	}
	return opts
}

func (p projectsModel) showMoveForm() (projectsModel, tea.Cmd) {
	task, _ := p.currentTask()
	p.formType = "move"
	p.editingID = task.ID

	var opts []huh.Option[string]
	for _, proj := range p.projects {
		if proj.ID != task.ProjectID {
			opts = append(opts, huh.NewOption(proj.Name, proj.ID))
		}
	}
	*p.formTarget = opts[0].Value

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title(fmt.Sprintf("Move %s to", task.Name)).Options(opts...).Value(p.formTarget),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showConfirm(formType, id, question string) (projectsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = formType
	p.editingID = id
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(question).Affirmative("Delete").Negative("Cancel").Value(p.formConfirm),
		),
	).WithShowHelp(true)
	p.formActive = true
	return p, p.form.Init()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		return p, tea.Sequence(p.submit(), p.refresh())
	}

	return p, cmd
}

// submit turns the completed form into a service call.
func (p projectsModel) submit() tea.Cmd {
	formType, id := p.formType, p.editingID
	name, prio := *p.formName, *p.formPriority
	tags := append(append([]string{}, *p.formTags...), splitTags(*p.formNewTags)...)
	repeat := model.NewWeekdays(*p.formRepeat...)
	target, confirmed := *p.formTarget, *p.formConfirm
	projectID := ""
	if proj, ok := p.current(); ok {
		projectID = proj.ID
	}

	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()

		var err error
		var done string
		switch formType {
		case "project":
			_, err = p.svc.CreateProject(ctx, tracker.ProjectInput{Name: name, Priority: prio})
			done = "Created " + name
		case "edit_project":
			_, err = p.svc.PatchProject(ctx, id, tracker.ProjectPatch{Name: &name, Priority: &prio})
			done = "Saved " + name
		case "task":
			_, err = p.svc.CreateTask(ctx, projectID, tracker.TaskInput{Name: name, Tags: tags, Priority: prio, RepeatDays: repeat})
			done = "Created " + name
		case "edit_task":
			_, err = p.svc.PatchTask(ctx, id, tracker.TaskPatch{Name: &name, Tags: &tags, Priority: &prio, RepeatDays: &repeat})
			done = "Saved " + name
		case "move":
			err = p.svc.MoveTasks(ctx, []string{id}, target)
			done = "Moved task"
		case "delete_project":
			if !confirmed {
				return nil
			}
			err = p.svc.DeleteProject(ctx, id)
			done = "Deleted project"
		case "delete_task":
			if !confirmed {
				return nil
			}
			err = p.svc.DeleteTask(ctx, id)
			done = "Deleted task"
		}
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return statusMsg{text: done}
	}
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		titles := map[string]string{
			"project":        "New Project",
			"edit_project":   "Edit Project",
			"task":           "New Task",
			"edit_task":      "Edit Task",
			"move":           "Move Task",
			"delete_project": "Delete Project",
			"delete_task":    "Delete Task",
		}
		title := titleStyle.Render(titles[p.formType])
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.searching {
		return p.renderSearch()
	}
	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-26s %-8s %6s  %s", "Name", "Priority", "Tasks", "Since"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-26s %-8s %6d  %s",
			cursor, proj.Name, priorityLabel(proj.Priority), len(proj.Tasks), proj.StartDate.Format("Jan 2, 2006")))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  /: search  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj, _ := p.current()
	title := titleStyle.Render(proj.Name + " / Tasks")

	if len(proj.Tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range proj.Tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		tags := ""
		if len(task.Tags) > 0 {
			tags = mutedStyle.Render(" [" + strings.Join(task.Tags, ", ") + "]")
		}
		line := fmt.Sprintf("%s%-24s %-18s %s", cursor, task.Name, task.RepeatDays.Summary(), priorityLabel(task.Priority))
		rows = append(rows, style.Render(line)+tags)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  e: edit  v: move  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderSearch() string {
	w := p.width - 4
	rows := []string{titleStyle.Render("Search"), "", p.query.View(), ""}

	if strings.TrimSpace(p.query.Value()) != "" && len(p.matches) == 0 {
		rows = append(rows, mutedStyle.Render("  No matches"))
	}
	for i, m := range p.matches {
		cursor := "  "
		style := normalItemStyle
		if i == p.matchPos {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+m.Project.Name)+mutedStyle.Render("  "+matchSummary(m)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: select  enter: open  esc: close"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// matchSummary explains a search hit with task names instead of ids.
func matchSummary(m search.Match) string {
	var parts []string
	for _, r := range m.Reasons {
		switch r.Kind {
		case search.ProjectName:
			parts = append(parts, "name")
		case search.TaskName:
			if t, ok := m.Project.Task(r.TaskID); ok {
				parts = append(parts, "task "+t.Name)
			}
		case search.TagName:
			parts = append(parts, "#"+r.Tag)
		}
	}
	return strings.Join(parts, ", ")
}
