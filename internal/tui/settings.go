package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/tracker"
)

const birthdayLayout = "2006-01-02"

type settingsModel struct {
	svc    *tracker.Service
	width  int
	height int

	settings   model.Settings
	tagCursor  int
	formActive bool
	form       *huh.Form
	formType   string // "settings", "tag", "delete_tag"

	// Form values as pointers (survive value copies)
	firstName *string
	lastName  *string
	email     *string
	birthday  *string
	accent    *model.AccentColor
	notifyAt  *string
	fontSize  *string
	tagName   *string
	confirm   *bool
}

func newSettingsModel(svc *tracker.Service) settingsModel {
	fn, ln, em, bd := "", "", "", ""
	accent := model.AccentYellow
	na, fs, tag, confirm := "", "", "", false
	return settingsModel{
		svc:       svc,
		settings:  model.DefaultSettings(),
		firstName: &fn,
		lastName:  &ln,
		email:     &em,
		birthday:  &bd,
		accent:    &accent,
		notifyAt:  &na,
		fontSize:  &fs,
		tagName:   &tag,
		confirm:   &confirm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		set, err := s.svc.Settings(ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings: %v", err), isError: true}
		}
		return settingsChangedMsg{settings: set}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsChangedMsg:
		s.settings = msg.settings
		s.tagCursor = clamp(s.tagCursor, 0, len(s.settings.AvailableTags)-1)
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		case key.Matches(msg, keys.New), key.Matches(msg, keys.NewTask):
			return s.showTagForm()
		case key.Matches(msg, keys.Up):
			if s.tagCursor > 0 {
				s.tagCursor--
			}
		case key.Matches(msg, keys.Down):
			if s.tagCursor < len(s.settings.AvailableTags)-1 {
				s.tagCursor++
			}
		case key.Matches(msg, keys.Delete):
			if s.tagCursor < len(s.settings.AvailableTags) {
				return s.showDeleteTag(s.settings.AvailableTags[s.tagCursor].Name)
			}
		}
	}
	return s, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	set := s.settings
	*s.firstName = deref(set.FirstName)
	*s.lastName = deref(set.LastName)
	*s.email = deref(set.Email)
	*s.birthday = ""
	if set.Birthday != nil {
		*s.birthday = set.Birthday.Format(birthdayLayout)
	}
	*s.accent = set.AccentColor
	*s.notifyAt = ""
	if set.NotificationTime != nil {
		*s.notifyAt = set.NotificationTime.String()
	}
	*s.fontSize = strconv.FormatFloat(set.FontSize, 'f', -1, 64)
	s.formType = "settings"

	accentOptions := make([]huh.Option[model.AccentColor], len(model.AccentColors))
	for i, c := range model.AccentColors {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("●")
		accentOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), c)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(s.firstName),
			huh.NewInput().Title("Last name").Value(s.lastName),
			huh.NewInput().Title("Email").Value(s.email).Validate(optional(func(v string) error {
				if !strings.Contains(v, "@") {
					return fmt.Errorf("must contain @")
				}
				return nil
			})),
			huh.NewInput().Title("Birthday (YYYY-MM-DD)").Value(s.birthday).Validate(optional(func(v string) error {
				_, err := time.ParseInLocation(birthdayLayout, v, time.Local)
				return err
			})),
		).Title("Personal"),
		huh.NewGroup(
			huh.NewSelect[model.AccentColor]().Title("Accent color").Options(accentOptions...).Value(s.accent),
			huh.NewInput().Title("Daily reminder (HH:MM, empty for none)").Value(s.notifyAt).Validate(optional(validClock)),
			huh.NewInput().Title("Font size").Value(s.fontSize).Validate(func(v string) error {
				_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				return err
			}),
		).Title("Appearance"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func optional(check func(string) error) func(string) error {
	return func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		return check(v)
	}
}

func (s settingsModel) showTagForm() (settingsModel, tea.Cmd) {
	*s.tagName = ""
	s.formType = "tag"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New tag").Value(s.tagName).Validate(required("tag")),
		),
	).WithShowHelp(true).WithShowErrors(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showDeleteTag(name string) (settingsModel, tea.Cmd) {
	*s.tagName = name
	*s.confirm = false
	s.formType = "delete_tag"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove tag %q? Tasks keep it.", name)).
				Affirmative("Remove").
				Negative("Cancel").
				Value(s.confirm),
		),
	).WithShowHelp(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		switch s.formType {
		case "tag":
			return s, tea.Sequence(s.addTag(*s.tagName), s.refresh())
		case "delete_tag":
			if *s.confirm {
				return s, tea.Sequence(s.removeTag(*s.tagName), s.refresh())
			}
			return s, nil
		}
		return s, s.saveSettings()
	}

	return s, cmd
}

// patch builds the settings diff from the form values.
func (s settingsModel) patch() tracker.SettingsPatch {
	first, last, email := *s.firstName, *s.lastName, *s.email
	accent := *s.accent
	p := tracker.SettingsPatch{
		FirstName:   &first,
		LastName:    &last,
		Email:       &email,
		AccentColor: &accent,
	}

	if b := strings.TrimSpace(*s.birthday); b == "" {
		p.ClearBirthday = true
	} else if t, err := time.ParseInLocation(birthdayLayout, b, time.Local); err == nil {
		p.Birthday = &t
	}

	if n := strings.TrimSpace(*s.notifyAt); n == "" {
		p.ClearNotificationTime = true
	} else if hm, err := model.ParseHourAndMinute(n); err == nil {
		p.NotificationTime = &hm
	}

	if f, err := strconv.ParseFloat(strings.TrimSpace(*s.fontSize), 64); err == nil {
		p.FontSize = &f
	}
	return p
}

func (s settingsModel) saveSettings() tea.Cmd {
	patch := s.patch()
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		set, err := s.svc.SaveSettings(ctx, patch)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return settingsChangedMsg{settings: set}
	}
}

func (s settingsModel) addTag(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		if err := s.svc.AddTag(ctx, name); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return statusMsg{text: "Added tag " + strings.TrimSpace(name)}
	}
}

func (s settingsModel) removeTag(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := serviceCtx()
		defer cancel()
		if err := s.svc.RemoveTag(ctx, name); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return statusMsg{text: "Removed tag " + name}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType != "settings" {
			title = titleStyle.Render("Tags")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	for _, f := range settingRows(s.settings) {
		label := lipgloss.NewStyle().Width(20).Render(f[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(f[1])))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Tags"))
	if len(s.settings.AvailableTags) == 0 {
		rows = append(rows, mutedStyle.Render("  No tags yet"))
	}
	for i, t := range s.settings.AvailableTags {
		cursor := "  "
		style := normalItemStyle
		if i == s.tagCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+t.Name))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit settings  n: new tag  d: remove tag"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// settingRows renders each setting as a label/value pair; unset fields show
// as a dash.
func settingRows(set model.Settings) [][2]string {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	name := strings.TrimSpace(deref(set.FirstName) + " " + deref(set.LastName))
	birthday, reminder := "", ""
	if set.Birthday != nil {
		birthday = set.Birthday.Format("January 2, 2006")
	}
	if set.NotificationTime != nil {
		reminder = set.NotificationTime.String()
	}
	return [][2]string{
		{"Name", orDash(name)},
		{"Email", orDash(deref(set.Email))},
		{"Birthday", orDash(birthday)},
		{"Accent color", string(set.AccentColor)},
		{"Daily reminder", orDash(reminder)},
		{"Font size", strconv.FormatFloat(set.FontSize, 'f', -1, 64)},
	}
}
