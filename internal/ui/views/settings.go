package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/theme"
	"github.com/tgienger/tick/internal/ui/keys"
	"github.com/tgienger/tick/internal/ui/styles"
)

// BackToTasks signals to return to the task list
type BackToTasks struct{}

// ThemeChanged is sent after the user picks a theme mode
type ThemeChanged struct {
	Mode models.ThemeMode
}

var themeDescriptions = map[models.ThemeMode]string{
	models.ThemeLight:  "Always use the light palette",
	models.ThemeDark:   "Always use the dark palette",
	models.ThemeSystem: "Follow the terminal background",
}

// SettingsView lets the user pick the theme preference
type SettingsView struct {
	pref       *theme.Preference
	systemDark bool
	styles     *styles.Styles
	keys       keys.KeyMap
	cursor     int
	width      int
	height     int
}

// NewSettingsView creates the settings view. systemDark reports whether the
// terminal background is dark, for resolving the system mode.
func NewSettingsView(pref *theme.Preference, systemDark bool, s *styles.Styles) *SettingsView {
	return &SettingsView{
		pref:       pref,
		systemDark: systemDark,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		cursor:     indexOf(models.ThemeModes, pref.Mode()),
	}
}

// SetStyles swaps the styles after a theme change
func (v *SettingsView) SetStyles(s *styles.Styles) {
	v.styles = s
}

func (v *SettingsView) Init() tea.Cmd {
	v.cursor = indexOf(models.ThemeModes, v.pref.Mode())
	return nil
}

func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Settings):
			return v, func() tea.Msg { return BackToTasks{} }
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(models.ThemeModes)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Enter), msg.String() == " ":
			mode := models.ThemeModes[v.cursor]
			v.pref.Set(mode)
			return v, func() tea.Msg { return ThemeChanged{Mode: mode} }
		}
	}
	return v, nil
}

func (v *SettingsView) View() string {
	s := v.styles
	current := v.pref.Mode()

	var items []string
	for i, mode := range models.ThemeModes {
		marker := "○"
		if mode == current {
			marker = "●"
		}
		line := fmt.Sprintf("%s %-7s %s", marker, mode, s.TitleMuted.Render(themeDescriptions[mode]))
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		items = append(items, style.Render(line))
	}

	effective := v.pref.Effective(v.systemDark)
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Settings"),
		"",
		s.TitleMuted.Render("Theme"),
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
		"",
		s.StatusBar.Render(fmt.Sprintf("Active theme: %s (%s)", s.Theme.Name, effective)),
		helpBar(s,
			relabel(v.keys.Up, "↑↓", "choose"),
			v.keys.Enter,
			v.keys.Back,
			v.keys.Quit,
		),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
