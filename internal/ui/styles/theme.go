package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tick/internal/models"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	Cursor:      lipgloss.Color("#c0caf5"),
}

// TokyoNightDay is the light variant
var TokyoNightDay = Theme{
	Name: "Tokyo Night Day",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary:   lipgloss.Color("#2e7de9"),
	Secondary: lipgloss.Color("#9854f1"),
	Accent:    lipgloss.Color("#007197"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),
	Info:    lipgloss.Color("#2e7de9"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
	Cursor:      lipgloss.Color("#3760bf"),
}

// ForMode returns the theme for an effective (light or dark) mode
func ForMode(mode models.ThemeMode) Theme {
	if mode == models.ThemeLight {
		return TokyoNightDay
	}
	return TokyoNight
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Theme Theme

	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	GroupHeader  lipgloss.Style

	// Filter tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Popups and dropdowns
	Panel lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
}

// NewStyles creates styles for the given theme
func NewStyles(t Theme) *Styles {
	return &Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		GroupHeader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true).
			MarginTop(1),

		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 1).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}

// StatusColor returns the accent color for a task status
func (s *Styles) StatusColor(status models.Status) lipgloss.Color {
	switch status {
	case models.StatusInProgress:
		return s.Theme.Warning
	case models.StatusDone:
		return s.Theme.Success
	}
	return s.Theme.ForegroundDim
}

// PriorityColor returns the accent color for a task priority
func (s *Styles) PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return s.Theme.Error
	case models.PriorityMedium:
		return s.Theme.Warning
	}
	return s.Theme.Success
}

// StatusIcon is the checkbox shown in front of a task
func StatusIcon(status models.Status) string {
	switch status {
	case models.StatusInProgress:
		return "[~]"
	case models.StatusDone:
		return "[x]"
	}
	return "[ ]"
}
