package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/theme"
	"github.com/tgienger/tick/internal/ui/styles"
	"github.com/tgienger/tick/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewTasks View = iota
	ViewSettings
)

// Deps are the collaborators the application is built from
type Deps struct {
	Tracker    *store.Tracker
	Preference *theme.Preference
	Logger     *log.Logger
	SystemDark bool // terminal has a dark background
	Sort       models.SortOption
	Grouped    bool
}

type App struct {
	pref        *theme.Preference
	logger      *log.Logger
	systemDark  bool
	currentView View
	taskList    *views.TaskListView
	settings    *views.SettingsView
	width       int
	height      int
}

// Creates a new application
func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	a := &App{
		pref:        deps.Preference,
		logger:      logger,
		systemDark:  deps.SystemDark,
		currentView: ViewTasks,
	}
	s := a.currentStyles()
	a.taskList = views.NewTaskListView(deps.Tracker, s, views.TaskListOptions{
		Sort:    deps.Sort,
		Grouped: deps.Grouped,
		Logger:  logger,
	})
	a.settings = views.NewSettingsView(deps.Preference, deps.SystemDark, s)
	return a
}

func (a *App) currentStyles() *styles.Styles {
	return styles.NewStyles(styles.ForMode(a.pref.Effective(a.systemDark)))
}

// CurrentView reports which view is active
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) Init() tea.Cmd {
	return a.taskList.Init()
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both views keep their size across switches
		a.taskList.Update(msg)
		a.settings.Update(msg)
		return a, nil

	case views.OpenSettings:
		a.currentView = ViewSettings
		return a, tea.Batch(a.settings.Init(), a.resize())

	case views.BackToTasks:
		a.currentView = ViewTasks
		return a, tea.Batch(a.taskList.Init(), a.resize())

	case views.ThemeChanged:
		a.logger.Info("theme changed", "mode", msg.Mode, "effective", a.pref.Effective(a.systemDark))
		s := a.currentStyles()
		a.taskList.SetStyles(s)
		a.settings.SetStyles(s)
		return a, nil
	}

	var cmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); ok && a.currentView == ViewSettings {
		_, cmd = a.settings.Update(msg)
		return a, cmd
	}
	// Store results and input ticks belong to the task list even while
	// settings is on screen.
	_, cmd = a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewSettings:
		return a.settings.View()
	}
	return a.taskList.View()
}
