package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/theme"
	"github.com/tgienger/tick/internal/ui"
)

func runTUI(configPath string) error {
	e, err := openEnv(configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	latency := time.Duration(e.cfg.SimulatedLatencyMS) * time.Millisecond
	tasks := store.New(store.WithLogger(e.logger))
	tracker := store.NewTracker(tasks, latency)
	pref := theme.Load(e.db, e.logger)

	// queried before the alt screen takes over the terminal
	systemDark := lipgloss.HasDarkBackground()

	e.logger.Info("starting", "data_dir", e.cfg.DataDir, "theme", pref.Mode(), "latency", latency)

	app := ui.NewApp(ui.Deps{
		Tracker:    tracker,
		Preference: pref,
		Logger:     e.logger,
		SystemDark: systemDark,
		Sort:       e.cfg.DefaultSort,
		Grouped:    e.cfg.GroupByStatus,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}

	e.logger.Info("exiting", "tasks", tasks.Len())
	return nil
}
