// Package theme keeps the persisted light/dark/system preference.
package theme

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tgienger/tick/internal/models"
)

// StorageKey is the settings key the preference is stored under
const StorageKey = "theme_mode"

// Settings is the key-value slot the preference is persisted in
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Preference holds the current theme mode. Storage failures are logged and
// never returned; the in-memory value always reflects the last choice.
type Preference struct {
	mu       sync.RWMutex
	mode     models.ThemeMode
	settings Settings
	logger   *log.Logger
}

// Load reads the stored mode once. A missing, invalid or unreadable value
// falls back to system.
func Load(settings Settings, logger *log.Logger) *Preference {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Preference{
		mode:     models.ThemeSystem,
		settings: settings,
		logger:   logger,
	}

	stored, err := settings.GetSetting(StorageKey)
	if err != nil {
		logger.Error("failed to load theme preference", "err", err)
		return p
	}
	if stored == "" {
		return p
	}
	mode, err := models.ParseThemeMode(stored)
	if err != nil {
		logger.Warn("ignoring stored theme preference", "value", stored)
		return p
	}
	p.mode = mode
	return p
}

// Mode returns the selected mode
func (p *Preference) Mode() models.ThemeMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// IsSystem reports whether the terminal decides the theme
func (p *Preference) IsSystem() bool {
	return p.Mode() == models.ThemeSystem
}

// Set changes the mode and writes it back
func (p *Preference) Set(mode models.ThemeMode) {
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()

	if err := p.settings.SetSetting(StorageKey, string(mode)); err != nil {
		p.logger.Error("failed to save theme preference", "mode", mode, "err", err)
	}
}

// Effective resolves the mode to light or dark. systemDark reports whether
// the terminal has a dark background.
func (p *Preference) Effective(systemDark bool) models.ThemeMode {
	mode := p.Mode()
	if mode != models.ThemeSystem {
		return mode
	}
	if systemDark {
		return models.ThemeDark
	}
	return models.ThemeLight
}
