package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tick/internal/db"
	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/theme"
)

func newSettingsView(t *testing.T) (*SettingsView, *db.DB) {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	v := NewSettingsView(theme.Load(database, nil), true, testStyles())
	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return v, database
}

func TestSettings_StartsOnCurrentMode(t *testing.T) {
	v, _ := newSettingsView(t)
	assert.Equal(t, models.ThemeSystem, models.ThemeModes[v.cursor])
	assert.Contains(t, v.View(), "Active theme: Tokyo Night (dark)")
}

func TestSettings_SelectPersists(t *testing.T) {
	v, database := newSettingsView(t)

	for v.cursor > 0 {
		v.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ThemeChanged{Mode: models.ThemeModes[0]}, cmd())

	stored, err := database.GetSetting(theme.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, string(models.ThemeModes[0]), stored)
	assert.Equal(t, models.ThemeModes[0], v.pref.Mode())
}

func TestSettings_CursorBounds(t *testing.T) {
	v, _ := newSettingsView(t)

	for range 5 {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(models.ThemeModes)-1, v.cursor)

	for range 5 {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	}
	assert.Equal(t, 0, v.cursor)
}

func TestSettings_Back(t *testing.T) {
	v, _ := newSettingsView(t)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackToTasks{}, cmd())
}
