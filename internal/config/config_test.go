package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/tick/internal/models"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	for _, k := range []string{"TICK_DATA_DIR", "TICK_LOG_LEVEL", "TICK_SIMULATED_LATENCY_MS", "TICK_DEFAULT_SORT", "TICK_GROUP_BY_STATUS"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "tick"), cfg.DataDir)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, models.SortNewest, cfg.DefaultSort)
	assert.True(t, cfg.GroupByStatus)
	assert.Zero(t, cfg.SimulatedLatencyMS)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "tick.toml")
	content := `
data_dir = "~/tasks"
log_level = "DEBUG"
simulated_latency_ms = 250
default_sort = "priority"
group_by_status = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tasks"), cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250, cfg.SimulatedLatencyMS)
	assert.Equal(t, models.SortPriority, cfg.DefaultSort)
	assert.False(t, cfg.GroupByStatus)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "tick.toml")
	require.NoError(t, os.WriteFile(path, []byte(`default_sort = "oldest"`), 0644))
	t.Setenv("TICK_DEFAULT_SORT", "priority")
	t.Setenv("TICK_SIMULATED_LATENCY_MS", "10")
	t.Setenv("TICK_GROUP_BY_STATUS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, models.SortPriority, cfg.DefaultSort)
	assert.Equal(t, 10, cfg.SimulatedLatencyMS)
	assert.False(t, cfg.GroupByStatus)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "explicit config file must exist")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`default_sort = "alphabetical"`), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "default_sort")

	t.Setenv("TICK_SIMULATED_LATENCY_MS", "soon")
	_, err = Load("")
	assert.Error(t, err)
}
