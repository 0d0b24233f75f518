package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	t.Setenv(EnvFile, "")
	path := writeConfig(t, `
data-file = "/tmp/tasks.json"
autosave-interval = "5s"
show-completed = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tasks.json", cfg.DataFile)
	assert.Equal(t, 5*time.Second, cfg.AutosaveInterval.Duration)
	assert.False(t, cfg.ShowCompleted, "explicit false overrides the default")
	assert.True(t, cfg.Color, "undefined key keeps the default")
	assert.Equal(t, "date", cfg.DefaultSort)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadEnvFileWins(t *testing.T) {
	t.Setenv(EnvFile, "/elsewhere/todo.json")
	path := writeConfig(t, `data-file = "/tmp/tasks.json"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/todo.json", cfg.DataFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `default-sort = `},
		{"bad duration", `autosave-interval = "soon"`},
		{"unknown key", `colour = true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/custom/config.toml")
	got, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config.toml", got)

	home := t.TempDir()
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", home)
	got, err = Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "todo", "config.toml"), got)
}
