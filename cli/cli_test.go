package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaq12/minesweeper/config"
	"github.com/dimaq12/minesweeper/models"
)

func noEnvFile(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "none.env")}
}

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(noEnvFile(t), &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, config.ModeTUI, cfg.Mode)
	assert.Empty(t, cfg.DefaultPreset)
}

func TestParseFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
mode      = "web"
log_level = "debug"
server {
  listen = ":7000"
}
`), 0o644))

	args := append(noEnvFile(t), "-config", path, "-listen", ":9999", "-preset", "Expert")
	cfg, _, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, config.ModeWeb, cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9999", cfg.Server.Listen)
	assert.Equal(t, "Expert", cfg.DefaultPreset)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown flag", []string{"-colour"}, "flag provided but not defined"},
		{"bad mode", []string{"-mode", "gui"}, "invalid mode"},
		{"bad preset", []string{"-preset", "Nightmare"}, "unknown preset"},
		{"missing config", []string{"-config", "/does/not/exist.hcl"}, "failed to parse"},
		{"positional", []string{"extra"}, "unexpected argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(append(noEnvFile(t), tt.args...), &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.wantErr)
		})
	}
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestPromptPreset(t *testing.T) {
	presets := models.DefaultPresets()

	var out bytes.Buffer
	p, err := PromptPreset(strings.NewReader("7\nabc\n2\n"), &out, presets)
	require.NoError(t, err)
	assert.Equal(t, "Intermediate", p.Name)
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid input"))

	p, err = PromptPreset(strings.NewReader("expert\n"), &out, presets)
	require.NoError(t, err)
	assert.Equal(t, "Expert", p.Name)

	_, err = PromptPreset(strings.NewReader("Q\n"), &out, presets)
	assert.ErrorIs(t, err, ErrQuit)

	_, err = PromptPreset(strings.NewReader(""), &out, presets)
	assert.ErrorIs(t, err, ErrQuit)
}
