package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaq12/minesweeper/cli"
)

func baseArgs(t *testing.T) []string {
	return []string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader(""), out, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_QuitAtPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader("q\n"), out, baseArgs(t))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Enter the level")
	assert.Contains(t, out.String(), "Quitting...")
}

func TestRun_BadFlags(t *testing.T) {
	args := append(baseArgs(t), "-log-format", "xml")
	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, args)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log format")
}

func TestRun_StoreFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
store {
  backend = "file"
}
`), 0o644))

	args := append(baseArgs(t), "-config", path)
	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, args)
	assert.ErrorContains(t, err, "path is required")
}

func TestRun_WebStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	args := append(baseArgs(t), "-mode", "web", "-listen", "127.0.0.1:0", "-log-file", filepath.Join(t.TempDir(), "web.log"))
	err := run(ctx, strings.NewReader(""), &bytes.Buffer{}, args)
	assert.NoError(t, err)
}
