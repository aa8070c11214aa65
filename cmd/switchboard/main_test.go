package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("every command is registered", func(t *testing.T) {
		for _, name := range []string{"ask", "chat", "route", "search", "load", "index"} {
			assert.NotNil(t, findCommand(t, app, name))
		}
	})

	t.Run("log-level has default value", func(t *testing.T) {
		var levelFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "log-level" {
				levelFlag = f
				break
			}
		}
		require.NotNil(t, levelFlag)
		assert.Equal(t, "info", levelFlag.Value)
	})

	t.Run("top-k has default value of 3", func(t *testing.T) {
		var topK *cli.IntFlag
		for _, flag := range findCommand(t, app, "search").Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "top-k" {
				topK = f
				break
			}
		}
		require.NotNil(t, topK)
		assert.Equal(t, 3, topK.Value)
	})

	t.Run("load file is required", func(t *testing.T) {
		err := newApp().Run([]string{"switchboard", "load"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("ask needs a question", func(t *testing.T) {
		err := newApp().Run([]string{"switchboard", "ask"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a question is required")
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := newApp().Run([]string{"switchboard", "--log-level", "loud", "route", "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("missing config file", func(t *testing.T) {
		err := newApp().Run([]string{"switchboard", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "route", "hello"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config")
	})
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	articles := filepath.Join(dir, "articles.json")
	require.NoError(t, os.WriteFile(articles, []byte(`[
  {"title": "Bakery rebrand", "content": "A bakery case study."},
  {"title": "", "content": "untitled"}
]`), 0o644))

	configPath := filepath.Join(dir, "switchboard.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
organization:
  name: Acme
  website: https://acme.example
corpus:
  backend: sqlite
  path: `+filepath.Join(dir, "corpus.db")+`
`), 0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"switchboard", "--config", configPath, "--log-level", "error", "load", "--file", articles})
	require.NoError(t, err)
	assert.Equal(t, "Inserted: 1, updated: 0, skipped: 1\n", out.String())

	out.Reset()
	app = newApp()
	app.Writer = &out
	err = app.Run([]string{"switchboard", "--config", configPath, "--log-level", "error", "load", "--file", articles})
	require.NoError(t, err)
	assert.Equal(t, "Inserted: 0, updated: 1, skipped: 1\n", out.String())
}
