package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/companion/internal/adapters/api"
	"github.com/felixgeelhaar/companion/internal/config"
)

func TestRootCommand_UseLine(t *testing.T) {
	assert.Equal(t, "companion", rootCmd.Use)
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCommand_HasPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"config", "api-url", "profile"} {
		t.Run(name, func(t *testing.T) {
			flag := flags.Lookup(name)
			require.NotNil(t, flag)
			assert.Empty(t, flag.DefValue)
		})
	}

	t.Run("verbose", func(t *testing.T) {
		flag := flags.Lookup("verbose")
		require.NotNil(t, flag)
		assert.Equal(t, "v", flag.Shorthand)
		assert.Equal(t, "false", flag.DefValue)
	})
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"register", "phone", "prefs", "catalog", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfigFrom("", dir, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, filepath.Join(dir, "credentials"), cfg.CredentialsPath)
}

func TestLoadConfigFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://file.example.com\n"), 0o600))

	env := map[string]string{config.EnvAPIURL: "https://env.example.com"}
	cfg, err := loadConfigFrom(path, dir, func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: ftp://nope\n"), 0o600))

	_, err := loadConfigFrom(path, dir, func(string) string { return "" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}

func TestFormatError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, "boom", formatError(errors.New("boom")))
	})

	t.Run("user error with suggestion", func(t *testing.T) {
		err := &config.UserError{
			Code:       config.ErrCodeNotLoggedIn,
			Message:    "not signed in",
			Context:    "profile default",
			Suggestion: "Sign in first.",
			Underlying: errors.New("no such section"),
		}
		got := formatError(fmt.Errorf("wrapped: %w", err))
		assert.Equal(t, "not signed in (at profile default)\n\nSuggestion: Sign in first.", got)
	})

	t.Run("verbose shows technical details", func(t *testing.T) {
		verbose = true
		defer func() { verbose = false }()

		err := &config.UserError{Message: "bad", Underlying: errors.New("root cause")}
		assert.Contains(t, formatError(err), "Technical details: root cause")
	})

	t.Run("api error shows server message", func(t *testing.T) {
		err := fmt.Errorf("register: %w", &api.Error{Status: 409, Message: "이미 등록된 동반자입니다."})
		assert.Equal(t, "이미 등록된 동반자입니다.", formatError(err))
	})
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestNewFileLogger(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "companion.log")

	logger, closeLog, err := newFileLogger(cfg)
	require.NoError(t, err)
	logger.Info(t.Context(), "hello")
	closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewFileLogger_Disabled(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Log.File = ""

	logger, closeLog, err := newFileLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	closeLog()
}
