// Package testutil provides test helpers and utilities for companion tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to a file in the specified directory,
// creating parent directories as needed.
func WriteTempFile(t testing.TB, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", filename)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err, "failed to write temp file: %s", filename)

	return path
}

// WriteCredentials writes an INI credentials file with one profile section
// and returns its path.
func WriteCredentials(t testing.TB, dir, profile, userID, token string) string {
	t.Helper()

	content := "[" + profile + "]\n" +
		"user_id = " + userID + "\n" +
		"access_token = " + token + "\n"
	return WriteTempFile(t, dir, "credentials", content)
}
