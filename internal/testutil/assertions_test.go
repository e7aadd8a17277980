package testutil

import (
	"path/filepath"
	"testing"
)

func TestAssertFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := WriteTempFile(t, dir, "a.txt", "hello")

	AssertFileExists(t, path)
	AssertFileNotExists(t, filepath.Join(dir, "missing.txt"))
	AssertFileContains(t, path, "ell")
}

func TestAssertYAMLEquals(t *testing.T) {
	t.Parallel()

	AssertYAMLEquals(t, "scale: large\nregion: 서울\n", "region: 서울\nscale: large\n")
}
