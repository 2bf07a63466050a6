// Package testutil provides test utilities and helpers for fmlint tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteTree writes every name/content pair under dir. Names may contain
// slashes.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}

// Post assembles a document from frontmatter lines and a body.
func Post(frontmatter, body string) string {
	return "---\n" + frontmatter + "---\n" + body
}
