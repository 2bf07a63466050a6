// Package testutil_test tests filesystem helper utilities for test fixture creation.
// Related: internal/testutil/fs_helpers.go
// Tags: testutil, helpers, fixtures, filesystem

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		name string
	}{
		"flat file":   {name: "2024-01-15-post.md"},
		"nested file": {name: "drafts/2024/2024-01-15-post.md"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()

			path := WriteFile(t, dir, tc.name, "content")

			if path != filepath.Join(dir, tc.name) {
				t.Errorf("unexpected path: %s", path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read back %s: %v", path, err)
			}
			if string(data) != "content" {
				t.Errorf("unexpected content: %q", data)
			}
		})
	}
}

func TestWriteTree(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	WriteTree(t, dir, map[string]string{
		"a.md":       "a",
		"sub/b.md":   "b",
		"schema.yml": "fields: {}\n",
	})

	for _, name := range []string{"a.md", "sub/b.md", "schema.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestPost(t *testing.T) {
	t.Parallel()

	got := Post("title: Hello\n", "Body\n")
	want := "---\ntitle: Hello\n---\nBody\n"
	if got != want {
		t.Errorf("Post() = %q, want %q", got, want)
	}
}
