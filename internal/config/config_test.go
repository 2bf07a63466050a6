// Package config_test tests configuration loading, merging hierarchy, and environment variable overrides.
// Related: internal/config/config.go
// Tags: config, loading, merging, env-vars, json, precedence
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and XDG_CONFIG_HOME at an empty temp dir so the real
// user config is never read. Tests using it cannot run in parallel.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	return tmpDir
}

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "frontmatter-schema.yaml", cfg.SchemaPath)
	assert.Equal(t, "_posts", cfg.PostsDir)
	assert.Equal(t, "*.md", cfg.Pattern)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.FilenameDate)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Empty(t, cfg.StrictOverride)
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := isolate(t)

	writeJSON(t, filepath.Join(tmpDir, ".config", "fmlint", "config.json"),
		`{"workers": 2, "posts_dir": "global-posts", "log_level": "info"}`)
	localPath := filepath.Join(tmpDir, "project", LocalConfigFile)
	writeJSON(t, localPath, `{"workers": 8, "schema_path": "schemas/essay.yaml"}`)
	t.Setenv("FMLINT_WORKERS", "16")

	cfg, err := Load(localPath)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Workers, "env beats local")
	assert.Equal(t, "schemas/essay.yaml", cfg.SchemaPath, "local beats defaults")
	assert.Equal(t, "global-posts", cfg.PostsDir, "global beats defaults")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("FMLINT_STRICT_OVERRIDE", "lenient")
	t.Setenv("FMLINT_FILENAME_DATE", "false")
	t.Setenv("FMLINT_OUTPUT_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "lenient", cfg.StrictOverride)
	assert.False(t, cfg.FilenameDate)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoad_MissingLocalFileIgnored(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load(filepath.Join(tmpDir, "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := map[string]string{
		"workers too low":       `{"workers": 0}`,
		"workers too high":      `{"workers": 65}`,
		"bad strict override":   `{"strict_override": "sometimes"}`,
		"bad output format":     `{"output_format": "xml"}`,
		"bad log format":        `{"log_format": "logfmt"}`,
		"empty schema path":     `{"schema_path": ""}`,
		"bad log level":         `{"log_level": "verbose"}`,
		"empty discover glob":   `{"pattern": ""}`,
		"empty posts directory": `{"posts_dir": ""}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := isolate(t)
			path := filepath.Join(tmpDir, LocalConfigFile)
			writeJSON(t, path, content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, LocalConfigFile)
	writeJSON(t, path, `{"workers": `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load local config")
}

func TestLoad_ExpandsHome(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("FMLINT_SCHEMA_PATH", "~/schemas/essay.yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "schemas", "essay.yaml"), cfg.SchemaPath)
}

func TestConfiguration_StrictMode(t *testing.T) {
	tests := map[string]struct {
		override     string
		schemaStrict bool
		want         bool
	}{
		"no override keeps strict":  {override: "", schemaStrict: true, want: true},
		"no override keeps lenient": {override: "", schemaStrict: false, want: false},
		"force strict":              {override: "strict", schemaStrict: false, want: true},
		"force lenient":             {override: "lenient", schemaStrict: true, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &Configuration{StrictOverride: tt.override}
			assert.Equal(t, tt.want, cfg.StrictMode(tt.schemaStrict))
		})
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "fmlint", "config.json"), GlobalConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/writer")
	assert.Equal(t, filepath.Join("/home/writer", ".config", "fmlint", "config.json"), GlobalConfigPath())
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "schema_path", envTransform("FMLINT_SCHEMA_PATH"))
	assert.Equal(t, "workers", envTransform("FMLINT_WORKERS"))
}
