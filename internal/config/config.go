package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "FMLINT_"

// LocalConfigFile is the per-project config file name.
const LocalConfigFile = ".fmlint.json"

// Configuration represents the fmlint configuration
type Configuration struct {
	SchemaPath     string `koanf:"schema_path" validate:"required"`
	PostsDir       string `koanf:"posts_dir" validate:"required"`
	Pattern        string `koanf:"pattern" validate:"required"`
	Workers        int    `koanf:"workers" validate:"min=1,max=64"`
	StrictOverride string `koanf:"strict_override" validate:"omitempty,oneof=strict lenient"`
	FilenameDate   bool   `koanf:"filename_date"`
	LogLevel       string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat      string `koanf:"log_format" validate:"oneof=console json"`
	OutputFormat   string `koanf:"output_format" validate:"oneof=text json"`
	MetricsFile    string `koanf:"metrics_file"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.SchemaPath = expandHomePath(cfg.SchemaPath)
	cfg.PostsDir = expandHomePath(cfg.PostsDir)
	cfg.MetricsFile = expandHomePath(cfg.MetricsFile)

	return &cfg, nil
}

// StrictMode resolves strict_override against the schema's own setting.
func (c *Configuration) StrictMode(schemaStrict bool) bool {
	switch c.StrictOverride {
	case "strict":
		return true
	case "lenient":
		return false
	default:
		return schemaStrict
	}
}

// GlobalConfigPath returns the user-level config path, honoring XDG_CONFIG_HOME.
// Returns "" when no home directory can be determined.
func GlobalConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fmlint", "config.json")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "fmlint", "config.json")
}

// envTransform converts environment variable names to config keys
// Example: FMLINT_SCHEMA_PATH -> schema_path
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
