package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"schema_path":     "frontmatter-schema.yaml",
		"posts_dir":       "_posts",
		"pattern":         "*.md",
		"workers":         4,
		"strict_override": "",
		"filename_date":   true,
		"log_level":       "warn",
		"log_format":      "console",
		"output_format":   "text",
		"metrics_file":    "",
	}
}
