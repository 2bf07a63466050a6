// Package cli provides the Cobra-based fmlint command line: document
// validation, schema inspection and version reporting.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/organvm/fmlint/internal/cli/shared"
	"github.com/organvm/fmlint/internal/config"
	apperrors "github.com/organvm/fmlint/internal/errors"
	"github.com/organvm/fmlint/internal/logging"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupValidation = shared.GroupValidation
	GroupSchema     = shared.GroupSchema
	GroupInfo       = shared.GroupInfo
)

var rootCmd = &cobra.Command{
	Use:   "fmlint",
	Short: "Validate Markdown frontmatter against a schema",
	Long: `fmlint checks the YAML frontmatter of Markdown documents against a declarative
schema and reports every violation with its line, expected value and a hint.`,
	Example: `  # Validate every post in the configured posts directory
  fmlint validate

  # Validate specific files against a schema
  fmlint validate --schema frontmatter-schema.yaml _posts/2024-01-15-hello.md

  # Check a schema for mistakes
  fmlint schema check frontmatter-schema.yaml

  # Machine-readable output for CI
  fmlint validate --format json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Init(logging.DefaultConfig())
	return reportError(rootCmd.ErrOrStderr(), rootCmd.ExecuteContext(ctx))
}

// reportError prints err and returns the exit code for it. Exit errors carry
// no message; their cause was already reported.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if isExitError(err) {
		return ExitCode(err)
	}
	fmt.Fprint(w, apperrors.FormatSimpleError(err, apperrors.Runtime))
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		return exitCodeFor(cliErr)
	}
	return ExitCode(err)
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupValidation, Title: "Validation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSchema, Title: "Schema:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupInfo, Title: "Information:"})

	rootCmd.SetHelpCommandGroupID(GroupInfo)
	rootCmd.SetCompletionCommandGroupID(GroupInfo)

	addRootFlags(rootCmd.PersistentFlags())
}

func addRootFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", config.LocalConfigFile, "Path to config file")
	flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.String("log-format", "", "Log format: console or json (overrides config)")
}

// loadConfig loads configuration for a command and initializes logging from
// it. --debug and --verbose take precedence over log_level.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.ConfigFileNotFound(path)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, apperrors.ConfigParseError(path, err)
	}

	logCfg, err := logConfigFor(cmd.Flags(), cfg)
	if err != nil {
		return nil, err
	}
	logCfg.Out = cmd.ErrOrStderr()
	logging.Init(logCfg)

	logger := logging.WithComponent("cli")
	logger.Debug().
		Str("config", path).
		Str("schema_path", cfg.SchemaPath).
		Str("posts_dir", cfg.PostsDir).
		Int("workers", cfg.Workers).
		Msg("configuration loaded")
	return cfg, nil
}

// logConfigFor applies --verbose, --debug and --log-format on top of the
// configured log settings.
func logConfigFor(flags *pflag.FlagSet, cfg *config.Configuration) (logging.Config, error) {
	logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		logCfg.Level = "info"
	}
	if debug, _ := flags.GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	if format, _ := flags.GetString("log-format"); format != "" {
		if format != logging.FormatConsole && format != logging.FormatJSON {
			return logging.Config{}, apperrors.NewArgumentError(
				fmt.Sprintf("invalid log format %q", format),
				"Use --log-format console or --log-format json",
			)
		}
		logCfg.Format = format
	}
	return logCfg, nil
}

// exitCodeFor maps an error category to the process exit code.
func exitCodeFor(err *apperrors.CLIError) int {
	switch err.Category {
	case apperrors.Argument, apperrors.Configuration:
		return ExitInvalidArguments
	case apperrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitValidationFailed
	}
}
