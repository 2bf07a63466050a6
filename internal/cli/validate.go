package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/organvm/fmlint/internal/batch"
	"github.com/organvm/fmlint/internal/config"
	apperrors "github.com/organvm/fmlint/internal/errors"
	"github.com/organvm/fmlint/internal/logging"
	"github.com/organvm/fmlint/internal/metrics"
	"github.com/organvm/fmlint/internal/progress"
	"github.com/organvm/fmlint/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Validate document frontmatter against the schema",
	Long: `Validate the frontmatter of Markdown documents against a schema.

Paths may be files or directories. A directory contributes the files directly
inside it that match --pattern. With no paths, the configured posts_dir is used.

Every violation in every document is reported; validation never stops at the
first problem. Exit code 0 means all documents are valid, 1 means at least one
violation was found.`,
	Example: `  # Validate the configured posts directory
  fmlint validate

  # Validate two files with an explicit schema
  fmlint validate --schema schema.yaml _posts/a.md _posts/b.md

  # Allow undeclared fields regardless of the schema's strict_mode
  fmlint validate --no-strict

  # JSON output and a Prometheus textfile for CI dashboards
  fmlint validate --format json --metrics-file fmlint.prom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyValidateFlags(cmd.Flags(), cfg); err != nil {
			return err
		}
		caps := progress.DetectTerminalCapabilities()
		return runValidate(cmd.Context(), cfg, args, caps, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	validateCmd.GroupID = GroupValidation
	addValidateFlags(validateCmd.Flags())
	rootCmd.AddCommand(validateCmd)
}

func addValidateFlags(flags *pflag.FlagSet) {
	flags.StringP("schema", "s", "", "Path to the schema file (overrides schema_path)")
	flags.Bool("strict", false, "Reject undeclared fields regardless of the schema")
	flags.Bool("no-strict", false, "Allow undeclared fields regardless of the schema")
	flags.IntP("workers", "w", 0, "Number of documents validated concurrently (1-64)")
	flags.Bool("no-filename-date", false, "Skip comparing dates with the filename date prefix")
	flags.StringP("format", "f", "", "Output format: text or json")
	flags.String("pattern", "", "File name pattern for directories (default \"*.md\")")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file")
}

// applyValidateFlags lets explicitly set flags override configuration.
func applyValidateFlags(flags *pflag.FlagSet, cfg *config.Configuration) error {
	strict, _ := flags.GetBool("strict")
	noStrict, _ := flags.GetBool("no-strict")
	if strict && noStrict {
		return apperrors.InvalidFlagCombination("--strict --no-strict", "they contradict each other")
	}
	if strict {
		cfg.StrictOverride = "strict"
	}
	if noStrict {
		cfg.StrictOverride = "lenient"
	}

	if flags.Changed("schema") {
		cfg.SchemaPath, _ = flags.GetString("schema")
	}
	if flags.Changed("workers") {
		workers, _ := flags.GetInt("workers")
		if workers < 1 || workers > 64 {
			return apperrors.NewArgumentError("--workers must be between 1 and 64", "Pass a value such as --workers 4")
		}
		cfg.Workers = workers
	}
	if noDate, _ := flags.GetBool("no-filename-date"); noDate {
		cfg.FilenameDate = false
	}
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("pattern") {
		cfg.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	return nil
}

// runValidate validates the documents named by args (or cfg.PostsDir) and
// writes results to out. Returned errors carry the exit code.
func runValidate(ctx context.Context, cfg *config.Configuration, args []string, caps progress.TerminalCapabilities, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.OutputFormat != formatText && cfg.OutputFormat != formatJSON {
		return apperrors.InvalidOutputFormat(cfg.OutputFormat)
	}

	s, err := loadSchema(cfg.SchemaPath, errOut)
	if err != nil {
		return err
	}
	s = s.WithStrictMode(cfg.StrictMode(s.StrictMode()))

	roots := args
	if len(roots) == 0 {
		roots = []string{cfg.PostsDir}
	}
	paths, err := batch.Discover(roots, cfg.Pattern)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if len(args) == 0 {
				return apperrors.DirectoryNotFound(cfg.PostsDir)
			}
			return apperrors.Wrap(err, apperrors.Prerequisite, "Check the paths passed to validate")
		}
		return apperrors.Wrap(err, apperrors.Argument)
	}
	if len(paths) == 0 {
		return apperrors.NoDocumentsFound(roots[0], cfg.Pattern)
	}

	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.NewRecorder()
	}

	display := progress.NewDisplay(caps, out)
	opts := batch.Options{
		Workers:      cfg.Workers,
		FilenameDate: cfg.FilenameDate,
		Metrics:      rec,
	}
	if cfg.OutputFormat == formatText {
		opts.OnDone = display.Advance
		display.Start(len(paths))
	}

	start := time.Now()
	results, err := batch.NewRunner(s, opts).Run(ctx, paths)
	display.Stop()
	if err != nil {
		return apperrors.Wrap(err, apperrors.Runtime)
	}
	summary := batch.Summarize(results)
	logger := logging.WithComponent("cli")
	logger.Info().
		Int("documents", summary.Documents).
		Int("invalid", summary.Invalid).
		Int("violations", summary.Violations).
		Dur("elapsed", time.Since(start)).
		Msg("validation finished")

	if cfg.OutputFormat == formatJSON {
		if err := writeRunJSON(out, s, results, summary); err != nil {
			return apperrors.Wrap(err, apperrors.Runtime)
		}
	} else {
		writeRunText(out, results)
		display.Finish(summary.Passed(), summary.String())
	}

	if rec != nil {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error().Err(err).Str("path", cfg.MetricsFile).Msg("writing metrics")
			apperrors.FprintError(errOut, apperrors.FileNotWritable(cfg.MetricsFile))
		}
	}

	if !summary.Passed() {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// loadSchema loads the schema at path, listing every problem of an invalid
// schema on errOut.
func loadSchema(path string, errOut io.Writer) (*schema.Schema, error) {
	if path == "" {
		return nil, apperrors.MissingSchemaFile("")
	}
	s, err := schema.LoadFile(path)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.MissingSchemaFile(path)
	}
	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		writeSchemaProblems(errOut, path, schemaErr)
		return nil, apperrors.InvalidSchema(path, fmt.Errorf("%d problem(s)", len(schemaErr.Problems)))
	}
	return nil, apperrors.InvalidSchema(path, err)
}
