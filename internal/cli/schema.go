package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and check schema files",
	Long:  "Commands for checking a frontmatter schema for mistakes and showing the fields it declares.",
}

var schemaCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a schema file for mistakes",
	Long: `Load a schema and report every problem in it: unknown types, constraints that
do not apply to the declared type, min greater than max, bad patterns, allowed
values of the wrong type, and required_if rules that name undeclared fields.

With no file, the configured schema_path is checked.`,
	Example: `  fmlint schema check frontmatter-schema.yaml`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := schemaPathArg(cmd, args)
		if err != nil {
			return err
		}
		return runSchemaCheck(path, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var schemaShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the fields a schema declares",
	Long: `Print each declared field with its type, whether it is required, its
constraints and description. With no file, the configured schema_path is shown.`,
	Example: `  fmlint schema show frontmatter-schema.yaml`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := schemaPathArg(cmd, args)
		if err != nil {
			return err
		}
		return runSchemaShow(path, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	schemaCmd.GroupID = GroupSchema
	schemaCmd.AddCommand(schemaCheckCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	rootCmd.AddCommand(schemaCmd)
}

// schemaPathArg returns the positional schema path, falling back to config.
func schemaPathArg(cmd *cobra.Command, args []string) (string, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return cfg.SchemaPath, nil
}

// runSchemaCheck loads the schema at path and reports the outcome.
func runSchemaCheck(path string, out, errOut io.Writer) error {
	s, err := loadSchema(path, errOut)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	strict := "off"
	if s.StrictMode() {
		strict = "on"
	}
	fmt.Fprintf(out, "%s %s is valid (%d fields, strict mode %s)\n", green("✓"), path, s.Len(), strict)
	return nil
}

// runSchemaShow prints the schema at path.
func runSchemaShow(path string, out, errOut io.Writer) error {
	s, err := loadSchema(path, errOut)
	if err != nil {
		return err
	}
	printSchema(s, out)
	return nil
}
