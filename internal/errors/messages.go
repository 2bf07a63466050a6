package errors

import "fmt"

// MissingSchemaFile is returned when no schema path was given or the file is absent.
func MissingSchemaFile(path string) *CLIError {
	if path == "" {
		return NewArgumentErrorWithUsage(
			"no schema file specified",
			"fmlint validate --schema <schema.yaml> [paths...]",
			"Pass --schema with the path to a schema file",
			"Or set schema_path in .fmlint.json or FMLINT_SCHEMA_PATH",
		)
	}
	return NewPrerequisiteError(
		fmt.Sprintf("schema file not found: %s", path),
		"Check the path passed to --schema",
		"Run 'fmlint schema check <file>' once the file exists",
	)
}

// InvalidSchema wraps a schema load failure.
func InvalidSchema(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration, fmt.Sprintf("cannot use schema %s", path),
		"Fix the problems listed above",
		fmt.Sprintf("Re-run 'fmlint schema check %s' to confirm", path),
	)
}

func NoDocumentsFound(dir, pattern string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no documents matching %q found in %s", pattern, dir),
		"Check the directory path",
		"Use --pattern to match a different file extension",
	)
}

func InvalidOutputFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid output format %q", format),
		"fmlint validate --format text|json",
		"Use 'text' or 'json'",
	)
}

func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the path passed to --config",
		"Remove --config to use the default locations",
	)
}

func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration, fmt.Sprintf("failed to parse config %s", path),
		"Check the file is valid JSON",
		"Compare it with the keys shown by 'fmlint validate --help'",
	)
}

func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination %s: %s", flags, reason),
		"Use only one of the conflicting flags",
	)
}

func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"Check the path exists and is a directory",
	)
}

func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write file: %s", path),
		"Check the directory exists and is writable",
	)
}
