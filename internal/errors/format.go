package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders err with colored category, usage and remediation
// sections. Colors follow fatih/color's NoColor detection.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	if color.NoColor {
		return FormatErrorPlain(err)
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	return render(err, red, cyan, yellow)
}

// FormatErrorPlain renders err without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return render(err, plain, plain, plain)
}

func render(err *CLIError, title, label, step func(...interface{}) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", title(err.Category.String()), err.Message)
	if err.Usage != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n", label("Usage:"), err.Usage)
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&b, "\n%s\n", label("To fix this:"))
		for i, r := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", step(fmt.Sprintf("%d.", i+1)), r)
		}
	}
	return b.String()
}

// FprintError writes the formatted error to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError formats any error, using its own category when it is
// already a CLIError.
func FormatSimpleError(err error, cat ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: cat, Message: err.Error()})
}
