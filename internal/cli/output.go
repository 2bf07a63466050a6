package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/organvm/fmlint/internal/batch"
	"github.com/organvm/fmlint/internal/frontmatter"
	"github.com/organvm/fmlint/internal/schema"
	"github.com/organvm/fmlint/internal/validation"
)

// Output formats for the validate command.
const (
	formatText = "text"
	formatJSON = "json"
)

// writeRunText prints every failing document with its violations. Valid
// documents are left to the summary line.
func writeRunText(out io.Writer, results []batch.Result) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(out, "%s %s could not be read: %v\n\n", red("✗"), res.Path, res.Err)
		case !res.Report.Valid():
			formatDocumentReport(out, res.Path, res.Report)
		}
	}
}

// formatDocumentReport prints one document's violations.
func formatDocumentReport(out io.Writer, path string, report *validation.Report) {
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(out, "%s %s has %d violation(s)\n\n", red("✗"), path, report.Len())

	for i, v := range report.Violations() {
		fmt.Fprintf(out, "Violation %d:\n%s\n", i+1, v.FormatFull())
	}
}

type documentJSON struct {
	Path       string                 `json:"path"`
	Valid      bool                   `json:"valid"`
	Error      string                 `json:"error,omitempty"`
	Violations []validation.Violation `json:"violations"`
}

type runJSON struct {
	Schema    string         `json:"schema"`
	Strict    bool           `json:"strict_mode"`
	Documents []documentJSON `json:"documents"`
	Summary   batch.Summary  `json:"summary"`
	Passed    bool           `json:"passed"`
}

// writeRunJSON writes the whole run as one JSON object.
func writeRunJSON(out io.Writer, s *schema.Schema, results []batch.Result, summary batch.Summary) error {
	run := runJSON{
		Schema:    s.Source(),
		Strict:    s.StrictMode(),
		Documents: make([]documentJSON, 0, len(results)),
		Summary:   summary,
		Passed:    summary.Passed(),
	}
	for _, res := range results {
		doc := documentJSON{Path: res.Path, Violations: []validation.Violation{}}
		if res.Err != nil {
			doc.Error = res.Err.Error()
		} else {
			doc.Valid = res.Report.Valid()
			doc.Violations = append(doc.Violations, res.Report.Violations()...)
		}
		run.Documents = append(run.Documents, doc)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

// writeSchemaProblems lists every problem in an invalid schema.
func writeSchemaProblems(out io.Writer, path string, err *schema.Error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(out, "%s %s has %d problem(s)\n\n", red("✗"), path, len(err.Problems))
	for _, p := range err.Problems {
		fmt.Fprintf(out, "  %s\n", p)
	}
	fmt.Fprintf(out, "\n")
}

// printSchema prints the declared fields of a schema.
func printSchema(s *schema.Schema, out io.Writer) {
	fmt.Fprintf(out, "Schema %s", s.Source())
	if s.Version() != "" {
		fmt.Fprintf(out, " (version %s)", s.Version())
	}
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	fmt.Fprintf(out, "strict_mode: %t\n\n", s.StrictMode())

	fmt.Fprintf(out, "Fields:\n")
	fmt.Fprintf(out, "%s\n", strings.Repeat("-", 40))

	for _, field := range s.Fields() {
		printSchemaField(field, out)
	}
}

// printSchemaField prints a single schema field with its constraints.
func printSchemaField(field schema.Field, out io.Writer) {
	required := ""
	switch {
	case field.Required:
		required = " (required)"
	case field.RequiredIf != nil:
		required = fmt.Sprintf(" (required if %s)", field.RequiredIf)
	}

	typeStr := string(field.Type)
	if field.Type == schema.TypeList && field.Constraints.ItemType != "" {
		typeStr = fmt.Sprintf("list[%s]", field.Constraints.ItemType)
	}
	if len(field.Constraints.Allowed) > 0 {
		typeStr = fmt.Sprintf("%s[%s]", typeStr, joinValues(field.Constraints.Allowed))
	}

	fmt.Fprintf(out, "%s: %s%s\n", field.Name, typeStr, required)
	for _, c := range describeConstraints(field.Constraints) {
		fmt.Fprintf(out, "  %s\n", c)
	}
	if field.Description != "" {
		fmt.Fprintf(out, "  # %s\n", field.Description)
	}
}

func describeConstraints(c schema.Constraints) []string {
	var out []string
	intBound := func(name string, v *int) {
		if v != nil {
			out = append(out, fmt.Sprintf("%s: %d", name, *v))
		}
	}
	intBound("min_length", c.MinLength)
	intBound("max_length", c.MaxLength)
	intBound("min_items", c.MinItems)
	intBound("max_items", c.MaxItems)
	if c.MinValue != nil {
		out = append(out, fmt.Sprintf("min_value: %d", *c.MinValue))
	}
	if c.MaxValue != nil {
		out = append(out, fmt.Sprintf("max_value: %d", *c.MaxValue))
	}
	if c.Pattern != nil {
		out = append(out, fmt.Sprintf("pattern: %s", c.Pattern))
	}
	if c.ItemPattern != nil {
		out = append(out, fmt.Sprintf("item_pattern: %s", c.ItemPattern))
	}
	if c.Format != "" {
		out = append(out, fmt.Sprintf("format: %s", c.Format))
	}
	if c.ValidateAgainstFilename {
		out = append(out, "validate_against_filename: true")
	}
	return out
}

func joinValues(values []frontmatter.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if v.Kind == frontmatter.KindString {
			parts[i] = v.Str
		} else {
			parts[i] = v.Literal()
		}
	}
	return strings.Join(parts, ", ")
}
