package schema

import (
	"fmt"
	"strings"
)

// Problem is one reason a schema failed to load.
type Problem struct {
	Field   string // Field name, empty for document-level problems
	Line    int    // 1-based line in the schema source, 0 if unknown
	Message string
}

func (p Problem) String() string {
	var sb strings.Builder
	if p.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d: ", p.Line))
	}
	if p.Field != "" {
		sb.WriteString(fmt.Sprintf("field '%s': ", p.Field))
	}
	sb.WriteString(p.Message)
	return sb.String()
}

// Error is returned when the schema itself is malformed. It lists every
// problem found so the author can fix them in one pass.
type Error struct {
	Source   string
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid schema %s: %s", e.Source, e.Problems[0])
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("invalid schema %s: %d problems: %s", e.Source, len(e.Problems), strings.Join(parts, "; "))
}

// problems accumulates Problems while a schema is being checked.
type problems []Problem

func (ps *problems) add(field string, line int, format string, args ...any) {
	*ps = append(*ps, Problem{Field: field, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (ps problems) err(source string) error {
	if len(ps) == 0 {
		return nil
	}
	return &Error{Source: source, Problems: ps}
}

// extractLineColumn pulls the position out of a yaml.v3 syntax error.
// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError drops the "yaml: line X:" prefix.
func cleanYAMLError(errMsg string) string {
	if strings.HasPrefix(errMsg, "yaml:") {
		if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}
