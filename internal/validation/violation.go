// Package validation checks a frontmatter document against a loaded schema and
// reports every problem it finds.
//
// Validate is the entry point. It runs three phases in a fixed order (the
// strict-mode gate, per-field checks in schema declaration order, then
// cross-field conditions) and never stops at the first problem. It is a pure
// function of its inputs and safe to call from many goroutines at once.
package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a violation.
type Kind string

const (
	KindMissingRequired  Kind = "missing-required"
	KindWrongType        Kind = "wrong-type"
	KindOutOfRange       Kind = "out-of-range"
	KindPatternMismatch  Kind = "pattern-mismatch"
	KindNotAllowedValue  Kind = "not-allowed-value"
	KindConditionalUnmet Kind = "conditional-unmet"
	KindUnknownField     Kind = "unknown-field"
	// KindMalformedFrontmatter is used by callers when a document's
	// frontmatter cannot be extracted at all.
	KindMalformedFrontmatter Kind = "malformed-frontmatter"
)

// Kinds returns every violation kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindMissingRequired,
		KindWrongType,
		KindOutOfRange,
		KindPatternMismatch,
		KindNotAllowedValue,
		KindConditionalUnmet,
		KindUnknownField,
		KindMalformedFrontmatter,
	}
}

// DocumentField is the Field of violations that concern the whole document
// rather than one declared field.
const DocumentField = "*"

// Violation is a single problem found in a document.
type Violation struct {
	Field    string `json:"field"`              // Declared field name, or DocumentField
	Kind     Kind   `json:"kind"`               // Violation classification
	Message  string `json:"message"`            // Human-readable, self-contained description
	Line     int    `json:"line,omitempty"`     // 1-based line in the source file
	Column   int    `json:"column,omitempty"`   // 1-based column in the source file
	Expected string `json:"expected,omitempty"` // What was expected (type, range, values)
	Actual   string `json:"actual,omitempty"`   // What was found
	Hint     string `json:"hint,omitempty"`     // Suggestion for fixing the problem
}

// String renders the violation on one line.
func (v Violation) String() string {
	var sb strings.Builder
	if v.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", v.Line))
		if v.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", v.Column))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf("[%s] ", v.Kind))
	sb.WriteString(v.Message)
	return sb.String()
}

// FormatFull returns a detailed multi-line rendering. Whole-document
// violations leave out the Field line.
func (v Violation) FormatFull() string {
	var sb strings.Builder

	if v.Line > 0 {
		sb.WriteString(fmt.Sprintf("  Location: line %d", v.Line))
		if v.Column > 0 {
			sb.WriteString(fmt.Sprintf(", column %d", v.Column))
		}
		sb.WriteString("\n")
	}
	if v.Field != DocumentField {
		sb.WriteString(fmt.Sprintf("  Field: %s\n", v.Field))
	}
	sb.WriteString(fmt.Sprintf("  Kind: %s\n", v.Kind))
	sb.WriteString(fmt.Sprintf("  Message: %s\n", v.Message))
	if v.Expected != "" {
		sb.WriteString(fmt.Sprintf("  Expected: %s\n", v.Expected))
	}
	if v.Actual != "" {
		sb.WriteString(fmt.Sprintf("  Got: %s\n", v.Actual))
	}
	if v.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", v.Hint))
	}
	return sb.String()
}
