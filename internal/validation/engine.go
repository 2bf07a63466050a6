package validation

import (
	"fmt"

	"github.com/organvm/fmlint/internal/frontmatter"
	"github.com/organvm/fmlint/internal/schema"
)

// Context carries caller-supplied reference values the document cannot
// provide about itself.
type Context struct {
	// ReferenceDate is the canonical YYYY-MM-DD date of the document, usually
	// derived from its filename. Empty disables validate_against_filename checks.
	ReferenceDate string
}

// Validate checks doc against s and returns every violation found.
// A nil document is treated as empty.
func Validate(doc *frontmatter.Document, s *schema.Schema, ctx Context) *Report {
	var b builder
	fields := s.Fields()

	checkUnknownFields(doc, s, &b)
	for _, f := range fields {
		checkField(doc, f, ctx, &b)
	}
	checkConditions(doc, fields, &b)

	return b.report()
}

// checkUnknownFields is the strict-mode gate: one violation per undeclared key,
// in document order.
func checkUnknownFields(doc *frontmatter.Document, s *schema.Schema, b *builder) {
	if !s.StrictMode() {
		return
	}
	for _, key := range doc.Keys() {
		if s.Has(key) {
			continue
		}
		b.add(at(doc.Get(key), Violation{
			Field:   DocumentField,
			Kind:    KindUnknownField,
			Message: fmt.Sprintf("unknown field '%s' is not declared in the schema", key),
			Actual:  key,
			Hint:    fmt.Sprintf("Remove '%s' or declare it in the schema", key),
		}))
	}
}

// checkField runs the required check and, for present values, the type
// validator. A missing required field gets exactly one violation.
func checkField(doc *frontmatter.Document, f schema.Field, ctx Context, b *builder) {
	v := doc.Get(f.Name)
	if v.IsAbsent() {
		if f.Required {
			b.add(Violation{
				Field:   f.Name,
				Kind:    KindMissingRequired,
				Message: fmt.Sprintf("missing required field '%s'", f.Name),
				Line:    v.Line,
				Hint:    fmt.Sprintf("Add the '%s' field to the frontmatter", f.Name),
			})
		}
		return
	}

	fv, ok := ValidatorFor(f.Type)
	if !ok {
		return
	}
	b.add(fv.Validate(f, v, ctx)...)
}

// checkConditions evaluates required_if rules in declaration order. Only the
// forward direction is checked: a dependent field present without its
// prerequisite is not a violation. Unconditionally required fields were
// already reported by checkField.
func checkConditions(doc *frontmatter.Document, fields []schema.Field, b *builder) {
	for _, f := range fields {
		if f.RequiredIf == nil || f.Required {
			continue
		}
		if !f.RequiredIf.Holds(doc) || !doc.Get(f.Name).IsAbsent() {
			continue
		}
		b.add(Violation{
			Field:    f.Name,
			Kind:     KindConditionalUnmet,
			Message:  fmt.Sprintf("field '%s' is required when %s", f.Name, f.RequiredIf),
			Expected: fmt.Sprintf("'%s' to be set", f.Name),
			Hint:     fmt.Sprintf("Add '%s' or remove the fields it depends on", f.Name),
		})
	}
}
