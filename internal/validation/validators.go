package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/organvm/fmlint/internal/frontmatter"
	"github.com/organvm/fmlint/internal/schema"
)

// FieldValidator checks one present value against its declared field.
// Implementations are stateless; the caller has already handled absent values.
type FieldValidator interface {
	Validate(field schema.Field, value frontmatter.Value, ctx Context) []Violation
}

// validators dispatches on the schema's declared type.
var validators = map[schema.FieldType]FieldValidator{
	schema.TypeString:  stringValidator{},
	schema.TypeList:    listValidator{},
	schema.TypeDate:    dateValidator{},
	schema.TypeInteger: integerValidator{},
	schema.TypeEnum:    enumValidator{},
}

// ValidatorFor returns the validator registered for a declared type.
func ValidatorFor(t schema.FieldType) (FieldValidator, bool) {
	v, ok := validators[t]
	return v, ok
}

type stringValidator struct{}

func (stringValidator) Validate(f schema.Field, v frontmatter.Value, _ Context) []Violation {
	if v.Kind != frontmatter.KindString {
		return []Violation{wrongType(f.Name, v, "string")}
	}

	var out []Violation
	c := f.Constraints
	if vio, ok := checkAllowed(f.Name, v, c.Allowed, ""); !ok {
		out = append(out, vio)
	}
	n := utf8.RuneCountInString(v.Str)
	if c.MinLength != nil && n < *c.MinLength {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' is too short (%d chars, min %d)", f.Name, n, *c.MinLength),
			Expected: fmt.Sprintf("at least %d characters", *c.MinLength),
			Actual:   fmt.Sprintf("%d characters", n),
		}))
	}
	if c.MaxLength != nil && n > *c.MaxLength {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' is too long (%d chars, max %d)", f.Name, n, *c.MaxLength),
			Expected: fmt.Sprintf("at most %d characters", *c.MaxLength),
			Actual:   fmt.Sprintf("%d characters", n),
		}))
	}
	if c.Pattern != nil && !c.Pattern.MatchString(v.Str) {
		out = append(out, patternMismatch(f.Name, "", v, c.Pattern))
	}
	return out
}

type listValidator struct{}

func (listValidator) Validate(f schema.Field, v frontmatter.Value, ctx Context) []Violation {
	if v.Kind != frontmatter.KindList {
		return []Violation{wrongType(f.Name, v, "list")}
	}
	c := f.Constraints
	if c.ItemType == "" && !homogeneous(v.Items) {
		vio := wrongType(f.Name, v, "list of items sharing one type")
		vio.Actual = "mixed item types"
		return []Violation{vio}
	}

	var out []Violation
	count := len(v.Items)
	if c.MinItems != nil && count < *c.MinItems {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' has too few items (%d, min %d)", f.Name, count, *c.MinItems),
			Expected: fmt.Sprintf("at least %d items", *c.MinItems),
			Actual:   fmt.Sprintf("%d items", count),
		}))
	}
	if c.MaxItems != nil && count > *c.MaxItems {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' has too many items (%d, max %d)", f.Name, count, *c.MaxItems),
			Expected: fmt.Sprintf("at most %d items", *c.MaxItems),
			Actual:   fmt.Sprintf("%d items", count),
		}))
	}

	for i, item := range v.Items {
		label := fmt.Sprintf("item [%d]", i)
		if !item.IsScalar() {
			vio := wrongType(f.Name, item, "scalar")
			vio.Message = fmt.Sprintf("field '%s' %s expected a scalar, got %s", f.Name, label, item.Kind)
			out = append(out, vio)
			continue
		}
		if c.ItemType != "" && !matchesItemType(item, c.ItemType) {
			vio := wrongType(f.Name, item, string(c.ItemType))
			vio.Message = fmt.Sprintf("field '%s' %s expected %s, got %s", f.Name, label, c.ItemType, item.Kind)
			out = append(out, vio)
			continue
		}
		if vio, ok := checkAllowed(f.Name, item, c.Allowed, label); !ok {
			out = append(out, vio)
		}
		if c.ItemPattern != nil && item.Kind == frontmatter.KindString && !c.ItemPattern.MatchString(item.Str) {
			out = append(out, patternMismatch(f.Name, label, item, c.ItemPattern))
		}
	}
	return out
}

func matchesItemType(item frontmatter.Value, t schema.FieldType) bool {
	switch t {
	case schema.TypeString:
		return item.Kind == frontmatter.KindString
	case schema.TypeInteger:
		_, ok := item.WholeNumber()
		return ok
	case schema.TypeDate:
		_, ok := parseDate(item)
		return ok
	default:
		return true
	}
}

// homogeneous reports whether every item has the same kind. Integers and
// whole floats count as the same kind.
func homogeneous(items []frontmatter.Value) bool {
	if len(items) < 2 {
		return true
	}
	kindOf := func(v frontmatter.Value) frontmatter.Kind {
		if _, ok := v.WholeNumber(); ok {
			return frontmatter.KindInteger
		}
		return v.Kind
	}
	first := kindOf(items[0])
	for _, item := range items[1:] {
		if kindOf(item) != first {
			return false
		}
	}
	return true
}

type dateValidator struct{}

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func parseDate(v frontmatter.Value) (time.Time, bool) {
	if v.Kind != frontmatter.KindString || !dateShape.MatchString(v.Str) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, v.Str)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (dateValidator) Validate(f schema.Field, v frontmatter.Value, ctx Context) []Violation {
	if _, ok := parseDate(v); !ok {
		vio := wrongType(f.Name, v, "date ("+schema.DateFormat+")")
		vio.Message = fmt.Sprintf("field '%s' expected a date in %s format, got %s", f.Name, schema.DateFormat, v.Literal())
		vio.Hint = fmt.Sprintf("Write '%s' as a calendar date such as 2024-01-15", f.Name)
		return []Violation{vio}
	}

	var out []Violation
	c := f.Constraints
	if vio, ok := checkAllowed(f.Name, v, c.Allowed, ""); !ok {
		out = append(out, vio)
	}
	if c.ValidateAgainstFilename && ctx.ReferenceDate != "" && v.Str != ctx.ReferenceDate {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindConditionalUnmet,
			Message:  fmt.Sprintf("field '%s' is %s but the filename date is %s", f.Name, v.Str, ctx.ReferenceDate),
			Expected: ctx.ReferenceDate,
			Actual:   v.Str,
			Hint:     "Make the frontmatter date match the date prefix of the filename",
		}))
	}
	return out
}

type integerValidator struct{}

func (integerValidator) Validate(f schema.Field, v frontmatter.Value, _ Context) []Violation {
	n, ok := v.WholeNumber()
	if !ok {
		return []Violation{wrongType(f.Name, v, "integer")}
	}

	var out []Violation
	c := f.Constraints
	if vio, ok := checkAllowed(f.Name, frontmatter.Int(n), c.Allowed, ""); !ok {
		out = append(out, at(v, vio))
	}
	if c.MinValue != nil && n < *c.MinValue {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' value %d is below minimum %d", f.Name, n, *c.MinValue),
			Expected: fmt.Sprintf(">= %d", *c.MinValue),
			Actual:   fmt.Sprintf("%d", n),
		}))
	}
	if c.MaxValue != nil && n > *c.MaxValue {
		out = append(out, at(v, Violation{
			Field:    f.Name,
			Kind:     KindOutOfRange,
			Message:  fmt.Sprintf("field '%s' value %d is above maximum %d", f.Name, n, *c.MaxValue),
			Expected: fmt.Sprintf("<= %d", *c.MaxValue),
			Actual:   fmt.Sprintf("%d", n),
		}))
	}
	return out
}

type enumValidator struct{}

func (enumValidator) Validate(f schema.Field, v frontmatter.Value, _ Context) []Violation {
	if !v.IsScalar() {
		return []Violation{wrongType(f.Name, v, "one of: "+joinAllowed(f.Constraints.Allowed))}
	}
	if vio, ok := checkAllowed(f.Name, v, f.Constraints.Allowed, ""); !ok {
		return []Violation{vio}
	}
	return nil
}

// checkAllowed enforces an allowed-value set. An empty set allows anything.
// Comparison is exact: no case folding and no coercion between kinds.
func checkAllowed(field string, v frontmatter.Value, allowed []frontmatter.Value, label string) (Violation, bool) {
	if len(allowed) == 0 {
		return Violation{}, true
	}
	for _, a := range allowed {
		if v.Equal(a) {
			return Violation{}, true
		}
	}
	subject := fmt.Sprintf("field '%s'", field)
	if label != "" {
		subject += " " + label
	}
	return at(v, Violation{
		Field:    field,
		Kind:     KindNotAllowedValue,
		Message:  fmt.Sprintf("%s must be one of [%s], got %s", subject, joinAllowed(allowed), v.Literal()),
		Expected: "one of: " + joinAllowed(allowed),
		Actual:   v.Literal(),
		Hint:     fmt.Sprintf("Use one of the valid values: %s", joinAllowed(allowed)),
	}), false
}

func joinAllowed(allowed []frontmatter.Value) string {
	parts := make([]string, len(allowed))
	for i, a := range allowed {
		if a.Kind == frontmatter.KindString {
			parts[i] = a.Str
		} else {
			parts[i] = a.Literal()
		}
	}
	return strings.Join(parts, ", ")
}

func wrongType(field string, v frontmatter.Value, expected string) Violation {
	return at(v, Violation{
		Field:    field,
		Kind:     KindWrongType,
		Message:  fmt.Sprintf("field '%s' expected %s, got %s", field, expected, v.Kind),
		Expected: expected,
		Actual:   v.Kind.String(),
		Hint:     fmt.Sprintf("Change '%s' to be a %s", field, expected),
	})
}

func patternMismatch(field, label string, v frontmatter.Value, p *schema.Pattern) Violation {
	subject := fmt.Sprintf("field '%s'", field)
	if label != "" {
		subject += " " + label
	}
	return at(v, Violation{
		Field:    field,
		Kind:     KindPatternMismatch,
		Message:  fmt.Sprintf("%s %s does not match pattern %s", subject, v.Literal(), p),
		Expected: "match for " + p.String(),
		Actual:   v.Literal(),
	})
}

// at stamps the value's source position on a violation.
func at(v frontmatter.Value, vio Violation) Violation {
	if vio.Line == 0 {
		vio.Line, vio.Column = v.Line, v.Column
	}
	return vio
}
