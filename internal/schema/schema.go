// Package schema loads the declarative frontmatter schema and checks that it is
// internally consistent. A loaded Schema is immutable and safe to share between
// goroutines.
package schema

import (
	"regexp"

	"github.com/organvm/fmlint/internal/frontmatter"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeList    FieldType = "list"
	TypeDate    FieldType = "date"
	TypeInteger FieldType = "integer"
	TypeEnum    FieldType = "enum"
)

// DateFormat is the only supported date layout, in schema notation.
const DateFormat = "YYYY-MM-DD"

// ValidFieldTypes returns the declarable field types in display order.
func ValidFieldTypes() []FieldType {
	return []FieldType{TypeString, TypeList, TypeDate, TypeInteger, TypeEnum}
}

// Constraints is the sparse set of per-field rules. Unset bounds are nil.
type Constraints struct {
	MinLength *int
	MaxLength *int

	MinItems    *int
	MaxItems    *int
	ItemType    FieldType
	ItemPattern *Pattern

	MinValue *int64
	MaxValue *int64

	Pattern *Pattern
	Allowed []frontmatter.Value

	Format                  string
	ValidateAgainstFilename bool
}

// Pattern is a compiled regular expression that must match the whole value.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// CompilePattern anchors source at both ends and compiles it.
func CompilePattern(source string) (*Pattern, error) {
	re, err := regexp.Compile(`^(?:` + source + `)$`)
	if err != nil {
		return nil, err
	}
	return &Pattern{Source: source, re: re}, nil
}

// MatchString reports whether s matches the whole pattern.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// String returns the pattern as written in the schema.
func (p *Pattern) String() string {
	return p.Source
}

// Field describes one declared frontmatter field.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Constraints Constraints
	// RequiredIf is nil unless the field is conditionally required.
	RequiredIf  Condition
	Description string
	// Line is the position of the field in the schema source.
	Line int
}

// Schema is the ordered set of declared fields plus the strict-mode policy.
type Schema struct {
	version    string
	source     string
	strictMode bool
	fields     []Field
	index      map[string]int
}

// Version returns the optional schema version string.
func (s *Schema) Version() string { return s.version }

// Source returns where the schema was loaded from.
func (s *Schema) Source() string { return s.source }

// StrictMode reports whether undeclared document keys are violations.
func (s *Schema) StrictMode() bool { return s.strictMode }

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// WithStrictMode returns a copy of the schema with the strict policy replaced.
// The receiver is left untouched.
func (s *Schema) WithStrictMode(strict bool) *Schema {
	cp := *s
	cp.strictMode = strict
	return &cp
}
