package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/organvm/fmlint/internal/frontmatter"
	"github.com/organvm/fmlint/internal/logging"
)

// Top-level schema keys. required_fields and optional_fields are the older
// editorial-standards layout; their fields default to required and optional.
const (
	keyFields         = "fields"
	keyRequiredFields = "required_fields"
	keyOptionalFields = "optional_fields"
	keyStrictMode     = "strict_mode"
	keyVersion        = "version"
	keyDescription    = "description"
)

// rawField is the decoded form of one FieldSpec before semantic checks.
type rawField struct {
	Type                    string    `yaml:"type" validate:"required,oneof=string list date integer enum"`
	Required                bool      `yaml:"required"`
	MinLength               *int      `yaml:"min_length" validate:"omitempty,min=0"`
	MaxLength               *int      `yaml:"max_length" validate:"omitempty,min=0"`
	MinItems                *int      `yaml:"min_items" validate:"omitempty,min=0"`
	MaxItems                *int      `yaml:"max_items" validate:"omitempty,min=0"`
	ItemType                string    `yaml:"item_type" validate:"omitempty,oneof=string integer date"`
	ItemPattern             *string   `yaml:"item_pattern"`
	Format                  string    `yaml:"format"`
	ValidateAgainstFilename bool      `yaml:"validate_against_filename"`
	MinValue                *int64    `yaml:"min_value"`
	MaxValue                *int64    `yaml:"max_value"`
	Min                     *int64    `yaml:"min"`
	Max                     *int64    `yaml:"max"`
	Allowed                 yaml.Node `yaml:"allowed" validate:"-"`
	Enum                    yaml.Node `yaml:"enum" validate:"-"`
	Pattern                 *string   `yaml:"pattern"`
	RequiredIf              string    `yaml:"required_if"`
	Description             string    `yaml:"description"`
}

// keyTypes lists, per FieldSpec key, the declared types it is meaningful for.
// A nil entry means the key applies to every type.
var keyTypes = map[string][]FieldType{
	"type":                      nil,
	"required":                  nil,
	"description":               nil,
	"required_if":               nil,
	"allowed":                   nil,
	"enum":                      {TypeString, TypeEnum},
	"min_length":                {TypeString},
	"max_length":                {TypeString},
	"pattern":                   {TypeString},
	"min_items":                 {TypeList},
	"max_items":                 {TypeList},
	"item_type":                 {TypeList},
	"item_pattern":              {TypeList},
	"format":                    {TypeDate},
	"validate_against_filename": {TypeDate},
	"min_value":                 {TypeInteger},
	"max_value":                 {TypeInteger},
	"min":                       {TypeInteger},
	"max":                       {TypeInteger},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadFile reads and loads the schema at path. A missing or unreadable file
// is returned as a plain wrapped error; a malformed schema as *Error.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	s, err := LoadBytes(data, path)
	if err != nil {
		return nil, err
	}
	logger := logging.WithComponent("schema")
	logger.Debug().
		Str("schema", path).
		Str("version", s.Version()).
		Int("fields", s.Len()).
		Bool("strict_mode", s.StrictMode()).
		Msg("schema loaded")
	return s, nil
}

// LoadBytes loads a schema from data. source names it in error messages.
func LoadBytes(data []byte, source string) (*Schema, error) {
	return Load(bytes.NewReader(data), source)
}

// Load parses a schema document and checks its internal consistency.
func Load(r io.Reader, source string) (*Schema, error) {
	var ps problems

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			ps.add("", 0, "schema is empty")
			return nil, ps.err(source)
		}
		line, _ := extractLineColumn(err.Error())
		ps.add("", line, "invalid YAML: %s", cleanYAMLError(err.Error()))
		return nil, ps.err(source)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		ps.add("", root.Line, "schema must be a mapping with a '%s' key", keyFields)
		return nil, ps.err(source)
	}

	s := &Schema{
		source:     source,
		strictMode: true,
		index:      make(map[string]int),
	}

	sawFields := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case keyFields:
			sawFields = true
			s.loadFieldSection(val, false, &ps)
		case keyRequiredFields:
			sawFields = true
			s.loadFieldSection(val, true, &ps)
		case keyOptionalFields:
			sawFields = true
			s.loadFieldSection(val, false, &ps)
		case keyStrictMode:
			var strict bool
			if err := val.Decode(&strict); err != nil {
				ps.add("", val.Line, "%s must be a boolean, got %q", keyStrictMode, val.Value)
				continue
			}
			s.strictMode = strict
		case keyVersion:
			if val.Kind != yaml.ScalarNode {
				ps.add("", val.Line, "%s must be a scalar", keyVersion)
				continue
			}
			s.version = val.Value
		case keyDescription:
		default:
			ps.add("", key.Line, "unknown top-level key '%s'", key.Value)
		}
	}

	if !sawFields {
		ps.add("", root.Line, "schema has no '%s' section", keyFields)
	}

	s.checkConditions(&ps)

	if err := ps.err(source); err != nil {
		return nil, err
	}
	return s, nil
}

// loadFieldSection adds every field in a fields mapping, in source order.
func (s *Schema) loadFieldSection(section *yaml.Node, defaultRequired bool, ps *problems) {
	if section.Kind != yaml.MappingNode {
		ps.add("", section.Line, "fields must be a mapping of field name to field spec")
		return
	}
	for i := 0; i+1 < len(section.Content); i += 2 {
		nameNode, specNode := section.Content[i], section.Content[i+1]
		name := nameNode.Value
		if name == "" {
			ps.add("", nameNode.Line, "field name must not be empty")
			continue
		}
		if prev, dup := s.index[name]; dup {
			ps.add(name, nameNode.Line, "duplicate field name (first declared on line %d)", s.fields[prev].Line)
			continue
		}
		f, ok := buildField(name, nameNode.Line, specNode, defaultRequired, ps)
		if !ok {
			// Reserve the name so later duplicates and references still resolve.
			f = Field{Name: name, Line: nameNode.Line}
		}
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
}

// buildField decodes and checks one FieldSpec. It reports false when any
// problem was recorded for the field.
func buildField(name string, line int, spec *yaml.Node, defaultRequired bool, ps *problems) (Field, bool) {
	start := len(*ps)

	if spec.Kind != yaml.MappingNode {
		ps.add(name, line, "field spec must be a mapping")
		return Field{}, false
	}

	present := make(map[string]*yaml.Node, len(spec.Content)/2)
	for i := 0; i+1 < len(spec.Content); i += 2 {
		k := spec.Content[i]
		if _, known := keyTypes[k.Value]; !known {
			ps.add(name, k.Line, "unknown field spec key '%s'", k.Value)
			continue
		}
		present[k.Value] = spec.Content[i+1]
	}
	if len(*ps) > start {
		return Field{}, false
	}

	var raw rawField
	if err := spec.Decode(&raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				l, _ := extractLineColumn("yaml: " + msg)
				ps.add(name, l, "%s", cleanYAMLError("yaml: "+msg))
			}
		} else {
			ps.add(name, line, "%s", err.Error())
		}
		return Field{}, false
	}
	if _, ok := present["required"]; !ok {
		raw.Required = defaultRequired
	}

	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				ps.add(name, lineOf(present, fe.Field(), line), "%s", describeFieldError(fe))
			}
		} else {
			ps.add(name, line, "%s", err.Error())
		}
		return Field{}, false
	}

	ft := FieldType(raw.Type)
	keys := make([]string, 0, len(present))
	for k := range present {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return present[keys[i]].Line < present[keys[j]].Line })
	for _, k := range keys {
		if types := keyTypes[k]; types != nil && !containsType(types, ft) {
			ps.add(name, present[k].Line, "'%s' is not valid for type %s", k, ft)
		}
	}

	f := Field{
		Name:        name,
		Type:        ft,
		Required:    raw.Required,
		Description: raw.Description,
		Line:        line,
	}
	c := &f.Constraints
	c.MinLength, c.MaxLength = raw.MinLength, raw.MaxLength
	c.MinItems, c.MaxItems = raw.MinItems, raw.MaxItems
	c.ItemType = FieldType(raw.ItemType)
	c.Format = raw.Format
	c.ValidateAgainstFilename = raw.ValidateAgainstFilename

	c.MinValue = pickAlias(name, "min_value", raw.MinValue, "min", raw.Min, present, ps)
	c.MaxValue = pickAlias(name, "max_value", raw.MaxValue, "max", raw.Max, present, ps)

	checkRange(name, "min_length", "max_length", c.MinLength, c.MaxLength, present, ps)
	checkRange(name, "min_items", "max_items", c.MinItems, c.MaxItems, present, ps)
	if c.MinValue != nil && c.MaxValue != nil && *c.MinValue > *c.MaxValue {
		ps.add(name, line, "min_value (%d) is greater than max_value (%d)", *c.MinValue, *c.MaxValue)
	}

	if raw.Pattern != nil {
		c.Pattern = compile(name, "pattern", *raw.Pattern, present, ps)
	}
	if raw.ItemPattern != nil {
		c.ItemPattern = compile(name, "item_pattern", *raw.ItemPattern, present, ps)
		if c.ItemType != "" && c.ItemType != TypeString {
			ps.add(name, present["item_pattern"].Line, "item_pattern requires item_type string, got %s", c.ItemType)
		}
	}

	if c.Format != "" && c.Format != DateFormat {
		ps.add(name, present["format"].Line, "unsupported date format %q (only %s)", c.Format, DateFormat)
	}

	allowedNode := &raw.Allowed
	if raw.Enum.Kind != 0 {
		if raw.Allowed.Kind != 0 {
			ps.add(name, raw.Enum.Line, "both 'allowed' and 'enum' are set")
		}
		allowedNode = &raw.Enum
	}
	if allowedNode.Kind != 0 {
		c.Allowed = decodeAllowed(name, allowedNode, allowedKind(ft, c.ItemType), ps)
	}
	if ft == TypeEnum && len(c.Allowed) == 0 {
		ps.add(name, line, "enum field requires a non-empty 'allowed' list")
	}

	if raw.RequiredIf != "" {
		f.RequiredIf = FieldPresent{Field: raw.RequiredIf}
	}

	return f, len(*ps) == start
}

// checkConditions resolves required_if references once every field is known.
func (s *Schema) checkConditions(ps *problems) {
	for _, f := range s.fields {
		if f.RequiredIf == nil {
			continue
		}
		for _, ref := range f.RequiredIf.References() {
			switch {
			case ref == f.Name:
				ps.add(f.Name, f.Line, "required_if cannot reference the field itself")
			case !s.Has(ref):
				ps.add(f.Name, f.Line, "required_if references undeclared field '%s'", ref)
			}
		}
	}
}

func pickAlias(field, key string, v *int64, alias string, av *int64, present map[string]*yaml.Node, ps *problems) *int64 {
	if v != nil && av != nil {
		ps.add(field, present[alias].Line, "both '%s' and '%s' are set", key, alias)
	}
	if v != nil {
		return v
	}
	return av
}

func checkRange(field, minKey, maxKey string, lo, hi *int, present map[string]*yaml.Node, ps *problems) {
	if lo != nil && hi != nil && *lo > *hi {
		ps.add(field, present[maxKey].Line, "%s (%d) is greater than %s (%d)", minKey, *lo, maxKey, *hi)
	}
}

func compile(field, key, source string, present map[string]*yaml.Node, ps *problems) *Pattern {
	p, err := CompilePattern(source)
	if err != nil {
		ps.add(field, present[key].Line, "invalid %s %q: %v", key, source, err)
		return nil
	}
	return p
}

// allowedKind returns the value kind allowed literals must have, or
// KindAbsent when any scalar is acceptable.
func allowedKind(ft, itemType FieldType) frontmatter.Kind {
	switch ft {
	case TypeString, TypeDate:
		return frontmatter.KindString
	case TypeInteger:
		return frontmatter.KindInteger
	case TypeList:
		return allowedKind(itemType, "")
	default:
		return frontmatter.KindAbsent
	}
}

func decodeAllowed(field string, node *yaml.Node, want frontmatter.Kind, ps *problems) []frontmatter.Value {
	if node.Kind != yaml.SequenceNode {
		ps.add(field, node.Line, "'allowed' must be a list of literals")
		return nil
	}
	values := make([]frontmatter.Value, 0, len(node.Content))
	for _, item := range node.Content {
		v, err := frontmatter.ValueFromNode(item)
		if err != nil {
			ps.add(field, item.Line, "invalid allowed value: %v", err)
			continue
		}
		if !v.IsScalar() {
			ps.add(field, item.Line, "allowed value must be a scalar, got %s", v.Kind)
			continue
		}
		if want != frontmatter.KindAbsent && v.Kind != want {
			ps.add(field, item.Line, "allowed value %s is %s, want %s", v.Literal(), v.Kind, want)
			continue
		}
		values = append(values, v)
	}
	return values
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fe.Field())
	case "oneof":
		allowed := strings.ReplaceAll(fe.Param(), " ", ", ")
		if fe.Field() == "type" {
			allowed = joinTypes(ValidFieldTypes())
		}
		return fmt.Sprintf("'%s' must be one of: %s (got %q)", fe.Field(), allowed, fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' failed %s validation", fe.Field(), fe.Tag())
	}
}

func joinTypes(types []FieldType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func lineOf(present map[string]*yaml.Node, key string, fallback int) int {
	if n, ok := present[key]; ok {
		return n.Line
	}
	return fallback
}

func containsType(types []FieldType, t FieldType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
