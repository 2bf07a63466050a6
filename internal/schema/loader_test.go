// Package schema_test tests schema loading, defaults and well-formedness checks.
// Related: internal/schema/loader.go, internal/schema/schema.go
// Tags: schema, loader, schema-error, strict-mode, required-if
package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organvm/fmlint/internal/frontmatter"
)

const essaySchema = `
version: "1.1"
description: Essay frontmatter
fields:
  title:
    type: string
    required: true
    min_length: 10
    max_length: 200
    description: Essay title
  date:
    type: date
    required: true
    format: YYYY-MM-DD
    validate_against_filename: true
  tags:
    type: list
    required: true
    min_items: 1
    max_items: 5
    item_type: string
  status:
    type: enum
    required: true
    allowed: [draft, review, published, archived]
  word_count:
    type: integer
    min_value: 500
    max_value: 20000
  series:
    type: string
  series_order:
    type: integer
    min_value: 1
    required_if: series
`

func mustLoad(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := LoadBytes([]byte(src), "test.yaml")
	require.NoError(t, err)
	return s
}

func loadProblems(t *testing.T, src string) []Problem {
	t.Helper()
	_, err := LoadBytes([]byte(src), "test.yaml")
	require.Error(t, err)
	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr), "expected *schema.Error, got %T: %v", err, err)
	return schemaErr.Problems
}

func TestLoad_EssaySchema(t *testing.T) {
	s := mustLoad(t, essaySchema)

	assert.Equal(t, "1.1", s.Version())
	assert.Equal(t, "test.yaml", s.Source())
	assert.True(t, s.StrictMode(), "strict_mode defaults to true")
	assert.Equal(t, 7, s.Len())

	names := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"title", "date", "tags", "status", "word_count", "series", "series_order"}, names,
		"fields keep declaration order")

	title, ok := s.Field("title")
	require.True(t, ok)
	assert.Equal(t, TypeString, title.Type)
	assert.True(t, title.Required)
	require.NotNil(t, title.Constraints.MinLength)
	assert.Equal(t, 10, *title.Constraints.MinLength)
	assert.Equal(t, "Essay title", title.Description)

	date, _ := s.Field("date")
	assert.True(t, date.Constraints.ValidateAgainstFilename)
	assert.Equal(t, DateFormat, date.Constraints.Format)

	status, _ := s.Field("status")
	require.Len(t, status.Constraints.Allowed, 4)
	assert.Equal(t, frontmatter.String("draft").Literal(), status.Constraints.Allowed[0].Literal())

	order, _ := s.Field("series_order")
	require.NotNil(t, order.RequiredIf)
	assert.Equal(t, []string{"series"}, order.RequiredIf.References())
	assert.False(t, order.Required, "conditionally required fields stay optional")

	assert.False(t, s.Has("unknown"))
}

func TestLoad_StrictModeFalse(t *testing.T) {
	s := mustLoad(t, "strict_mode: false\nfields:\n  title:\n    type: string\n")
	assert.False(t, s.StrictMode())
}

func TestLoad_LegacyLayout(t *testing.T) {
	s := mustLoad(t, `
required_fields:
  layout:
    type: string
    enum: [essay]
  word_count:
    type: integer
    min: 500
optional_fields:
  series:
    type: string
`)
	layout, _ := s.Field("layout")
	assert.True(t, layout.Required, "required_fields default to required")
	require.Len(t, layout.Constraints.Allowed, 1)

	wc, _ := s.Field("word_count")
	require.NotNil(t, wc.Constraints.MinValue)
	assert.Equal(t, int64(500), *wc.Constraints.MinValue)

	series, _ := s.Field("series")
	assert.False(t, series.Required)
}

func TestLoad_Patterns(t *testing.T) {
	s := mustLoad(t, `
fields:
  author:
    type: string
    pattern: "@[A-Za-z0-9]+"
  related_repos:
    type: list
    item_type: string
    item_pattern: "(organvm-|meta-organvm).*"
`)
	author, _ := s.Field("author")
	require.NotNil(t, author.Constraints.Pattern)
	assert.True(t, author.Constraints.Pattern.MatchString("@4444J99"))
	assert.False(t, author.Constraints.Pattern.MatchString("x@4444J99"), "patterns match the whole value")
	assert.False(t, author.Constraints.Pattern.MatchString("@4444J99 "), "patterns match the whole value")
	assert.Equal(t, "@[A-Za-z0-9]+", author.Constraints.Pattern.String())

	repos, _ := s.Field("related_repos")
	require.NotNil(t, repos.Constraints.ItemPattern)
	assert.True(t, repos.Constraints.ItemPattern.MatchString("organvm-engine"))
}

func TestLoad_SchemaErrors(t *testing.T) {
	tests := map[string]struct {
		src     string
		wantMsg string
	}{
		"empty": {
			src:     "",
			wantMsg: "schema is empty",
		},
		"unparseable": {
			src:     "fields:\n  title: [unclosed\n",
			wantMsg: "invalid YAML",
		},
		"not a mapping": {
			src:     "- a\n- b\n",
			wantMsg: "must be a mapping",
		},
		"no fields": {
			src:     "strict_mode: true\n",
			wantMsg: "no 'fields' section",
		},
		"missing type": {
			src:     "fields:\n  title:\n    required: true\n",
			wantMsg: "'type' is required",
		},
		"unknown type": {
			src:     "fields:\n  title:\n    type: text\n",
			wantMsg: "'type' must be one of: string, list, date, integer, enum (got \"text\")",
		},
		"constraint for wrong type": {
			src:     "fields:\n  title:\n    type: string\n    min_items: 2\n",
			wantMsg: "'min_items' is not valid for type string",
		},
		"min_value on list": {
			src:     "fields:\n  tags:\n    type: list\n    min_value: 2\n",
			wantMsg: "'min_value' is not valid for type list",
		},
		"duplicate field": {
			src:     "fields:\n  title:\n    type: string\n  title:\n    type: string\n",
			wantMsg: "duplicate field name",
		},
		"min greater than max": {
			src:     "fields:\n  title:\n    type: string\n    min_length: 20\n    max_length: 10\n",
			wantMsg: "min_length (20) is greater than max_length (10)",
		},
		"negative bound": {
			src:     "fields:\n  tags:\n    type: list\n    min_items: -1\n",
			wantMsg: "'min_items' must be at least 0",
		},
		"bad regex": {
			src:     "fields:\n  title:\n    type: string\n    pattern: \"([a-z\"\n",
			wantMsg: "invalid pattern",
		},
		"enum without allowed": {
			src:     "fields:\n  status:\n    type: enum\n",
			wantMsg: "requires a non-empty 'allowed' list",
		},
		"allowed kind mismatch": {
			src:     "fields:\n  count:\n    type: integer\n    allowed: [1, two]\n",
			wantMsg: `allowed value "two" is string, want integer`,
		},
		"required_if undeclared": {
			src:     "fields:\n  series_order:\n    type: integer\n    required_if: series\n",
			wantMsg: "undeclared field 'series'",
		},
		"required_if self": {
			src:     "fields:\n  series:\n    type: string\n    required_if: series\n",
			wantMsg: "cannot reference the field itself",
		},
		"unsupported date format": {
			src:     "fields:\n  date:\n    type: date\n    format: DD/MM/YYYY\n",
			wantMsg: "unsupported date format",
		},
		"unknown spec key": {
			src:     "fields:\n  title:\n    type: string\n    maxlen: 3\n",
			wantMsg: "unknown field spec key 'maxlen'",
		},
		"unknown top-level key": {
			src:     "fieldz: {}\nfields:\n  title:\n    type: string\n",
			wantMsg: "unknown top-level key 'fieldz'",
		},
		"strict_mode not bool": {
			src:     "strict_mode: sometimes\nfields:\n  title:\n    type: string\n",
			wantMsg: "strict_mode must be a boolean",
		},
		"wrong value type for bound": {
			src:     "fields:\n  title:\n    type: string\n    min_length: ten\n",
			wantMsg: "cannot unmarshal",
		},
		"item_pattern with integer items": {
			src:     "fields:\n  ids:\n    type: list\n    item_type: integer\n    item_pattern: \"[0-9]+\"\n",
			wantMsg: "item_pattern requires item_type string",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			problems := loadProblems(t, tt.src)
			var msgs []string
			for _, p := range problems {
				msgs = append(msgs, p.String())
			}
			assert.Contains(t, strings.Join(msgs, "\n"), tt.wantMsg)
		})
	}
}

func TestLoad_AggregatesProblems(t *testing.T) {
	problems := loadProblems(t, `
fields:
  title:
    type: text
  tags:
    type: list
    min_length: 3
  status:
    type: enum
`)
	require.Len(t, problems, 3)
	assert.Equal(t, "title", problems[0].Field)
	assert.Equal(t, "tags", problems[1].Field)
	assert.Equal(t, "status", problems[2].Field)
	for _, p := range problems {
		assert.Positive(t, p.Line)
	}
}

func TestError_Message(t *testing.T) {
	single := &Error{Source: "s.yaml", Problems: []Problem{{Field: "title", Line: 3, Message: "bad"}}}
	assert.Equal(t, "invalid schema s.yaml: line 3: field 'title': bad", single.Error())

	multi := &Error{Source: "s.yaml", Problems: []Problem{{Message: "a"}, {Message: "b"}}}
	assert.Equal(t, "invalid schema s.yaml: 2 problems: a; b", multi.Error())
}

func TestLoad_DoesNotMutateInput(t *testing.T) {
	data := []byte(essaySchema)
	before := string(data)
	_, err := LoadBytes(data, "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, before, string(data))
}

func TestSchema_FieldsReturnsCopy(t *testing.T) {
	s := mustLoad(t, essaySchema)
	fields := s.Fields()
	fields[0].Name = "mutated"

	title, ok := s.Field("title")
	require.True(t, ok)
	assert.Equal(t, "title", title.Name)
	assert.Equal(t, "title", s.Fields()[0].Name)
}

func TestSchema_WithStrictMode(t *testing.T) {
	s := mustLoad(t, essaySchema)
	lenient := s.WithStrictMode(false)

	assert.False(t, lenient.StrictMode())
	assert.True(t, s.StrictMode(), "original schema is unchanged")
	assert.Equal(t, s.Len(), lenient.Len())
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "frontmatter-schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(essaySchema), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Source())

	_, err = LoadFile(filepath.Join(tmpDir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	var schemaErr *Error
	assert.False(t, errors.As(err, &schemaErr), "missing file is not a schema error")
}

func TestFieldPresent(t *testing.T) {
	cond := FieldPresent{Field: "series"}
	doc := frontmatter.NewDocument()
	assert.False(t, cond.Holds(doc))

	doc.Set("series", frontmatter.String(""))
	assert.False(t, cond.Holds(doc), "empty values do not satisfy the condition")

	doc.Set("series", frontmatter.String("part-one"))
	assert.True(t, cond.Holds(doc))
	assert.Equal(t, "series is present", cond.String())
}
