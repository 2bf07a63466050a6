// Package frontmatter extracts and models the YAML metadata block at the top of
// Markdown documents.
//
// Values are kept as a tagged union (Value) rather than Go's dynamic types so the
// validation engine can dispatch on the declared schema type and inspect the tag,
// without reflecting over interface{} values.
package frontmatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	// KindAbsent marks a key that is not present in the document.
	KindAbsent Kind = iota
	// KindNull marks an explicit YAML null (`key:` or `key: ~`).
	KindNull
	KindString
	KindInteger
	KindFloat
	KindBool
	KindList
	// KindMapping marks a nested mapping. Schemas are flat, so the contents are not kept.
	KindMapping
)

// String returns the human-readable name used in violation messages.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one frontmatter value as authored.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Items []Value

	// Line and Column locate the value in the source file (1-based, 0 if unknown).
	Line   int
	Column int
}

// Absent returns the zero Value, reported for missing keys.
func Absent() Value { return Value{Kind: KindAbsent} }

// Null returns an explicit null value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List returns a list value holding items in order.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, Items: items}
}

// IsAbsent reports whether the value should be treated as missing.
// Explicit nulls count as missing.
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent || v.Kind == KindNull
}

// IsEmpty reports whether a present value carries no content: an empty or
// whitespace-only string, or an empty list.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	case KindList:
		return len(v.Items) == 0
	default:
		return false
	}
}

// IsScalar reports whether the value is a single string, number or bool.
func (v Value) IsScalar() bool {
	switch v.Kind {
	case KindString, KindInteger, KindFloat, KindBool:
		return true
	default:
		return false
	}
}

// WholeNumber returns the value as int64 when it is an integer, or a float with
// no fractional part that fits in int64.
func (v Value) WholeNumber() (int64, bool) {
	switch v.Kind {
	case KindInteger:
		return v.Int, true
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) || v.Float != math.Trunc(v.Float) {
			return 0, false
		}
		if v.Float < math.MinInt64 || v.Float >= math.MaxInt64 {
			return 0, false
		}
		return int64(v.Float), true
	default:
		return 0, false
	}
}

// Equal compares two values by kind and content. Source positions are ignored
// and no coercion is performed: the string "1" never equals the integer 1.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindInteger:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindBool:
		return v.Bool == o.Bool
	case KindList:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Literal renders the value for messages, quoting strings.
func (v Value) Literal() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.Literal()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.Kind.String()
	}
}

// GoString supports %#v in test failure output.
func (v Value) GoString() string {
	return fmt.Sprintf("frontmatter.Value{%s %s}", v.Kind, v.Literal())
}
