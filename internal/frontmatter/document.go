package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter is returned when a file does not open with a `---` line.
	ErrNoFrontmatter = errors.New("no frontmatter found")
	// ErrUnterminated is returned when the closing `---` line is missing.
	ErrUnterminated = errors.New("frontmatter block is not terminated")
	// ErrNotMapping is returned when the frontmatter is valid YAML but not a key/value mapping.
	ErrNotMapping = errors.New("frontmatter is not a mapping")
)

// Document is the ordered key/value mapping parsed from one frontmatter block.
// Key order follows the source so reports are reproducible.
type Document struct {
	keys   []string
	values map[string]Value
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// Set stores a value. Re-setting a key keeps its original position.
func (d *Document) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value for key, or an absent value.
func (d *Document) Get(key string) Value {
	if d == nil {
		return Absent()
	}
	v, ok := d.values[key]
	if !ok {
		return Absent()
	}
	return v
}

// Has reports whether key is present in the document, null or not.
func (d *Document) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.values[key]
	return ok
}

// Keys returns the document keys in source order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Parse decodes a YAML mapping into a Document. Empty input yields an empty document.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&node); err != nil {
		if err == io.EOF {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return FromNode(&node)
}

// DuplicateKeyError reports a top-level key that appears more than once.
type DuplicateKeyError struct {
	Key       string
	Line      int
	FirstLine int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key '%s' on line %d (first defined on line %d)", e.Key, e.Line, e.FirstLine)
}

// FromNode converts a decoded YAML node into a Document. A repeated key is a
// *DuplicateKeyError.
func FromNode(root *yaml.Node) (*Document, error) {
	if root == nil || root.Kind == 0 {
		return NewDocument(), nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewDocument(), nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return NewDocument(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w (line %d)", ErrNotMapping, root.Line)
	}

	doc := NewDocument()
	seen := make(map[string]int, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if first, dup := seen[key.Value]; dup {
			return nil, &DuplicateKeyError{Key: key.Value, Line: key.Line, FirstLine: first}
		}
		seen[key.Value] = key.Line
		val, err := valueFromNode(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key.Value, err)
		}
		doc.Set(key.Value, val)
	}
	return doc, nil
}

// ValueFromNode converts a single YAML node into a Value.
func ValueFromNode(node *yaml.Node) (Value, error) {
	return valueFromNode(node)
}

func valueFromNode(node *yaml.Node) (Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		v, err := valueFromNode(node.Alias)
		v.Line, v.Column = node.Line, node.Column
		return v, err
	}

	var v Value
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := valueFromNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		v = List(items...)
	case yaml.MappingNode:
		v = Value{Kind: KindMapping}
	case yaml.ScalarNode:
		sv, err := scalarFromNode(node)
		if err != nil {
			return Value{}, err
		}
		v = sv
	default:
		return Value{}, fmt.Errorf("unsupported YAML node at line %d", node.Line)
	}
	v.Line, v.Column = node.Line, node.Column
	return v, nil
}

// scalarFromNode resolves a scalar by its YAML tag. Timestamps stay strings:
// `date: 2024-01-15` is the authored text, and the date validator parses it.
func scalarFromNode(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			// Out-of-range integers fall back to float so the integer
			// validator reports them instead of the parser.
			var f float64
			if ferr := node.Decode(&f); ferr != nil {
				return Value{}, err
			}
			return Float(f), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// frontmatterDelimiter matches the opening and closing fence lines.
var frontmatterDelimiter = []byte("---")

// Extract splits a Markdown file into its parsed frontmatter and the body.
// The file must open with a `---` line; the block runs to the next `---` line.
func Extract(data []byte) (*Document, []byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	first, rest, ok := cutLine(data)
	if !ok && len(first) == 0 {
		return nil, nil, ErrNoFrontmatter
	}
	if !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontmatterDelimiter) {
		return nil, nil, ErrNoFrontmatter
	}

	var block bytes.Buffer
	for {
		line, next, more := cutLine(rest)
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, frontmatterDelimiter) || bytes.Equal(trimmed, []byte("...")) {
			doc, err := parseBlock(block.Bytes())
			if err != nil {
				return nil, nil, err
			}
			return doc, next, nil
		}
		if !more {
			return nil, nil, ErrUnterminated
		}
		block.Write(line)
		block.WriteByte('\n')
		rest = next
	}
}

// parseBlock parses the fenced YAML. Line numbers are shifted by one so they
// point into the original file rather than the block.
func parseBlock(block []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	shiftLines(&node, 1)
	return FromNode(&node)
}

func shiftLines(node *yaml.Node, offset int) {
	if node.Line > 0 {
		node.Line += offset
	}
	for _, child := range node.Content {
		shiftLines(child, offset)
	}
}

// cutLine returns the first line (without its newline), the remainder, and
// whether a newline was found.
func cutLine(data []byte) ([]byte, []byte, bool) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i], data[i+1:], true
	}
	return data, nil, false
}

// ExtractFile reads path and extracts its frontmatter.
func ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, _, err := Extract(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// datedFilename matches Jekyll-style post names such as 2024-01-15-my-essay.md.
var datedFilename = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// ReferenceDate returns the YYYY-MM-DD prefix of a dated filename, or "" when
// the name carries no date.
func ReferenceDate(path string) string {
	m := datedFilename.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return ""
	}
	return m[1]
}
