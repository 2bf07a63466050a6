package schema

import (
	"fmt"

	"github.com/organvm/fmlint/internal/frontmatter"
)

// Condition is a predicate over a document that makes a field conditionally
// required. Today only FieldPresent exists; boolean combinations would be new
// implementations of this interface.
type Condition interface {
	// Holds evaluates the condition against doc.
	Holds(doc *frontmatter.Document) bool
	// References lists the field names the condition reads.
	References() []string
	String() string
}

// FieldPresent holds when the named field is present and non-empty.
type FieldPresent struct {
	Field string
}

// Holds implements Condition.
func (c FieldPresent) Holds(doc *frontmatter.Document) bool {
	v := doc.Get(c.Field)
	return !v.IsAbsent() && !v.IsEmpty()
}

// References implements Condition.
func (c FieldPresent) References() []string {
	return []string{c.Field}
}

func (c FieldPresent) String() string {
	return fmt.Sprintf("%s is present", c.Field)
}
