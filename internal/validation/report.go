package validation

import (
	"encoding/json"
)

// Report is the outcome of validating one document. An empty report means the
// document is valid. Reports are never modified after they are returned.
type Report struct {
	violations []Violation
}

// NewReport builds a report from violations, copying the slice.
func NewReport(violations ...Violation) *Report {
	vs := make([]Violation, len(violations))
	copy(vs, violations)
	return &Report{violations: vs}
}

// Valid reports whether the document passed every check.
func (r *Report) Valid() bool {
	return len(r.violations) == 0
}

// Len returns the number of violations.
func (r *Report) Len() int {
	return len(r.violations)
}

// Violations returns the violations in report order.
func (r *Report) Violations() []Violation {
	out := make([]Violation, len(r.violations))
	copy(out, r.violations)
	return out
}

// CountByKind tallies violations per kind.
func (r *Report) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, v := range r.violations {
		counts[v.Kind]++
	}
	return counts
}

type reportJSON struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// MarshalJSON renders the report as {"valid": ..., "violations": [...]}.
func (r *Report) MarshalJSON() ([]byte, error) {
	vs := r.violations
	if vs == nil {
		vs = []Violation{}
	}
	return json.Marshal(reportJSON{Valid: r.Valid(), Violations: vs})
}

// builder accumulates violations for one Validate call.
type builder struct {
	violations []Violation
}

func (b *builder) add(vs ...Violation) {
	b.violations = append(b.violations, vs...)
}

func (b *builder) report() *Report {
	return &Report{violations: b.violations}
}
