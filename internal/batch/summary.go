package batch

import "fmt"

// Summary totals a batch run.
type Summary struct {
	Documents  int `json:"documents"`
	Invalid    int `json:"invalid"`
	Violations int `json:"violations"`
	Unreadable int `json:"unreadable"`
}

// Summarize totals results.
func Summarize(results []Result) Summary {
	s := Summary{Documents: len(results)}
	for _, res := range results {
		if res.Err != nil {
			s.Unreadable++
			continue
		}
		if !res.Report.Valid() {
			s.Invalid++
			s.Violations += res.Report.Len()
		}
	}
	return s
}

// Passed reports whether every document was read and is valid.
func (s Summary) Passed() bool {
	return s.Invalid == 0 && s.Unreadable == 0
}

func (s Summary) String() string {
	if s.Passed() {
		return fmt.Sprintf("PASSED — %d documents validated, 0 violations", s.Documents)
	}
	line := fmt.Sprintf("FAILED — %d violation(s) in %d document(s)", s.Violations, s.Invalid)
	if s.Unreadable > 0 {
		line += fmt.Sprintf(", %d unreadable", s.Unreadable)
	}
	return line
}
