// Package progress_test tests progress display rendering, counters, and marks.
// Related: internal/progress/display.go, internal/progress/formatter.go
// Tags: progress, display, rendering, spinner, tty
package progress_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/organvm/fmlint/internal/progress"
)

func TestDisplay_Finish(t *testing.T) {
	tests := map[string]struct {
		capabilities progress.TerminalCapabilities
		passed       bool
		want         string
	}{
		"non-TTY pass": {
			passed: true,
			want:   "[OK] PASSED — 3 documents validated, 0 violations\n",
		},
		"non-TTY fail": {
			passed: false,
			want:   "[FAIL] PASSED — 3 documents validated, 0 violations\n",
		},
		"unicode without color": {
			capabilities: progress.TerminalCapabilities{SupportsUnicode: true},
			passed:       true,
			want:         "✓ PASSED — 3 documents validated, 0 violations\n",
		},
		"unicode with color": {
			capabilities: progress.TerminalCapabilities{SupportsUnicode: true, SupportsColor: true},
			passed:       false,
			want:         "\033[31m✗\033[0m PASSED — 3 documents validated, 0 violations\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			d := progress.NewDisplay(tt.capabilities, &buf)
			d.Finish(tt.passed, "PASSED — 3 documents validated, 0 violations")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDisplay_NonTTYIsSilent(t *testing.T) {
	var buf bytes.Buffer
	d := progress.NewDisplay(progress.TerminalCapabilities{}, &buf)

	d.Start(10)
	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d.Advance(n, 10)
		}(i)
	}
	wg.Wait()
	d.Stop()

	assert.Zero(t, buf.Len())
}
