// Package metrics_test tests run metric recording and textfile export.
// Related: internal/metrics/metrics.go
// Tags: metrics, prometheus, textfile
package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organvm/fmlint/internal/validation"
)

func TestRecorder_ObserveReport(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveReport(validation.NewReport(), time.Millisecond)
	r.ObserveReport(validation.NewReport(
		validation.Violation{Field: "title", Kind: validation.KindMissingRequired},
		validation.Violation{Field: "tags", Kind: validation.KindOutOfRange},
		validation.Violation{Field: "status", Kind: validation.KindOutOfRange},
	), 2*time.Millisecond)
	r.ObserveError()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Documents.WithLabelValues(ResultValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Documents.WithLabelValues(ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Documents.WithLabelValues(ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Violations.WithLabelValues(string(validation.KindMissingRequired))))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Violations.WithLabelValues(string(validation.KindOutOfRange))))
	assert.Equal(t, 3, testutil.CollectAndCount(r.Documents))
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	t.Parallel()
	a, b := NewRecorder(), NewRecorder()
	a.ObserveError()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Documents.WithLabelValues(ResultError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Documents.WithLabelValues(ResultError)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveReport(validation.NewReport(), time.Second)
		r.ObserveError()
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestRecorder_ViolationKindsStartAtZero(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	assert.Equal(t, len(validation.Kinds()), testutil.CollectAndCount(r.Violations))
	for _, kind := range validation.Kinds() {
		assert.Zero(t, testutil.ToFloat64(r.Violations.WithLabelValues(string(kind))), kind)
	}
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveReport(validation.NewReport(
		validation.Violation{Field: "*", Kind: validation.KindUnknownField},
	), time.Millisecond)

	path := filepath.Join(t.TempDir(), "fmlint.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `fmlint_documents_total{result="invalid"} 1`)
	assert.Contains(t, out, `fmlint_violations_total{kind="unknown-field"} 1`)
	assert.Contains(t, out, `fmlint_violations_total{kind="wrong-type"} 0`)
	assert.Contains(t, out, "fmlint_document_duration_seconds_count 1")
}
