// Package batch validates many Markdown documents against one schema using a
// bounded worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/organvm/fmlint/internal/frontmatter"
	"github.com/organvm/fmlint/internal/logging"
	"github.com/organvm/fmlint/internal/metrics"
	"github.com/organvm/fmlint/internal/schema"
	"github.com/organvm/fmlint/internal/validation"
)

// DefaultPattern matches Markdown posts.
const DefaultPattern = "*.md"

// Options configures a Runner.
type Options struct {
	// Workers bounds concurrent validations. Values below 1 mean 1.
	Workers int
	// FilenameDate derives each document's reference date from a dated filename.
	FilenameDate bool
	// Metrics, when non-nil, records every result.
	Metrics *metrics.Recorder
	// OnDone, when non-nil, is called after each document with the number
	// finished so far. It may be called from several goroutines.
	OnDone func(done, total int)
}

// Result is the outcome for one file. Exactly one of Report and Err is set:
// Err means the file could not be read at all.
type Result struct {
	Path   string
	Report *validation.Report
	Err    error
}

// Runner validates documents against a fixed schema.
type Runner struct {
	schema *schema.Schema
	opts   Options
}

// NewRunner creates a Runner. The schema is shared read-only by all workers.
func NewRunner(s *schema.Schema, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{schema: s, opts: opts}
}

// Discover expands paths into a sorted, de-duplicated list of files. A file
// path is taken as is; a directory contributes its direct entries whose base
// name matches pattern.
func Discover(paths []string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discovering documents: %w", err)
		}
		if !info.IsDir() {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(pattern, e.Name()); !ok {
				continue
			}
			path := filepath.Join(p, e.Name())
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run validates every path and returns results in input order. It stops early
// only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.ValidateFile(path)
			if r.opts.OnDone != nil {
				r.opts.OnDone(int(done.Add(1)), len(paths))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateFile reads and validates one document. A file whose frontmatter
// cannot be extracted yields a report with a single malformed-frontmatter
// violation rather than an error.
func (r *Runner) ValidateFile(path string) Result {
	logger := logging.WithDocument("batch", path)
	start := time.Now()

	doc, err := frontmatter.ExtractFile(path)
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		logger.Error().Err(err).Msg("cannot read document")
		r.opts.Metrics.ObserveError()
		return Result{Path: path, Err: err}
	}

	var report *validation.Report
	if err != nil {
		report = validation.NewReport(malformed(err))
	} else {
		ctx := validation.Context{}
		if r.opts.FilenameDate {
			ctx.ReferenceDate = frontmatter.ReferenceDate(path)
		}
		report = validation.Validate(doc, r.schema, ctx)
	}

	elapsed := time.Since(start)
	r.opts.Metrics.ObserveReport(report, elapsed)
	logger.Debug().
		Bool("valid", report.Valid()).
		Int("violations", report.Len()).
		Dur("elapsed", elapsed).
		Msg("document validated")
	return Result{Path: path, Report: report}
}

func malformed(err error) validation.Violation {
	v := validation.Violation{
		Field:   validation.DocumentField,
		Kind:    validation.KindMalformedFrontmatter,
		Message: err.Error(),
	}
	var dup *frontmatter.DuplicateKeyError
	switch {
	case errors.As(err, &dup):
		v.Field = dup.Key
		v.Line = dup.Line
		v.Hint = fmt.Sprintf("Keep a single '%s' entry", dup.Key)
	case errors.Is(err, frontmatter.ErrNoFrontmatter):
		v.Line = 1
		v.Hint = "Start the file with a '---' line followed by YAML and a closing '---'"
	case errors.Is(err, frontmatter.ErrUnterminated):
		v.Hint = "Close the frontmatter block with a '---' line"
	case errors.Is(err, frontmatter.ErrNotMapping):
		v.Hint = "Write the frontmatter as 'key: value' pairs"
	default:
		v.Hint = "Fix the YAML syntax in the frontmatter block"
	}
	return v
}
