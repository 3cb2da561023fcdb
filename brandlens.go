// Package brandlens infers a reusable brand definition from a batch of
// designer-produced documents: dominant colors, typography roles, a
// spacing grid, and logo candidates, each scored with a confidence value
// and a provenance trail.
//
// Basic usage:
//
//	result, err := brandlens.New().Analyze(ctx, files)
//	if err != nil {
//	    // handle error
//	}
//	for _, rule := range result.Rules {
//	    fmt.Println(rule.Name, rule.Confidence)
//	}
//
// With options:
//
//	result, err := brandlens.New().
//	    WithConcurrency(8).
//	    WithProgress(func(pct int) { fmt.Printf("%d%%\n", pct) }).
//	    Analyze(ctx, files)
//
// Presentation documents are analyzed by the bundled ooxml package;
// analyzers for PDFs and standalone images can be plugged in with
// WithAnalyzer, as long as they produce the same normalized
// model.DocumentObservation shape.
package brandlens

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kpaulsen/brandlens/format"
	"github.com/kpaulsen/brandlens/model"
	"github.com/kpaulsen/brandlens/ooxml"
	"github.com/kpaulsen/brandlens/rulestore"
)

// ErrNoAnalyzableFiles indicates that no input file matched a supported
// extension, so there is nothing to synthesize from.
var ErrNoAnalyzableFiles = errors.New("brandlens: no analyzable files in batch")

// File is one document in an analysis batch.
type File struct {
	Name     string
	Data     []byte
	MimeType string
}

// FileError reports a per-document failure. Failures never abort the
// batch; they are collected alongside partial results.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// Analyzer extracts a normalized observation from one document. External
// analyzers (PDF, raster image) implement this to join the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, data []byte) (*model.DocumentObservation, error)
}

// Result is the outcome of one analysis run.
type Result struct {
	// Rules cleared the auto-accept threshold.
	Rules []model.BrandRule
	// NeedsReview holds plausible rules pending human confirmation.
	NeedsReview []model.BrandRule
	// Assets are the media entries recovered from the batch, logos
	// ordered by descending confidence.
	Assets rulestore.ExtractedAssets
	// Errors lists the files that could not be analyzed.
	Errors []FileError
}

// Batch is a configured analysis pipeline. Option methods return a new
// Batch, so a configured value can be shared and reused across runs.
type Batch struct {
	analyzers map[format.Format]Analyzer
	opts      options
}

// New returns a Batch with the presentation analyzer registered and
// default options.
func New() *Batch {
	return &Batch{
		analyzers: map[format.Format]Analyzer{
			format.Presentation: ooxml.New(),
		},
		opts: defaultOptions(),
	}
}

// clone copies the Batch so option methods stay immutable.
func (b *Batch) clone() *Batch {
	analyzers := make(map[format.Format]Analyzer, len(b.analyzers))
	for f, a := range b.analyzers {
		analyzers[f] = a
	}
	return &Batch{analyzers: analyzers, opts: b.opts.clone()}
}

// WithAnalyzer registers an analyzer for a format, replacing any
// existing registration.
func (b *Batch) WithAnalyzer(f format.Format, a Analyzer) *Batch {
	nb := b.clone()
	nb.analyzers[f] = a
	return nb
}

// WithProgress sets a 0-100 progress callback. It is invoked after each
// document completes extraction (0-80, proportional to documents
// completed) and once more after synthesis (100). Reported values are
// monotonic, and a panicking callback never aborts the pipeline.
func (b *Batch) WithProgress(fn func(pct int)) *Batch {
	nb := b.clone()
	nb.opts.progress = fn
	return nb
}

// WithConcurrency bounds the number of documents extracted in parallel.
func (b *Batch) WithConcurrency(n int) *Batch {
	nb := b.clone()
	if n > 0 {
		nb.opts.concurrency = n
	}
	return nb
}

// WithLogger sets the pipeline logger. The default discards everything.
func (b *Batch) WithLogger(l *zap.Logger) *Batch {
	nb := b.clone()
	if l != nil {
		nb.opts.logger = l
	}
	return nb
}
