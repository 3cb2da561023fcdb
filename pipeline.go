package brandlens

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kpaulsen/brandlens/format"
	"github.com/kpaulsen/brandlens/model"
	"github.com/kpaulsen/brandlens/pattern"
	"github.com/kpaulsen/brandlens/rulestore"
)

// Analyze runs the full pipeline over a batch: extraction (parallel,
// bounded by the configured concurrency), aggregation, rule synthesis,
// and the review partition.
//
// A single document's failure never cancels the batch; it is reported in
// Result.Errors. The only batch-level failure is ErrNoAnalyzableFiles,
// returned when no input matches a supported extension. Cancelling ctx
// stops dispatching new documents; extractions already started run to
// completion and their results are kept.
func (b *Batch) Analyze(ctx context.Context, files []File) (*Result, error) {
	type job struct {
		index    int
		file     File
		analyzer Analyzer
	}

	var jobs []job
	var errs []FileError
	supported := 0
	for _, f := range files {
		fm := format.Detect(f.Name)
		if fm == format.Unknown {
			continue
		}
		supported++
		a, ok := b.analyzers[fm]
		if !ok {
			errs = append(errs, FileError{Name: f.Name, Err: fmt.Errorf("no analyzer registered for %s", fm)})
			continue
		}
		jobs = append(jobs, job{index: len(jobs), file: f, analyzer: a})
	}
	if supported == 0 {
		return nil, ErrNoAnalyzableFiles
	}

	prog := newProgress(b.opts.progress)
	observations := make([]*model.DocumentObservation, len(jobs))

	workers := b.opts.concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	if workers > 0 {
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			completed int
		)
		jobCh := make(chan job)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range jobCh {
					o, err := j.analyzer.Analyze(ctx, j.file.Name, j.file.Data)

					mu.Lock()
					if err != nil {
						errs = append(errs, FileError{Name: j.file.Name, Err: err})
						b.opts.logger.Warn("document analysis failed",
							zap.String("file", j.file.Name),
							zap.Error(err))
					} else {
						observations[j.index] = o
					}
					completed++
					pct := completed * 80 / len(jobs)
					mu.Unlock()

					prog.report(pct)
				}
			}()
		}

		for _, j := range jobs {
			if ctx.Err() != nil {
				// Stop feeding; in-flight documents finish and their
				// results stay usable.
				break
			}
			jobCh <- j
		}
		close(jobCh)
		wg.Wait()
	}

	obs := make([]*model.DocumentObservation, 0, len(observations))
	for _, o := range observations {
		if o != nil {
			obs = append(obs, o)
		}
	}

	signal := pattern.Aggregate(obs)
	rules := pattern.Synthesize(signal)
	part := pattern.Review(rules)

	b.opts.logger.Debug("analysis complete",
		zap.Int("documents", len(obs)),
		zap.Int("failed", len(errs)),
		zap.Int("confirmed", len(part.Confirmed)),
		zap.Int("needsReview", len(part.NeedsReview)))

	result := &Result{
		Rules:       part.Confirmed,
		NeedsReview: part.NeedsReview,
		Assets:      collectAssets(obs),
		Errors:      errs,
	}
	prog.report(100)
	return result, nil
}

// collectAssets merges media assets across observations, logos sorted by
// descending confidence.
func collectAssets(observations []*model.DocumentObservation) rulestore.ExtractedAssets {
	var assets rulestore.ExtractedAssets
	for _, o := range observations {
		for _, m := range o.MediaAssets {
			if m.IsLogo {
				assets.Logos = append(assets.Logos, m)
			} else {
				assets.Images = append(assets.Images, m)
			}
		}
	}
	sort.SliceStable(assets.Logos, func(i, j int) bool {
		return assets.Logos[i].Confidence > assets.Logos[j].Confidence
	})
	return assets
}

// progressReporter delivers monotonic progress percentages and shields
// the pipeline from callback panics.
type progressReporter struct {
	mu   sync.Mutex
	fn   func(int)
	last int
}

func newProgress(fn func(int)) *progressReporter {
	return &progressReporter{fn: fn, last: -1}
}

func (p *progressReporter) report(pct int) {
	if p == nil || p.fn == nil {
		return
	}
	p.mu.Lock()
	if pct <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = pct
	p.mu.Unlock()

	defer func() {
		// A failing progress callback must not abort the pipeline.
		_ = recover()
	}()
	p.fn(pct)
}
