package brandlens

import "go.uber.org/zap"

// options holds pipeline configuration.
type options struct {
	progress    func(pct int)
	concurrency int
	logger      *zap.Logger
}

// defaultOptions returns the default pipeline configuration.
func defaultOptions() options {
	return options{
		progress:    nil, // nil means no progress reporting
		concurrency: 4,
		logger:      zap.NewNop(),
	}
}

// clone copies the options.
func (o options) clone() options {
	return options{
		progress:    o.progress,
		concurrency: o.concurrency,
		logger:      o.logger,
	}
}
