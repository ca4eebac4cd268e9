package gocis

import (
	"context"

	"github.com/sirupsen/logrus"

	internalopts "github.com/d21d3q/gocis/internal/options"
)

// AnalyzeOptions configures parsing.
type AnalyzeOptions struct {
	// Window is the lookahead capacity in bytes; 0 selects the default of 48.
	Window int
	// Logger receives debug traces of every framed tuple.
	Logger *logrus.Entry
}

func (opts AnalyzeOptions) toInternal(ctx context.Context) context.Context {
	return internalopts.WithLogger(ctx, opts.Logger)
}
