package zkpopk

import (
	"go.uber.org/zap"
)

// Option configures a Prover or a Verifier.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report proof sizes and verification failures.
// The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
