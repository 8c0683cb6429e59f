package usecase

import "github.com/jonboulle/clockwork"

type serviceOptions struct {
	clock clockwork.Clock
}

// Option configures the usecase services.
type Option func(*serviceOptions)

// WithClock replaces the wall clock used for timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
