package emitter

import (
	"time"

	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/log"
)

type options struct {
	clock           func() time.Time
	logger          *log.Logger
	locationOptions []location.Option
}

// Option configures an Emitter.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger shared with the venue.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLocationOptions passes options to every venue the emitter builds.
func WithLocationOptions(opts ...location.Option) Option {
	return func(o *options) {
		o.locationOptions = append(o.locationOptions, opts...)
	}
}

func newOptions(opts []Option) options {
	o := options{
		clock:  time.Now,
		logger: log.Component("emitter"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
