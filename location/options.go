package location

import (
	"time"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

type options struct {
	engine   *ecies.Engine
	protocol lsp.Protocol
	clock    func() time.Time
	logger   *log.Logger
}

// Option configures a Location.
type Option func(*options)

// WithEngine shares an ECIES engine between venues.
func WithEngine(e *ecies.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithProtocol selects the meaning of the 12-bit message field.
func WithProtocol(p lsp.Protocol) Option {
	return func(o *options) {
		o.protocol = p
	}
}

// WithClock replaces time.Now for NewDeepLink.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger; the default is the global logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		engine:   ecies.NewEngine(),
		protocol: lsp.ProtocolCountryCode,
		clock:    time.Now,
		logger:   log.Component("location"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
