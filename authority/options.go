package authority

import (
	"runtime"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

type options struct {
	engine           *ecies.Engine
	protocol         lsp.Protocol
	concurrency      int
	decodeValidation bool
	logger           *log.Logger
}

// Option configures an Authority.
type Option func(*options)

// WithEngine sets the ECIES engine.
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

// WithConcurrency bounds DecodeAll workers. Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithDecodeValidation checks field ranges of every decoded part.
func WithDecodeValidation(enabled bool) Option {
	return func(o *options) {
		o.decodeValidation = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		engine:      ecies.NewEngine(),
		protocol:    lsp.ProtocolCountryCode,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      log.Component("authority"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
