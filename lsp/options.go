package lsp

import "github.com/kochabx/clea/core/validator"

type options struct {
	protocol         Protocol
	validator        validator.Validator
	decodeValidation bool
}

// Option configures an Encoder or a Decoder.
type Option func(*options)

// WithProtocol selects the meaning of the 12-bit field.
func WithProtocol(p Protocol) Option {
	return func(o *options) {
		o.protocol = p
	}
}

// WithValidator replaces the package-level validator.
func WithValidator(v validator.Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validator = v
		}
	}
}

// WithDecodeValidation makes Decode check field ranges after parsing.
// Encoders ignore it.
func WithDecodeValidation(enabled bool) Option {
	return func(o *options) {
		o.decodeValidation = enabled
	}
}

func newOptions(opts []Option) options {
	o := options{
		protocol:  ProtocolCountryCode,
		validator: validator.Validate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
