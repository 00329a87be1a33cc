package lsp

import (
	"encoding/base64"
	"slices"

	"github.com/kochabx/clea/core/crypto/ecies"
)

// Encoder seals location specific parts for the server authority.
// It is safe for concurrent use.
type Encoder struct {
	engine    *ecies.Engine
	recipient *ecies.PublicKey
	opts      options
}

// NewEncoder creates an encoder sealing for the server authority key.
// A nil engine gets a default one.
func NewEncoder(engine *ecies.Engine, serverAuthority *ecies.PublicKey, opts ...Option) *Encoder {
	if engine == nil {
		engine = ecies.NewEngine()
	}
	return &Encoder{
		engine:    engine,
		recipient: serverAuthority,
		opts:      newOptions(opts),
	}
}

// Protocol returns the protocol the encoder writes.
func (e *Encoder) Protocol() Protocol {
	return e.opts.protocol
}

// Encode validates p and returns header || sealed message || C0.
// The result is Size bytes, or SizeWithContact when a contact is attached.
func (e *Encoder) Encode(p LocationSpecificPart) ([]byte, error) {
	if err := validate(e.opts.validator, p, e.opts.protocol); err != nil {
		return nil, err
	}

	header := packHeader(p)
	msg := packMessage(p, e.opts.protocol)
	if p.HasContact() {
		msg = slices.Concat(msg, p.EncryptedContact)
	}

	return e.engine.Encrypt(header, msg, e.recipient)
}

// EncodeBase64 encodes p as padded URL-safe base64.
func (e *Encoder) EncodeBase64(p LocationSpecificPart) (string, error) {
	b, err := e.Encode(p)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
