package lsp

import (
	"encoding/base64"
	"slices"
	"strconv"
	"strings"

	"github.com/kochabx/clea/core/crypto/ecies"
)

// Decoder opens location specific parts with the server authority key.
// It is safe for concurrent use.
type Decoder struct {
	engine    *ecies.Engine
	recipient *ecies.PrivateKey
	opts      options
}

// NewDecoder creates a decoder for the server authority private key.
// A nil engine gets a default one.
func NewDecoder(engine *ecies.Engine, serverAuthority *ecies.PrivateKey, opts ...Option) *Decoder {
	if engine == nil {
		engine = ecies.NewEngine()
	}
	return &Decoder{
		engine:    engine,
		recipient: serverAuthority,
		opts:      newOptions(opts),
	}
}

// Protocol returns the protocol the decoder reads.
func (d *Decoder) Protocol() Protocol {
	return d.opts.protocol
}

// ParseHeader reads the clear header without decrypting.
func (d *Decoder) ParseHeader(b []byte) (EncryptedLocationSpecificPart, error) {
	if len(b) < Size {
		return EncryptedLocationSpecificPart{}, ErrTooShort.WithMetadata(map[string]string{
			"length": strconv.Itoa(len(b)),
			"min":    strconv.Itoa(Size),
		})
	}

	h, err := unpackHeader(b)
	if err != nil {
		return EncryptedLocationSpecificPart{}, err
	}
	h.EncryptedMessage = slices.Clone(b[HeaderSize : len(b)-ecies.EphemeralKeySize])

	return h, nil
}

// Decode opens b and parses the location message. A trailing sealed
// contact is kept as EncryptedContact.
func (d *Decoder) Decode(b []byte) (LocationSpecificPart, error) {
	h, err := d.ParseHeader(b)
	if err != nil {
		return LocationSpecificPart{}, err
	}

	out, err := d.engine.Decrypt(b, d.recipient, true)
	if err != nil {
		return LocationSpecificPart{}, err
	}
	msg := out[HeaderSize:]

	p := LocationSpecificPart{
		Version:           h.Version,
		Type:              h.Type,
		TemporaryPublicID: h.TemporaryPublicID,
	}

	hasContact, err := unpackMessage(msg, d.opts.protocol, &p)
	if err != nil {
		return LocationSpecificPart{}, err
	}

	want := MessageSize
	if hasContact {
		want += ContactSize
	}
	if len(msg) != want {
		return LocationSpecificPart{}, ErrContactLength.WithMetadata(map[string]string{
			"length": strconv.Itoa(len(msg)),
			"want":   strconv.Itoa(want),
		})
	}
	if hasContact {
		p.EncryptedContact = slices.Clone(msg[MessageSize:])
	}

	if d.opts.decodeValidation {
		if err := validate(d.opts.validator, p, d.opts.protocol); err != nil {
			return LocationSpecificPart{}, err
		}
	}

	return p, nil
}

// DecodeBase64 decodes base64 text, see DecodeString, then opens it.
func (d *Decoder) DecodeBase64(s string) (LocationSpecificPart, error) {
	b, err := DecodeString(s)
	if err != nil {
		return LocationSpecificPart{}, err
	}
	return d.Decode(b)
}

// DecodeString decodes base64 in the standard or URL alphabet, padded or not.
func DecodeString(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")

	enc := base64.RawStdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.RawURLEncoding
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, ErrBase64.WithCause(err)
	}
	return b, nil
}
