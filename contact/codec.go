package contact

import (
	"strconv"
	"strings"

	"github.com/kochabx/clea/core/bits"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/validator"
)

// Codec packs location contacts and seals them for the manual contact
// tracing authority. It is safe for concurrent use.
type Codec struct {
	engine    *ecies.Engine
	validator validator.Validator
}

// Option configures a Codec.
type Option func(*Codec)

// WithValidator replaces the package-level validator.
func WithValidator(v validator.Validator) Option {
	return func(c *Codec) {
		if v != nil {
			c.validator = v
		}
	}
}

// NewCodec creates a codec sealing with engine. A nil engine gets a default one.
func NewCodec(engine *ecies.Engine, opts ...Option) *Codec {
	if engine == nil {
		engine = ecies.NewEngine()
	}
	c := &Codec{
		engine:    engine,
		validator: validator.Validate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Marshal validates c and packs it into Size bytes.
func (codec *Codec) Marshal(c LocationContact) ([]byte, error) {
	if err := codec.validator.Struct(c); err != nil {
		return nil, err
	}

	w := bits.NewWriter(Size * 8)
	for i := range MaxPhoneDigits {
		nibble := uint64(emptyNibble)
		if i < len(c.Phone) {
			nibble = uint64(c.Phone[i] - '0')
		}
		w.WriteUint(nibble, 4)
	}
	w.WriteUint(0, padBits)
	w.WriteUint(uint64(c.Region), regionBits)
	for i := range PINDigits {
		w.WriteUint(uint64(c.PIN[i]-'0'), 4)
	}
	w.WriteUint(uint64(c.PeriodStart), periodBits)

	return w.Bytes(), nil
}

// Unmarshal parses a packed message. The phone ends at the first 0xF nibble.
func (codec *Codec) Unmarshal(b []byte) (LocationContact, error) {
	if len(b) != Size {
		return LocationContact{}, ErrInvalidLength.WithMetadata(map[string]string{
			"length": strconv.Itoa(len(b)),
			"want":   strconv.Itoa(Size),
		})
	}

	r := bits.NewReader(b)

	var phone strings.Builder
	ended := false
	for i := range MaxPhoneDigits {
		nibble := r.ReadUint(4)
		switch {
		case ended:
		case nibble == emptyNibble:
			ended = true
		case nibble > 9:
			return LocationContact{}, ErrInvalidDigit.WithMetadata(map[string]string{
				"field":  "phone",
				"nibble": strconv.Itoa(i),
			})
		default:
			phone.WriteByte(byte('0' + nibble))
		}
	}

	if r.ReadUint(padBits) != 0 {
		return LocationContact{}, ErrNonZeroPad
	}

	region := int(r.ReadUint(regionBits))

	var pin strings.Builder
	for i := range PINDigits {
		nibble := r.ReadUint(4)
		if nibble > 9 {
			return LocationContact{}, ErrInvalidDigit.WithMetadata(map[string]string{
				"field":  "pin",
				"nibble": strconv.Itoa(i),
			})
		}
		pin.WriteByte(byte('0' + nibble))
	}

	return LocationContact{
		Phone:       phone.String(),
		Region:      region,
		PIN:         pin.String(),
		PeriodStart: uint32(r.ReadUint(periodBits)),
	}, nil
}

// Encrypt packs c and seals it without associated data.
// The result is Size+ecies.Overhead bytes.
func (codec *Codec) Encrypt(c LocationContact, recipient *ecies.PublicKey) ([]byte, error) {
	msg, err := codec.Marshal(c)
	if err != nil {
		return nil, err
	}
	return codec.engine.Encrypt(nil, msg, recipient)
}

// Decrypt opens a sealed contact message.
func (codec *Codec) Decrypt(b []byte, recipient *ecies.PrivateKey) (LocationContact, error) {
	msg, err := codec.engine.Decrypt(b, recipient, false)
	if err != nil {
		return LocationContact{}, err
	}
	return codec.Unmarshal(msg)
}
