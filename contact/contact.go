// Package contact packs and seals the optional location contact message
// read only by the manual contact tracing authority.
//
// Packed layout, 16 bytes, MSB first:
//
//	phone     15 x 4 bits, one decimal digit per nibble, padded with 0xF
//	pad        4 bits, zero
//	region     8 bits
//	pin        6 x 4 bits
//	period    32 bits, NTP seconds
package contact

import (
	"time"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/ntp"
)

const (
	// MaxPhoneDigits is the number of phone nibbles on the wire.
	MaxPhoneDigits = 15

	// PINDigits is the fixed length of the secret PIN.
	PINDigits = 6

	// Size is the packed message size in bytes.
	Size = ecies.ContactMessageSize

	// EncryptedSize is the length of a sealed contact message.
	EncryptedSize = Size + ecies.Overhead

	phoneBits  = MaxPhoneDigits * 4
	padBits    = 4
	regionBits = 8
	pinBits    = PINDigits * 4
	periodBits = 32

	emptyNibble = 0xF
)

// LocationContact identifies the person to reach for a venue.
type LocationContact struct {
	Phone       string `json:"phone" mapstructure:"phone" validate:"required,digits,max=15"`
	Region      int    `json:"region" mapstructure:"region" validate:"gte=0,lte=255"`
	PIN         string `json:"pin" mapstructure:"pin" validate:"len=6,digits"`
	PeriodStart uint32 `json:"period_start" mapstructure:"period_start" validate:"required"`
}

// WithPeriodStart returns a copy bound to the period starting at ntp seconds.
func (c LocationContact) WithPeriodStart(periodStart uint32) LocationContact {
	c.PeriodStart = periodStart
	return c
}

// PeriodStartTime returns the period start as wall-clock time.
func (c LocationContact) PeriodStartTime() time.Time {
	return ntp.ToTime(uint64(c.PeriodStart))
}
