// Package lsp encodes and decodes the Location Specific Part, the encrypted
// payload carried by a venue QR code.
//
// Wire layout:
//
//	header   17 bytes  version:3 type:3 pad:2 LTId:128, authenticated in clear
//	message  44 bytes  sealed, see layout.go
//	contact  65 bytes  optional, sealed for the manual contact tracing authority
//	tag      16 bytes
//	C0       33 bytes  compressed ephemeral key
package lsp

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/clea/core/crypto/period"
	"github.com/kochabx/clea/core/ntp"
)

// NoRenewal is the renewal exponent of a QR code that is never renewed
// within its period.
const NoRenewal = 0x1F

// DefaultCountryCode is the country code a Builder sets under
// ProtocolCountryCode when none is given.
const DefaultCountryCode = 33

// DefaultCountryCodeFor returns the country code used when a venue sets
// none: DefaultCountryCode under ProtocolCountryCode, 0 otherwise.
func DefaultCountryCodeFor(protocol Protocol) int {
	if protocol == ProtocolCountryCode {
		return DefaultCountryCode
	}
	return 0
}

// LocationSpecificPart is the clear content of a venue QR code.
type LocationSpecificPart struct {
	Version                 int       `json:"version" validate:"gte=0,lte=8"`
	Type                    int       `json:"type" validate:"gte=0,lte=8"`
	CountryCode             int       `json:"country_code" validate:"gte=0,lte=4096"`
	Staff                   bool      `json:"staff"`
	TemporaryPublicID       uuid.UUID `json:"ltid"`
	RenewalIntervalExponent int       `json:"renewal_interval_exponent" validate:"gte=0,lte=32"`
	VenueType               int       `json:"venue_type" validate:"gte=0,lte=32"`
	VenueCategory1          int       `json:"venue_category1" validate:"gte=0,lte=16"`
	VenueCategory2          int       `json:"venue_category2" validate:"gte=0,lte=16"`
	PeriodDuration          int       `json:"period_duration" validate:"gte=0,lte=255"`
	CompressedPeriodStart   uint32    `json:"compressed_period_start" validate:"lte=16777216"`
	QRValidityStart         uint32    `json:"qr_validity_start" validate:"required"`
	TemporarySecretKey      []byte    `json:"-" validate:"required,len=32"`
	EncryptedContact        []byte    `json:"encrypted_contact,omitempty" validate:"omitempty,len=65"`
}

// EncryptedLocationSpecificPart is the clear header of a sealed part
// together with its still encrypted message.
type EncryptedLocationSpecificPart struct {
	Version           int
	Type              int
	TemporaryPublicID uuid.UUID
	// EncryptedMessage holds the ciphertext and tag, without the ephemeral key.
	EncryptedMessage []byte
}

// RenewalInterval returns the QR renewal interval in seconds for exponent,
// 0 when the code is never renewed.
func RenewalInterval(exponent int) uint64 {
	if exponent == NoRenewal || exponent < 0 || exponent >= 64 {
		return 0
	}
	return 1 << uint(exponent)
}

// RenewalInterval returns the QR renewal interval in seconds.
func (p LocationSpecificPart) RenewalInterval() uint64 {
	return RenewalInterval(p.RenewalIntervalExponent)
}

// HasContact reports whether an encrypted contact is attached.
func (p LocationSpecificPart) HasContact() bool {
	return len(p.EncryptedContact) > 0
}

// PeriodStart returns the period start in NTP seconds.
func (p LocationSpecificPart) PeriodStart() uint64 {
	return ntp.Decompress(p.CompressedPeriodStart)
}

// PeriodStartTime returns the period start as wall-clock time.
func (p LocationSpecificPart) PeriodStartTime() time.Time {
	return ntp.ToTime(p.PeriodStart())
}

// QRValidityStartTime returns the QR validity start as wall-clock time.
func (p LocationSpecificPart) QRValidityStartTime() time.Time {
	return ntp.ToTime(uint64(p.QRValidityStart))
}

// WithPeriod returns a copy bound to the period described by keys.
func (p LocationSpecificPart) WithPeriod(keys period.Keys) LocationSpecificPart {
	p.CompressedPeriodStart = ntp.Compress(uint64(keys.PeriodStart))
	p.TemporarySecretKey = slices.Clone(keys.TemporarySecretKey[:])
	p.TemporaryPublicID = keys.TemporaryPublicID
	return p
}

// WithQRValidityStart returns a copy valid from ntp seconds.
func (p LocationSpecificPart) WithQRValidityStart(validityStart uint32) LocationSpecificPart {
	p.QRValidityStart = validityStart
	return p
}

// WithEncryptedContact returns a copy carrying the sealed contact b.
// A nil b detaches the contact.
func (p LocationSpecificPart) WithEncryptedContact(b []byte) LocationSpecificPart {
	p.EncryptedContact = slices.Clone(b)
	return p
}

// Clone returns a deep copy.
func (p LocationSpecificPart) Clone() LocationSpecificPart {
	p.TemporarySecretKey = slices.Clone(p.TemporarySecretKey)
	p.EncryptedContact = slices.Clone(p.EncryptedContact)
	return p
}
