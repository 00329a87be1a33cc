package lsp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kochabx/clea/core/bits"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/crypto/period"
	"github.com/kochabx/clea/errors"
)

// Field widths in bits.
const (
	versionBits = 3
	typeBits    = 3
	padBits     = 2
	ltIDBits    = 128

	staffBits          = 1
	contactBits        = 1
	countryCodeBits    = 12
	renewalBits        = 5
	venueTypeBits      = 5
	venueCategoryBits  = 4
	periodDurationBits = 8
	compressedBits     = 24
	validityStartBits  = 32
	ltKeyBits          = period.KeySize * 8
)

const (
	// HeaderSize is the size of the clear header.
	HeaderSize = ecies.HeaderSize
	// MessageSize is the size of the sealed location message.
	MessageSize = ecies.MessageSize
	// ContactSize is the size of an attached sealed contact.
	ContactSize = ecies.ContactMessageSize + ecies.Overhead

	// Size is the wire size of a part without contact.
	Size = HeaderSize + MessageSize + ecies.Overhead
	// SizeWithContact is the wire size of a part with contact.
	SizeWithContact = Size + ContactSize
)

// widths maps each bounded field to its wire width, in layout order.
var widths = []struct {
	field string
	width int
	value func(LocationSpecificPart) uint64
}{
	{"Version", versionBits, func(p LocationSpecificPart) uint64 { return uint64(p.Version) }},
	{"Type", typeBits, func(p LocationSpecificPart) uint64 { return uint64(p.Type) }},
	{"CountryCode", countryCodeBits, func(p LocationSpecificPart) uint64 { return uint64(p.CountryCode) }},
	{"RenewalIntervalExponent", renewalBits, func(p LocationSpecificPart) uint64 { return uint64(p.RenewalIntervalExponent) }},
	{"VenueType", venueTypeBits, func(p LocationSpecificPart) uint64 { return uint64(p.VenueType) }},
	{"VenueCategory1", venueCategoryBits, func(p LocationSpecificPart) uint64 { return uint64(p.VenueCategory1) }},
	{"VenueCategory2", venueCategoryBits, func(p LocationSpecificPart) uint64 { return uint64(p.VenueCategory2) }},
	{"PeriodDuration", periodDurationBits, func(p LocationSpecificPart) uint64 { return uint64(p.PeriodDuration) }},
	{"CompressedPeriodStart", compressedBits, func(p LocationSpecificPart) uint64 { return uint64(p.CompressedPeriodStart) }},
}

// wireViolations reports fields whose value does not fit its wire width.
// Fields listed in skip already carry a range violation and are not reported twice.
func wireViolations(p LocationSpecificPart, skip map[string]bool) []errors.Violation {
	var out []errors.Violation
	for _, w := range widths {
		if skip[w.field] {
			continue
		}
		if w.value(p) >= 1<<uint(w.width) {
			out = append(out, errors.Violation{
				Field:      w.field,
				Constraint: "wire_width",
				Message:    fmt.Sprintf("%s must fit in %d bits", w.field, w.width),
			})
		}
	}
	return out
}

func packHeader(p LocationSpecificPart) []byte {
	w := bits.NewWriter(HeaderSize * 8)
	w.WriteUint(uint64(p.Version), versionBits)
	w.WriteUint(uint64(p.Type), typeBits)
	w.WriteUint(0, padBits)
	w.WriteBytes(p.TemporaryPublicID[:], ltIDBits)
	return w.Bytes()
}

// packMessage writes the 44-byte location message. The 12-bit field
// carries the country code only under ProtocolCountryCode.
func packMessage(p LocationSpecificPart, protocol Protocol) []byte {
	var field uint64
	if protocol == ProtocolCountryCode {
		field = uint64(p.CountryCode)
	}

	w := bits.NewWriter(MessageSize * 8)
	w.WriteBool(p.Staff)
	w.WriteBool(p.HasContact())
	w.WriteUint(field, countryCodeBits)
	w.WriteUint(uint64(p.RenewalIntervalExponent), renewalBits)
	w.WriteUint(uint64(p.VenueType), venueTypeBits)
	w.WriteUint(uint64(p.VenueCategory1), venueCategoryBits)
	w.WriteUint(uint64(p.VenueCategory2), venueCategoryBits)
	w.WriteUint(uint64(p.PeriodDuration), periodDurationBits)
	w.WriteUint(uint64(p.CompressedPeriodStart), compressedBits)
	w.WriteUint(uint64(p.QRValidityStart), validityStartBits)
	w.WriteBytes(p.TemporarySecretKey, ltKeyBits)
	return w.Bytes()
}

// unpackHeader reads the clear header fields. b must hold HeaderSize bytes.
func unpackHeader(b []byte) (EncryptedLocationSpecificPart, error) {
	r := bits.NewReader(b[:HeaderSize])

	h := EncryptedLocationSpecificPart{
		Version: int(r.ReadUint(versionBits)),
		Type:    int(r.ReadUint(typeBits)),
	}
	if r.ReadUint(padBits) != 0 {
		return EncryptedLocationSpecificPart{}, ErrNonZeroPad
	}
	h.TemporaryPublicID = uuid.UUID(r.ReadBytes(ltIDBits))

	return h, nil
}

// unpackMessage reads the 44-byte location message into p and reports
// whether a contact follows.
func unpackMessage(msg []byte, protocol Protocol, p *LocationSpecificPart) (contact bool, err error) {
	r := bits.NewReader(msg[:MessageSize])

	p.Staff = r.ReadBool()
	contact = r.ReadBool()

	field := int(r.ReadUint(countryCodeBits))
	switch protocol {
	case ProtocolReserved:
		if field != 0 {
			return false, ErrReservedField
		}
	default:
		p.CountryCode = field
	}

	p.RenewalIntervalExponent = int(r.ReadUint(renewalBits))
	p.VenueType = int(r.ReadUint(venueTypeBits))
	p.VenueCategory1 = int(r.ReadUint(venueCategoryBits))
	p.VenueCategory2 = int(r.ReadUint(venueCategoryBits))
	p.PeriodDuration = int(r.ReadUint(periodDurationBits))
	p.CompressedPeriodStart = uint32(r.ReadUint(compressedBits))
	p.QRValidityStart = uint32(r.ReadUint(validityStartBits))
	p.TemporarySecretKey = r.ReadBytes(ltKeyBits)

	return contact, nil
}
