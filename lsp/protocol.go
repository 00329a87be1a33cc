package lsp

import (
	"strings"

	"github.com/kochabx/clea/errors"
)

// Protocol selects the meaning of the 12-bit field following the staff and
// contact flags. Encoder and Decoder honour exactly one protocol.
type Protocol int

const (
	// ProtocolCountryCode carries the venue country code.
	ProtocolCountryCode Protocol = iota
	// ProtocolReserved keeps the field zero.
	ProtocolReserved
)

// String returns the flag spelling of the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolCountryCode:
		return "country-code"
	case ProtocolReserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// ParseProtocol parses "country-code" or "reserved". An empty string
// selects ProtocolCountryCode.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "country-code", "country_code", "countrycode":
		return ProtocolCountryCode, nil
	case "reserved":
		return ProtocolReserved, nil
	default:
		return 0, errors.Validation("lsp: unknown protocol", errors.Violation{
			Field:      "protocol",
			Constraint: "oneof",
			Message:    "protocol must be one of country-code reserved",
		})
	}
}
