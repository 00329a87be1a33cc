package lsp

import "github.com/kochabx/clea/core/validator"

// Builder assembles the static fields of a venue part. Period keys and the
// QR validity start are set later with WithPeriod and WithQRValidityStart.
type Builder struct {
	p           LocationSpecificPart
	countryCode *int
	protocol    Protocol
	validator   validator.Validator
}

// NewBuilder starts a part under ProtocolCountryCode with no renewal.
func NewBuilder() *Builder {
	return &Builder{
		p: LocationSpecificPart{
			RenewalIntervalExponent: NoRenewal,
		},
		protocol:  ProtocolCountryCode,
		validator: validator.Validate,
	}
}

func (b *Builder) Version(v int) *Builder {
	b.p.Version = v
	return b
}

func (b *Builder) Type(t int) *Builder {
	b.p.Type = t
	return b
}

// CountryCode sets the country code. Left unset, it resolves to
// DefaultCountryCode under ProtocolCountryCode and to 0 under ProtocolReserved.
func (b *Builder) CountryCode(c int) *Builder {
	b.countryCode = &c
	return b
}

// Protocol selects the protocol the part is validated against.
func (b *Builder) Protocol(p Protocol) *Builder {
	b.protocol = p
	return b
}

func (b *Builder) Staff(staff bool) *Builder {
	b.p.Staff = staff
	return b
}

func (b *Builder) RenewalIntervalExponent(e int) *Builder {
	b.p.RenewalIntervalExponent = e
	return b
}

func (b *Builder) VenueType(t int) *Builder {
	b.p.VenueType = t
	return b
}

func (b *Builder) VenueCategory1(c int) *Builder {
	b.p.VenueCategory1 = c
	return b
}

func (b *Builder) VenueCategory2(c int) *Builder {
	b.p.VenueCategory2 = c
	return b
}

// PeriodDuration sets the period length in hours.
func (b *Builder) PeriodDuration(hours int) *Builder {
	b.p.PeriodDuration = hours
	return b
}

// Validator replaces the package-level validator.
func (b *Builder) Validator(v validator.Validator) *Builder {
	if v != nil {
		b.validator = v
	}
	return b
}

// Build validates the static fields and returns the part.
func (b *Builder) Build() (LocationSpecificPart, error) {
	p := b.p.Clone()
	p.CountryCode = DefaultCountryCodeFor(b.protocol)
	if b.countryCode != nil {
		p.CountryCode = *b.countryCode
	}

	if err := validate(b.validator, p, b.protocol, periodFields...); err != nil {
		return LocationSpecificPart{}, err
	}
	return p, nil
}
