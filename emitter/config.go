package emitter

import (
	"github.com/kochabx/clea/contact"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

// Config is the venue configuration file, clea.yaml.
//
//	protocol: country-code
//	keys:
//	  server_authority: 02c14d…        # compressed or uncompressed public key
//	  manual_contact_tracing: 03a1…    # required with a contact section
//	  permanent: 23c9b8…
//	venue:
//	  staff: false
//	  country_code: 33                 # 0 under protocol: reserved
//	  venue_type: 4
//	  period_duration: 24
//	  renewal_interval_exponent: 10
//	contact:
//	  phone: "0612345678"
//	  region: 11
//	  pin: "012345"
type Config struct {
	Protocol string         `json:"protocol" mapstructure:"protocol" default:"country-code" validate:"oneof=country-code reserved"`
	Keys     KeysConfig     `json:"keys" mapstructure:"keys"`
	Venue    VenueConfig    `json:"venue" mapstructure:"venue"`
	Contact  *ContactConfig `json:"contact,omitempty" mapstructure:"contact"`
	Log      log.Config     `json:"log" mapstructure:"log"`
}

// KeysConfig holds hex encoded key material.
type KeysConfig struct {
	ServerAuthority      string `json:"server_authority" mapstructure:"server_authority" validate:"required,hexadecimal"`
	ManualContactTracing string `json:"manual_contact_tracing" mapstructure:"manual_contact_tracing" validate:"omitempty,hexadecimal"`
	Permanent            string `json:"-" mapstructure:"permanent" validate:"required,hexadecimal"`
}

// VenueConfig holds the static fields of the location specific part.
type VenueConfig struct {
	Staff          bool `json:"staff" mapstructure:"staff"`
	VenueType      int  `json:"venue_type" mapstructure:"venue_type" validate:"gte=0,lte=31"`
	VenueCategory1 int  `json:"venue_category1" mapstructure:"venue_category1" validate:"gte=0,lte=15"`
	VenueCategory2 int  `json:"venue_category2" mapstructure:"venue_category2" validate:"gte=0,lte=15"`
	PeriodDuration int  `json:"period_duration" mapstructure:"period_duration" default:"24" validate:"gte=1,lte=255"`

	// CountryCode defaults to lsp.DefaultCountryCodeFor the configured protocol.
	CountryCode             *int `json:"country_code" mapstructure:"country_code" validate:"omitempty,gte=0,lte=4095"`
	// RenewalIntervalExponent defaults to lsp.NoRenewal.
	RenewalIntervalExponent *int `json:"renewal_interval_exponent" mapstructure:"renewal_interval_exponent" default:"31" validate:"omitempty,gte=0,lte=31"`
}

// ContactConfig enables manual contact tracing.
type ContactConfig struct {
	Phone  string `json:"phone" mapstructure:"phone" validate:"required,digits,max=15"`
	Region int    `json:"region" mapstructure:"region" validate:"gte=0,lte=255"`
	PIN    string `json:"pin" mapstructure:"pin" validate:"len=6,digits"`
}

// RenewalExponent returns the configured exponent or lsp.NoRenewal.
func (v VenueConfig) RenewalExponent() int {
	if v.RenewalIntervalExponent == nil {
		return lsp.NoRenewal
	}
	return *v.RenewalIntervalExponent
}

// Part builds the static location specific part under protocol.
func (v VenueConfig) Part(protocol lsp.Protocol) (lsp.LocationSpecificPart, error) {
	b := lsp.NewBuilder().
		Protocol(protocol).
		Staff(v.Staff).
		RenewalIntervalExponent(v.RenewalExponent()).
		VenueType(v.VenueType).
		VenueCategory1(v.VenueCategory1).
		VenueCategory2(v.VenueCategory2).
		PeriodDuration(v.PeriodDuration)
	if v.CountryCode != nil {
		b.CountryCode(*v.CountryCode)
	}
	return b.Build()
}

// Location builds the venue described by c.
func (c Config) Location(opts ...location.Option) (*location.Location, error) {
	protocol, err := lsp.ParseProtocol(c.Protocol)
	if err != nil {
		return nil, err
	}

	sa, err := ecies.ParsePublicKeyHex(c.Keys.ServerAuthority)
	if err != nil {
		return nil, err
	}

	permanent, err := location.ParsePermanentKeyHex(c.Keys.Permanent)
	if err != nil {
		return nil, err
	}

	part, err := c.Venue.Part(protocol)
	if err != nil {
		return nil, err
	}

	cfg := location.Config{
		PermanentSecretKey: permanent,
		ServerAuthorityKey: sa,
		LSP:                part,
	}

	if c.Contact != nil {
		mcta, err := ecies.ParsePublicKeyHex(c.Keys.ManualContactTracing)
		if err != nil {
			return nil, err
		}
		cfg.ManualContactTracingKey = mcta
		cfg.Contact = &contact.LocationContact{
			Phone:  c.Contact.Phone,
			Region: c.Contact.Region,
			PIN:    c.Contact.PIN,
		}
	}

	return location.New(cfg, append([]location.Option{location.WithProtocol(protocol)}, opts...)...)
}
