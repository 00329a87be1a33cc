// Package location drives one venue: it rotates the period keys, keeps the
// QR validity start inside the period and renders deep links.
//
// A Location is not safe for concurrent use; its owner serializes calls.
package location

import (
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"github.com/kochabx/clea/contact"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/crypto/period"
	"github.com/kochabx/clea/core/ntp"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

// DeepLinkPrefix starts every venue deep link.
const DeepLinkPrefix = "https://tac.gouv.fr/"

var (
	ErrServerAuthorityKeyEmpty = errors.Key("location: server authority public key is empty")
	ErrContactKeyEmpty         = errors.Key("location: manual contact tracing public key is empty")
	ErrPermanentKeyInvalid     = errors.Key("location: permanent location secret key is not hexadecimal")
	ErrDeepLinkPrefix          = errors.Format("location: deep link must start with %s", DeepLinkPrefix)
)

// Config holds the venue keys and its initial location specific part.
type Config struct {
	PermanentSecretKey      []byte
	ServerAuthorityKey      *ecies.PublicKey
	ManualContactTracingKey *ecies.PublicKey
	LSP                     lsp.LocationSpecificPart
	// Contact enables manual contact tracing when set.
	Contact *contact.LocationContact
}

// Location is the mutable state of one venue.
type Location struct {
	permanent []byte
	mcta      *ecies.PublicKey

	encoder      *lsp.Encoder
	contactCodec *contact.Codec

	part    lsp.LocationSpecificPart
	contact *contact.LocationContact

	periodStart uint32
	rotated     bool

	clock  func() time.Time
	logger *log.Logger
}

// New creates a venue from cfg. The permanent key and contact are copied.
func New(cfg Config, opts ...Option) (*Location, error) {
	if len(cfg.PermanentSecretKey) == 0 {
		return nil, period.ErrPermanentKeyEmpty
	}
	if cfg.ServerAuthorityKey == nil {
		return nil, ErrServerAuthorityKeyEmpty
	}
	if cfg.Contact != nil && cfg.ManualContactTracingKey == nil {
		return nil, ErrContactKeyEmpty
	}

	o := newOptions(opts)

	if err := lsp.ValidateStatic(cfg.LSP, o.protocol); err != nil {
		return nil, err
	}

	l := &Location{
		permanent:    slices.Clone(cfg.PermanentSecretKey),
		mcta:         cfg.ManualContactTracingKey,
		encoder:      lsp.NewEncoder(o.engine, cfg.ServerAuthorityKey, lsp.WithProtocol(o.protocol)),
		contactCodec: contact.NewCodec(o.engine),
		part:         cfg.LSP.Clone(),
		clock:        o.clock,
		logger:       o.logger,
	}
	if cfg.Contact != nil {
		c := *cfg.Contact
		l.contact = &c
	}

	return l, nil
}

// RotatePeriod binds the venue to the period starting at periodStart. A
// move to another period clears the QR validity start.
func (l *Location) RotatePeriod(periodStart time.Time) error {
	ps := ntp.Timestamp32(periodStart)

	keys, err := period.Derive(l.permanent, ps)
	if err != nil {
		return err
	}

	if l.rotated && ps != l.periodStart {
		l.part = l.part.WithQRValidityStart(0)
	}
	l.part = l.part.WithPeriod(keys)
	l.periodStart = ps
	l.rotated = true

	if l.contact != nil {
		c := l.contact.WithPeriodStart(ps)
		l.contact = &c
	}

	l.logger.Debug().
		Uint32("period_start", ps).
		Uint32("compressed_period_start", l.part.CompressedPeriodStart).
		Str("ltid", keys.TemporaryPublicID.String()).
		Msg("period rotated")

	return nil
}

// SetQRValidityStart moves the QR validity start to candidate and reports
// whether it did. The candidate is ignored when it falls outside the
// period, is off the renewal grid, or the code never renews and already
// has a validity start.
func (l *Location) SetQRValidityStart(periodStart, candidate time.Time) bool {
	ps := ntp.FromTime(periodStart)
	c := ntp.FromTime(candidate)
	interval := l.part.RenewalInterval()
	end := ps + uint64(l.part.PeriodDuration)*ntp.SecondsPerHour

	reject := func(reason string) bool {
		l.logger.Warn().
			Uint64("period_start", ps).
			Uint64("candidate", c).
			Uint64("renewal_interval", interval).
			Msg("qr validity start unchanged: " + reason)
		return false
	}

	switch {
	case interval == 0 && l.part.QRValidityStart != 0:
		return reject("code is never renewed within its period")
	case c < ps:
		return reject("candidate precedes the period start")
	case c > end:
		return reject("candidate is past the period end")
	case interval > 0 && (c-ps)%interval != 0:
		return reject("candidate is not on the renewal grid")
	}

	l.part = l.part.WithQRValidityStart(ntp.Truncate32(c))
	return true
}

// NewDeepLink renders a deep link for the current hour, read from the clock.
func (l *Location) NewDeepLink() (string, error) {
	now := ntp.FromTime(l.clock())
	return l.NewDeepLinkAt(ntp.ToTime(ntp.TruncateHour(now)))
}

// NewDeepLinkAt renders a deep link valid from periodStart.
func (l *Location) NewDeepLinkAt(periodStart time.Time) (string, error) {
	return l.NewDeepLinkWithValidity(periodStart, periodStart)
}

// NewDeepLinkWithValidity rotates to periodStart, tries validityStart as the
// QR validity start, seals a fresh contact when one is set and encodes.
func (l *Location) NewDeepLinkWithValidity(periodStart, validityStart time.Time) (string, error) {
	if err := l.RotatePeriod(periodStart); err != nil {
		return "", err
	}
	l.SetQRValidityStart(periodStart, validityStart)

	if l.contact != nil {
		sealed, err := l.contactCodec.Encrypt(*l.contact, l.mcta)
		if err != nil {
			return "", err
		}
		l.part = l.part.WithEncryptedContact(sealed)
	}

	b64, err := l.encoder.EncodeBase64(l.part)
	if err != nil {
		return "", err
	}
	return DeepLinkPrefix + b64, nil
}

// LocationSpecificPart returns a copy of the current part.
func (l *Location) LocationSpecificPart() lsp.LocationSpecificPart {
	return l.part.Clone()
}

// Contact returns a copy of the venue contact, if any.
func (l *Location) Contact() (contact.LocationContact, bool) {
	if l.contact == nil {
		return contact.LocationContact{}, false
	}
	return *l.contact, true
}

// ParseDeepLink returns the wire bytes carried by link. Padded and unpadded
// base64 are both accepted.
func ParseDeepLink(link string) ([]byte, error) {
	link = strings.TrimSpace(link)
	payload, ok := strings.CutPrefix(link, DeepLinkPrefix)
	if !ok {
		return nil, ErrDeepLinkPrefix
	}
	return lsp.DecodeString(payload)
}

// ParsePermanentKeyHex decodes a hex permanent location secret key.
func ParsePermanentKeyHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, period.ErrPermanentKeyEmpty
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrPermanentKeyInvalid.WithCause(err)
	}
	return b, nil
}
