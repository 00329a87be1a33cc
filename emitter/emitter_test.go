package emitter

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/authority"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/ntp"
	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/location"
	"github.com/kochabx/clea/lsp"
)

const (
	serverPrivateKey = "34af7f978c5a17772867d929e0b800dd2db74608322d73f2f0cfd19cdcaeccc8"
	mctaPrivateKey   = "3108f08b1485adb6f72cfba1b55c7484c906a2a3a0a027c78dcd991ca64c97bd"
	permanentKeyHex  = "23c9b8f36ac1c0cddaf869c3733b771c3dc409416a9695df40397cea53e7f39e21f76925fc0c74ca6ee7c7eafad92473fd85758bab8f45fe01aac504"

	// 2021-01-01T00:00:00Z
	periodStart = uint64(3818448000)
)

func publicHex(t *testing.T, priv string) string {
	t.Helper()
	k, err := ecies.ParsePrivateKeyHex(priv)
	require.NoError(t, err)
	return k.Public().Hex(true)
}

func testConfig(t *testing.T, exponent int) Config {
	t.Helper()
	cfg := Config{
		Keys: KeysConfig{
			ServerAuthority:      publicHex(t, serverPrivateKey),
			ManualContactTracing: publicHex(t, mctaPrivateKey),
			Permanent:            permanentKeyHex,
		},
		Venue: VenueConfig{
			Staff:                   true,
			VenueType:               4,
			PeriodDuration:          3,
			RenewalIntervalExponent: &exponent,
		},
	}
	require.NoError(t, tag.ApplyDefaults(&cfg))
	return cfg
}

type recorder struct {
	mu    sync.Mutex
	links []string
	parts []lsp.LocationSpecificPart
}

func (r *recorder) Emit(link string, part lsp.LocationSpecificPart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append(r.links, link)
	r.parts = append(r.parts, part)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}

func newEmitter(t *testing.T, cfg Config, sink Sink) *Emitter {
	t.Helper()
	e, err := New(cfg, sink)
	require.NoError(t, err)
	return e
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, tag.ApplyDefaults(&cfg))

	assert.Equal(t, "country-code", cfg.Protocol)
	assert.Nil(t, cfg.Venue.CountryCode)
	assert.Equal(t, 24, cfg.Venue.PeriodDuration)
	assert.Equal(t, lsp.NoRenewal, cfg.Venue.RenewalExponent())
	assert.Nil(t, cfg.Contact)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfigLocation(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Contact = &ContactConfig{Phone: "0612345678", Region: 11, PIN: "012345"}

	loc, err := cfg.Location()
	require.NoError(t, err)

	part := loc.LocationSpecificPart()
	assert.True(t, part.Staff)
	assert.Equal(t, 33, part.CountryCode)
	assert.Equal(t, uint64(4), part.RenewalInterval())

	c, ok := loc.Contact()
	require.True(t, ok)
	assert.Equal(t, "0612345678", c.Phone)
}

func TestConfigReservedProtocol(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig(t, 2)
	cfg.Protocol = "reserved"

	e := newEmitter(t, cfg, rec)
	assert.Equal(t, 0, e.loc.LocationSpecificPart().CountryCode)

	e.mu.Lock()
	require.NoError(t, e.tick(periodStart+5))
	e.mu.Unlock()
	require.Len(t, rec.links, 1)

	sa, err := ecies.ParsePrivateKeyHex(serverPrivateKey)
	require.NoError(t, err)
	a, err := authority.New(authority.Config{ServerAuthorityKey: sa}, authority.WithProtocol(lsp.ProtocolReserved))
	require.NoError(t, err)
	defer a.Close()

	d, err := a.Decode(rec.links[0])
	require.NoError(t, err)
	assert.Equal(t, 0, d.LSP.CountryCode)
	assert.Equal(t, 4, d.LSP.VenueType)
}

func TestConfigCountryCodeRejectedAtConstruction(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Protocol = "reserved"
	cc := 33
	cfg.Venue.CountryCode = &cc

	_, err := New(cfg, &recorder{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	cfg.Protocol = "country-code"
	cc = 49
	e := newEmitter(t, cfg, &recorder{})
	assert.Equal(t, 49, e.loc.LocationSpecificPart().CountryCode)
}

func TestReloadRejectsCountryCodeUnderReserved(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, lsp.NoRenewal), rec)

	bad := testConfig(t, lsp.NoRenewal)
	bad.Protocol = "reserved"
	cc := 33
	bad.Venue.CountryCode = &cc
	e.Reload(bad)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart))
	require.Len(t, rec.parts, 1)
	assert.Equal(t, 33, rec.parts[0].CountryCode)
	assert.Equal(t, "country-code", e.cfg.Protocol)
}

func TestConfigLocationErrors(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Protocol = "v2"
	_, err := cfg.Location()
	assert.True(t, errors.IsValidation(err))

	cfg = testConfig(t, 2)
	cfg.Keys.ServerAuthority = "02ff"
	_, err = cfg.Location()
	assert.True(t, errors.IsKey(err))

	cfg = testConfig(t, 2)
	cfg.Keys.ManualContactTracing = ""
	cfg.Contact = &ContactConfig{Phone: "0612345678", PIN: "012345"}
	_, err = cfg.Location()
	assert.True(t, errors.IsKey(err))
}

func TestTickRenewsOnGrid(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, 2), rec)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart+5))
	require.NoError(t, e.tick(periodStart+6))
	require.NoError(t, e.tick(periodStart+9))

	require.Len(t, rec.parts, 2)
	assert.Equal(t, uint32(periodStart+4), rec.parts[0].QRValidityStart)
	assert.Equal(t, uint32(periodStart+8), rec.parts[1].QRValidityStart)
	assert.Equal(t, rec.parts[0].TemporaryPublicID, rec.parts[1].TemporaryPublicID)
	assert.NotEqual(t, rec.links[0], rec.links[1])
}

func TestTickClockSteppedBack(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, 2), rec)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart+9))
	require.NoError(t, e.tick(periodStart-100))
	require.NoError(t, e.tick(periodStart+2))

	require.Len(t, rec.parts, 1)
	assert.Equal(t, uint32(periodStart+8), rec.parts[0].QRValidityStart)
	assert.Equal(t, periodStart+8, e.lastValidity)
	assert.Equal(t, periodStart, e.periodStart)

	require.NoError(t, e.tick(periodStart+12))
	require.Len(t, rec.parts, 2)
	assert.Equal(t, uint32(periodStart+12), rec.parts[1].QRValidityStart)
}

func TestTickNoRenewal(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, lsp.NoRenewal), rec)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart+100))
	require.NoError(t, e.tick(periodStart+3599))
	require.Len(t, rec.parts, 1)
	assert.Equal(t, uint32(periodStart), rec.parts[0].QRValidityStart)

	// next period after three hours
	require.NoError(t, e.tick(periodStart+3*3600+10))
	require.Len(t, rec.parts, 2)
	assert.Equal(t, uint32(periodStart+3*3600), rec.parts[1].QRValidityStart)
	assert.NotEqual(t, rec.parts[0].TemporaryPublicID, rec.parts[1].TemporaryPublicID)
}

func TestReloadAppliesAtNextPeriod(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, lsp.NoRenewal), rec)

	e.mu.Lock()
	require.NoError(t, e.tick(periodStart))
	e.mu.Unlock()

	next := testConfig(t, 2)
	next.Venue.VenueType = 9
	e.Reload(next)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart+60))
	require.Len(t, rec.parts, 1)

	require.NoError(t, e.tick(periodStart+3*3600))
	require.Len(t, rec.parts, 2)
	assert.Equal(t, 9, rec.parts[1].VenueType)
	assert.Equal(t, uint64(4), e.interval)
	assert.NotZero(t, e.renewalID)
}

func TestReloadRejectedKeepsVenue(t *testing.T) {
	rec := &recorder{}
	e := newEmitter(t, testConfig(t, lsp.NoRenewal), rec)

	bad := testConfig(t, 2)
	bad.Keys.Permanent = "zz"
	e.Reload(bad)

	e.mu.Lock()
	defer e.mu.Unlock()

	require.NoError(t, e.tick(periodStart))
	require.Len(t, rec.parts, 1)
	assert.Equal(t, 4, rec.parts[0].VenueType)
	assert.Nil(t, e.pending)
}

func TestLinksDecodeOnAuthority(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t, 2)
	cfg.Contact = &ContactConfig{Phone: "0612345678", Region: 11, PIN: "012345"}

	now := ntp.ToTime(periodStart + 13)
	e, err := New(cfg, WriterSink(&buf), WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	require.NoError(t, e.Tick())

	link := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(link, location.DeepLinkPrefix))

	sa, err := ecies.ParsePrivateKeyHex(serverPrivateKey)
	require.NoError(t, err)
	mcta, err := ecies.ParsePrivateKeyHex(mctaPrivateKey)
	require.NoError(t, err)

	a, err := authority.New(authority.Config{ServerAuthorityKey: sa, ManualContactTracingKey: mcta})
	require.NoError(t, err)
	defer a.Close()

	d, err := a.Decode(link)
	require.NoError(t, err)
	assert.Equal(t, uint32(periodStart+12), d.LSP.QRValidityStart)
	require.NotNil(t, d.Contact)
	assert.Equal(t, uint32(periodStart), d.Contact.PeriodStart)
}

func TestRunAndShutdown(t *testing.T) {
	rec := &recorder{}
	exponent := 0
	cfg := testConfig(t, exponent)
	e := newEmitter(t, cfg, rec)

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	require.Eventually(t, func() bool { return rec.count() >= 2 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
