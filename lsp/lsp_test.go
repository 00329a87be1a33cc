package lsp

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/contact"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/crypto/period"
	"github.com/kochabx/clea/errors"
)

const (
	serverPrivateKey = "34af7f978c5a17772867d929e0b800dd2db74608322d73f2f0cfd19cdcaeccc8"
	mctaPrivateKey   = "3108f08b1485adb6f72cfba1b55c7484c906a2a3a0a027c78dcd991ca64c97bd"
	permanentKeyHex  = "23c9b8f36ac1c0cddaf869c3733b771c3dc409416a9695df40397cea53e7f39e21f76925fc0c74ca6ee7c7eafad92473fd85758bab8f45fe01aac504"

	vectorLTKey = "9972f0f74a93d9b16d074bbf44aba0685b1f684d0f1b9508c966bc6ebd6d0c7e"
	vectorLTID  = "fd8ceb02-7d3e-3c4e-8c88-f129944855ce"

	vectorContact = "233e186a84e76d053141c968a1a4e77dd2afe294e959aeef958f91eaeaa7ccc603f6cb2fd497b6480bcae4f0301389f57917f9cd63f47d219408a8505ecd231f2d"

	vectorLSP        = "00fd8ceb027d3e3c4e8c88f129944855ce8eb953bdc6253ef8fbc42ee5025fad958bce84053a58017dae6a7d9f82998f817f387df9d1e3a8998cd269d65a3ec6bcb836b87eec6723d2e92ae80a02428040ac78fd228997b8922431ed3f15035d2df1960af93a203647d044c31998"
	vectorLSPContact = "00fd8ceb027d3e3c4e8c88f129944855ceceb953bdc6253ef8fbc42ee5025fad958bce84053a58017dae6a7d9f82998f817f387df9d1e3a8998cd269d68e746cc936e517f290402359fdbd018dd595cf5301f22ed73f1226b63d0ed974c13034e3837d8190cb0da1629520630ad81c4880f7f0a1509e43f4d82bd123224697242dd2924fa425491c4a03ab8aaa2002428040ac78fd228997b8922431ed3f15035d2df1960af93a203647d044c31998"

	vectorLink = "AP2M6wJ9PjxOjIjxKZRIVc6OuVO9xiU--PvELuUCX62Vi86EBTpYAX2uan2fgpmPgX84ffnR46iZjNJp1lo-xry4Nrh-7Gcj0ukq6AoCQoBArHj9IomXuJIkMe0_FQNdLfGWCvk6IDZH0ETDGZg="

	periodStart = uint32(3818448000)
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func serverKey(t *testing.T) *ecies.PrivateKey {
	t.Helper()
	k, err := ecies.ParsePrivateKeyHex(serverPrivateKey)
	require.NoError(t, err)
	return k
}

func periodKeys(t *testing.T) period.Keys {
	t.Helper()
	keys, err := period.Derive(mustHex(t, permanentKeyHex), periodStart)
	require.NoError(t, err)
	return keys
}

// vectorPart mirrors the fields sealed in vectorLSP.
func vectorPart(t *testing.T) LocationSpecificPart {
	t.Helper()
	p, err := NewBuilder().
		Staff(true).
		CountryCode(33).
		RenewalIntervalExponent(2).
		VenueType(4).
		VenueCategory1(1).
		VenueCategory2(2).
		PeriodDuration(3).
		Build()
	require.NoError(t, err)

	return p.WithPeriod(periodKeys(t)).WithQRValidityStart(periodStart + 8)
}

func TestDecodeVector(t *testing.T) {
	d := NewDecoder(nil, serverKey(t))

	p, err := d.Decode(mustHex(t, vectorLSP))
	require.NoError(t, err)

	assert.Equal(t, vectorPart(t), p)
	assert.Equal(t, vectorLTID, p.TemporaryPublicID.String())
	assert.Equal(t, vectorLTKey, hex.EncodeToString(p.TemporarySecretKey))
	assert.Equal(t, uint32(1060680), p.CompressedPeriodStart)
	assert.Equal(t, uint32(3818448008), p.QRValidityStart)
	assert.False(t, p.HasContact())
	assert.Equal(t, uint64(4), p.RenewalInterval())
}

func TestDecodeVectorWithContact(t *testing.T) {
	d := NewDecoder(nil, serverKey(t))

	b := mustHex(t, vectorLSPContact)
	require.Len(t, b, SizeWithContact)

	p, err := d.Decode(b)
	require.NoError(t, err)
	assert.True(t, p.HasContact())
	assert.Equal(t, vectorContact, hex.EncodeToString(p.EncryptedContact))
	assert.Equal(t, vectorPart(t).WithEncryptedContact(mustHex(t, vectorContact)), p)

	mcta, err := ecies.ParsePrivateKeyHex(mctaPrivateKey)
	require.NoError(t, err)

	c, err := contact.NewCodec(nil).Decrypt(p.EncryptedContact, mcta)
	require.NoError(t, err)
	assert.Equal(t, "33800130000", c.Phone)
	assert.Equal(t, 11, c.Region)
	assert.Equal(t, "012345", c.PIN)
	assert.Equal(t, periodStart, c.PeriodStart)
}

func TestDecodeBase64Vector(t *testing.T) {
	d := NewDecoder(nil, serverKey(t))

	p, err := d.DecodeBase64(vectorLink)
	require.NoError(t, err)
	assert.Equal(t, vectorPart(t), p)
}

func TestParseHeader(t *testing.T) {
	d := NewDecoder(nil, nil)

	b := mustHex(t, vectorLSP)
	h, err := d.ParseHeader(b)
	require.NoError(t, err)

	assert.Equal(t, 0, h.Version)
	assert.Equal(t, 0, h.Type)
	assert.Equal(t, uuid.MustParse(vectorLTID), h.TemporaryPublicID)
	assert.Equal(t, b[HeaderSize:len(b)-ecies.EphemeralKeySize], h.EncryptedMessage)
	assert.Len(t, h.EncryptedMessage, MessageSize+ecies.TagSize)
}

func TestParseHeaderErrors(t *testing.T) {
	d := NewDecoder(nil, nil)

	_, err := d.ParseHeader(mustHex(t, vectorLSP)[:Size-1])
	assert.True(t, errors.Is(err, ErrTooShort))
	assert.True(t, errors.IsFormat(err))

	padded := mustHex(t, vectorLSP)
	padded[0] |= 0x01
	_, err = d.ParseHeader(padded)
	assert.True(t, errors.Is(err, ErrNonZeroPad))
	assert.True(t, errors.IsFormat(err))
}

func TestEncodeDecode(t *testing.T) {
	priv, err := ecies.GenerateKey(rand.Reader)
	require.NoError(t, err)

	engine := ecies.NewEngine()
	enc := NewEncoder(engine, priv.Public())
	dec := NewDecoder(engine, priv)

	p := vectorPart(t)

	b, err := enc.Encode(p)
	require.NoError(t, err)
	assert.Len(t, b, Size)

	got, err := dec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestEncodeDecodeWithContact(t *testing.T) {
	server, _ := ecies.GenerateKey(rand.Reader)
	mcta, _ := ecies.GenerateKey(rand.Reader)

	engine := ecies.NewEngine()
	codec := contact.NewCodec(engine)

	c := contact.LocationContact{Phone: "0612345678", Region: 75, PIN: "999999", PeriodStart: periodStart}
	sealed, err := codec.Encrypt(c, mcta.Public())
	require.NoError(t, err)

	p := vectorPart(t).WithEncryptedContact(sealed)

	b, err := NewEncoder(engine, server.Public()).Encode(p)
	require.NoError(t, err)
	assert.Len(t, b, SizeWithContact)

	got, err := NewDecoder(engine, server).Decode(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	opened, err := codec.Decrypt(got.EncryptedContact, mcta)
	require.NoError(t, err)
	assert.Equal(t, c, opened)
}

func TestEncodeNonDeterministic(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)
	enc := NewEncoder(nil, priv.Public())

	a, err := enc.Encode(vectorPart(t))
	require.NoError(t, err)
	b, err := enc.Encode(vectorPart(t))
	require.NoError(t, err)

	assert.Equal(t, a[:HeaderSize], b[:HeaderSize])
	assert.NotEqual(t, a, b)
}

func TestDecodeTampered(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)
	b, err := NewEncoder(nil, priv.Public()).Encode(vectorPart(t))
	require.NoError(t, err)

	dec := NewDecoder(nil, priv)
	tampered := make([]byte, len(b))
	for i := range len(b) * 8 {
		// pad bits fail the header check before decryption
		if i == 6 || i == 7 {
			continue
		}
		copy(tampered, b)
		tampered[i/8] ^= 0x80 >> (i % 8)

		_, err := dec.Decode(tampered)
		require.Error(t, err, "bit %d", i)
		require.True(t, errors.Is(err, ecies.ErrAuthentication), "bit %d: %v", i, err)
	}

	copy(tampered, b)
	tampered[0] ^= 0x01
	_, err = dec.Decode(tampered)
	assert.True(t, errors.Is(err, ErrNonZeroPad))
}

func TestRenewalInterval(t *testing.T) {
	for e := range 31 {
		assert.Equal(t, uint64(1)<<e, RenewalInterval(e), "exponent %d", e)
		p := LocationSpecificPart{RenewalIntervalExponent: e}
		assert.Equal(t, uint64(1)<<e, p.RenewalInterval(), "exponent %d", e)
	}
	assert.Zero(t, RenewalInterval(NoRenewal))
	assert.Zero(t, LocationSpecificPart{RenewalIntervalExponent: NoRenewal}.RenewalInterval())
}

func TestBuilderCountryCodeFollowsProtocol(t *testing.T) {
	p, err := NewBuilder().VenueType(4).PeriodDuration(3).Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultCountryCode, p.CountryCode)

	p, err = NewBuilder().Protocol(ProtocolReserved).VenueType(4).PeriodDuration(3).Build()
	require.NoError(t, err)
	assert.Equal(t, 0, p.CountryCode)

	priv, _ := ecies.GenerateKey(rand.Reader)
	b, err := NewEncoder(nil, priv.Public(), WithProtocol(ProtocolReserved)).
		Encode(p.WithPeriod(periodKeys(t)).WithQRValidityStart(periodStart))
	require.NoError(t, err)
	assert.Len(t, b, Size)

	_, err = NewBuilder().Protocol(ProtocolReserved).CountryCode(33).Build()
	require.Error(t, err)
	assert.Equal(t, "reserved", errors.Violations(err)[0].Constraint)

	p, err = NewBuilder().CountryCode(0).Build()
	require.NoError(t, err)
	assert.Equal(t, 0, p.CountryCode)

	assert.Equal(t, DefaultCountryCode, DefaultCountryCodeFor(ProtocolCountryCode))
	assert.Equal(t, 0, DefaultCountryCodeFor(ProtocolReserved))
}

func TestValidateStatic(t *testing.T) {
	p, err := NewBuilder().VenueType(4).Build()
	require.NoError(t, err)

	assert.NoError(t, ValidateStatic(p, ProtocolCountryCode))
	err = ValidateStatic(p, ProtocolReserved)
	assert.True(t, errors.IsValidation(err))

	p.PeriodDuration = 300
	err = ValidateStatic(p, ProtocolCountryCode)
	require.Error(t, err)
	assert.Equal(t, "PeriodDuration", errors.Violations(err)[0].Field)
}

func TestDecodeWrongKey(t *testing.T) {
	other, _ := ecies.GenerateKey(rand.Reader)

	_, err := NewDecoder(nil, other).Decode(mustHex(t, vectorLSP))
	assert.True(t, errors.IsAuthentication(err))
}

func TestEncodeValidation(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)
	enc := NewEncoder(nil, priv.Public())

	tests := []struct {
		name       string
		mutate     func(*LocationSpecificPart)
		field      string
		constraint string
	}{
		{"version out of range", func(p *LocationSpecificPart) { p.Version = 9 }, "Version", "lte"},
		{"version too wide", func(p *LocationSpecificPart) { p.Version = 8 }, "Version", "wire_width"},
		{"type too wide", func(p *LocationSpecificPart) { p.Type = 8 }, "Type", "wire_width"},
		{"country code too wide", func(p *LocationSpecificPart) { p.CountryCode = 4096 }, "CountryCode", "wire_width"},
		{"country code out of range", func(p *LocationSpecificPart) { p.CountryCode = 5000 }, "CountryCode", "lte"},
		{"renewal too wide", func(p *LocationSpecificPart) { p.RenewalIntervalExponent = 32 }, "RenewalIntervalExponent", "wire_width"},
		{"venue type too wide", func(p *LocationSpecificPart) { p.VenueType = 32 }, "VenueType", "wire_width"},
		{"category1 too wide", func(p *LocationSpecificPart) { p.VenueCategory1 = 16 }, "VenueCategory1", "wire_width"},
		{"category2 negative", func(p *LocationSpecificPart) { p.VenueCategory2 = -1 }, "VenueCategory2", "gte"},
		{"duration out of range", func(p *LocationSpecificPart) { p.PeriodDuration = 256 }, "PeriodDuration", "lte"},
		{"compressed start too wide", func(p *LocationSpecificPart) { p.CompressedPeriodStart = 1 << 24 }, "CompressedPeriodStart", "wire_width"},
		{"missing validity start", func(p *LocationSpecificPart) { p.QRValidityStart = 0 }, "QRValidityStart", "required"},
		{"missing LTKey", func(p *LocationSpecificPart) { p.TemporarySecretKey = nil }, "TemporarySecretKey", "required"},
		{"short LTKey", func(p *LocationSpecificPart) { p.TemporarySecretKey = make([]byte, 16) }, "TemporarySecretKey", "len"},
		{"short contact", func(p *LocationSpecificPart) { p.EncryptedContact = make([]byte, 64) }, "EncryptedContact", "len"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := vectorPart(t)
			tt.mutate(&p)

			_, err := enc.Encode(p)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))

			violations := errors.Violations(err)
			require.Len(t, violations, 1, "%v", violations)
			assert.Equal(t, tt.field, violations[0].Field)
			assert.Equal(t, tt.constraint, violations[0].Constraint)
		})
	}
}

func TestEncodeReportsEveryViolation(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)

	p := vectorPart(t)
	p.Version = 8
	p.VenueType = 40
	p.TemporarySecretKey = nil

	_, err := NewEncoder(nil, priv.Public()).Encode(p)
	require.Error(t, err)
	assert.Len(t, errors.Violations(err), 3)
}

func TestEncodeWithoutRecipient(t *testing.T) {
	_, err := NewEncoder(nil, nil).Encode(vectorPart(t))
	assert.True(t, errors.IsKey(err))
}

func TestReservedProtocol(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)

	enc := NewEncoder(nil, priv.Public(), WithProtocol(ProtocolReserved))
	assert.Equal(t, ProtocolReserved, enc.Protocol())

	_, err := enc.Encode(vectorPart(t))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "reserved", errors.Violations(err)[0].Constraint)

	p := vectorPart(t)
	p.CountryCode = 0
	b, err := enc.Encode(p)
	require.NoError(t, err)

	got, err := NewDecoder(nil, priv, WithProtocol(ProtocolReserved)).Decode(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// a country code on the wire is rejected by a reserved decoder
	_, err = NewDecoder(nil, serverKey(t), WithProtocol(ProtocolReserved)).Decode(mustHex(t, vectorLSP))
	assert.True(t, errors.Is(err, ErrReservedField))
	assert.True(t, errors.IsFormat(err))
}

func TestDecodeValidation(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)

	p := vectorPart(t)
	b, err := NewEncoder(nil, priv.Public()).Encode(p)
	require.NoError(t, err)

	got, err := NewDecoder(nil, priv, WithDecodeValidation(true)).Decode(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeContactLengthMismatch(t *testing.T) {
	priv, _ := ecies.GenerateKey(rand.Reader)
	engine := ecies.NewEngine()

	p := vectorPart(t)
	header := packHeader(p)

	// contact flag set, nothing appended
	p.EncryptedContact = make([]byte, ContactSize)
	msg := packMessage(p, ProtocolCountryCode)
	b, err := engine.Encrypt(header, msg, priv.Public())
	require.NoError(t, err)

	_, err = NewDecoder(engine, priv).Decode(b)
	assert.True(t, errors.Is(err, ErrContactLength))

	// contact flag clear, bytes appended
	p.EncryptedContact = nil
	msg = append(packMessage(p, ProtocolCountryCode), make([]byte, ContactSize)...)
	b, err = engine.Encrypt(header, msg, priv.Public())
	require.NoError(t, err)

	_, err = NewDecoder(engine, priv).Decode(b)
	assert.True(t, errors.Is(err, ErrContactLength))
}

func TestPackMessageLayout(t *testing.T) {
	p := vectorPart(t).WithEncryptedContact(make([]byte, ContactSize))

	msg := packMessage(p, ProtocolCountryCode)
	assert.Equal(t, "c084441203102f48e398e488"+vectorLTKey, hex.EncodeToString(msg))

	header := packHeader(p)
	assert.Equal(t, "00fd8ceb027d3e3c4e8c88f129944855ce", hex.EncodeToString(header))
}
