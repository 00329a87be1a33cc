package ecies

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// PublicKey represents a P-256 point wrapping an ECDH public key.
type PublicKey struct {
	key *ecdh.PublicKey
}

// Bytes returns the public key in encoded format.
// If compressed is true, returns 33 bytes (0x02/0x03 + X).
// If compressed is false, returns 65 bytes (0x04 + X + Y).
func (pub *PublicKey) Bytes(compressed bool) []byte {
	if pub.key == nil {
		return nil
	}
	if compressed {
		return compressPoint(pub.key.Bytes())
	}
	return pub.key.Bytes()
}

// Hex returns the public key in hexadecimal encoding.
func (pub *PublicKey) Hex(compressed bool) string {
	return hex.EncodeToString(pub.Bytes(compressed))
}

// Equals compares two public keys using constant-time comparison.
func (pub *PublicKey) Equals(other *PublicKey) bool {
	if pub == nil || other == nil {
		return pub == other
	}
	if pub.key == nil || other.key == nil {
		return false
	}
	return subtle.ConstantTimeCompare(pub.key.Bytes(), other.key.Bytes()) == 1
}

// NewPublicKey parses a SEC1 point, compressed (33 bytes) or uncompressed (65 bytes).
func NewPublicKey(b []byte) (*PublicKey, error) {
	key, err := parsePoint(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{key: key}, nil
}

// ParsePublicKeyHex parses a hex-encoded SEC1 point. Keys produced by other
// implementations are often uncompressed, so both forms are accepted.
func ParsePublicKeyHex(s string) (*PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrPublicKeyEmpty
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidPublicKey.WithCause(err)
	}

	return NewPublicKey(b)
}

// parsePoint validates a SEC1 encoding and returns the ECDH key.
func parsePoint(b []byte) (*ecdh.PublicKey, error) {
	switch {
	case len(b) == EphemeralKeySize && (b[0] == CompressedEvenTag || b[0] == CompressedOddTag):
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), b)
		if x == nil {
			return nil, ErrKeyNotOnCurve
		}
		uncompressed := make([]byte, PublicKeyBytes)
		uncompressed[0] = UncompressedPointTag
		x.FillBytes(uncompressed[1 : 1+CurvePointSize])
		y.FillBytes(uncompressed[1+CurvePointSize:])
		b = uncompressed

	case len(b) == PublicKeyBytes && b[0] == UncompressedPointTag:

	default:
		return nil, ErrInvalidPublicKey.WithMetadata(map[string]string{"reason": "unsupported point encoding"})
	}

	key, err := ecdh.P256().NewPublicKey(b)
	if err != nil {
		return nil, ErrKeyNotOnCurve.WithCause(err)
	}
	return key, nil
}

// compressPoint converts a 65-byte uncompressed point to its 33-byte form.
func compressPoint(uncompressed []byte) []byte {
	out := make([]byte, EphemeralKeySize)
	out[0] = CompressedEvenTag | uncompressed[PublicKeyBytes-1]&1
	copy(out[1:], uncompressed[1:1+CurvePointSize])
	return out
}
