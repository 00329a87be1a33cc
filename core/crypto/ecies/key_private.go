package ecies

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"crypto/subtle"
	"io"
	"math/big"
	"strings"
)

// PrivateKey represents a P-256 private scalar wrapping an ECDH private key.
type PrivateKey struct {
	publicKey *PublicKey
	key       *ecdh.PrivateKey
}

// Public returns the public key corresponding to this private key.
func (priv *PrivateKey) Public() *PublicKey {
	return priv.publicKey
}

// Bytes returns the 32-byte big-endian scalar, or nil once destroyed.
func (priv *PrivateKey) Bytes() []byte {
	if priv.key == nil {
		return nil
	}
	return priv.key.Bytes()
}

// Hex returns the scalar as lowercase hexadecimal without leading zeros,
// the big-integer form exchanged with other implementations.
func (priv *PrivateKey) Hex() string {
	b := priv.Bytes()
	if b == nil {
		return ""
	}
	return new(big.Int).SetBytes(b).Text(16)
}

// ECDH returns the affine X coordinate of the shared point with publicKey.
func (priv *PrivateKey) ECDH(publicKey *PublicKey) ([]byte, error) {
	if priv.key == nil {
		return nil, ErrPrivateKeyEmpty
	}
	if publicKey == nil || publicKey.key == nil {
		return nil, ErrPublicKeyEmpty
	}
	return priv.key.ECDH(publicKey.key)
}

// Equals compares two private keys using constant-time comparison
// to resist timing attacks.
func (priv *PrivateKey) Equals(other *PrivateKey) bool {
	if priv == nil || other == nil {
		return priv == other
	}
	if priv.key == nil || other.key == nil {
		return priv.key == other.key
	}
	return subtle.ConstantTimeCompare(priv.key.Bytes(), other.key.Bytes()) == 1
}

// Destroy drops the key material. The key must not be used afterwards.
// crypto/ecdh offers no way to zero its internal copy; dropping the
// reference lets the GC reclaim it.
func (priv *PrivateKey) Destroy() {
	priv.key = nil
}

// NewPrivateKey builds a private key from a 32-byte big-endian scalar.
func NewPrivateKey(scalar []byte) (*PrivateKey, error) {
	key, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, ErrInvalidPrivateKey.WithCause(err)
	}
	return fromECDH(key), nil
}

// ParsePrivateKeyHex parses a scalar written as a hexadecimal big integer.
// Leading zeros may be present or omitted; the value must lie in [1, n-1].
func ParsePrivateKeyHex(s string) (*PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, ErrPrivateKeyEmpty
	}

	d, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, ErrInvalidPrivateKey.WithMetadata(map[string]string{"reason": "not hexadecimal"})
	}
	if d.Sign() <= 0 || d.Cmp(elliptic.P256().Params().N) >= 0 {
		return nil, ErrInvalidPrivateKey.WithMetadata(map[string]string{"reason": "scalar out of range"})
	}

	return NewPrivateKey(d.FillBytes(make([]byte, CurvePointSize)))
}

// GenerateKey generates a new key pair on P-256.
func GenerateKey(random io.Reader) (*PrivateKey, error) {
	key, err := ecdh.P256().GenerateKey(random)
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}
	return fromECDH(key), nil
}

// GenerateKeyPair returns a fresh key pair as (private scalar hex,
// compressed public key hex).
func GenerateKeyPair(random io.Reader) (privateHex, publicHex string, err error) {
	key, err := GenerateKey(random)
	if err != nil {
		return "", "", err
	}
	defer key.Destroy()

	return key.Hex(), key.Public().Hex(true), nil
}

func fromECDH(key *ecdh.PrivateKey) *PrivateKey {
	return &PrivateKey{
		publicKey: &PublicKey{key: key.PublicKey()},
		key:       key,
	}
}
