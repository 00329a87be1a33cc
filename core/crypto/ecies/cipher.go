package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"io"
	"strconv"
)

// Engine seals and opens messages. It holds no mutable state and is safe
// for concurrent use; each Encrypt draws a fresh ephemeral key from its
// randomness source.
type Engine struct {
	random io.Reader
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the entropy source for ephemeral keys.
// It must be cryptographically secure.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

// NewEngine creates an engine reading entropy from crypto/rand by default.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{random: rand.Reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encrypt seals plaintext for the recipient.
//
// The encryption process:
// 1. Generate an ephemeral key pair r, C0 = compressed r·G
// 2. Compute the shared X coordinate of r·Q
// 3. Derive the AES key with KDF1-SHA256 over C0 || X
// 4. Seal with AES-256-GCM under the fixed IV, authenticating aad
// 5. Return: [aad || ciphertext || tag || C0]
//
// A nil aad means no associated data.
func (e *Engine) Encrypt(aad, plaintext []byte, recipient *PublicKey) ([]byte, error) {
	if recipient == nil || recipient.key == nil {
		return nil, ErrPublicKeyEmpty
	}

	ephemeral, err := ecdh.P256().GenerateKey(e.random)
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	return seal(ephemeral, aad, plaintext, recipient.key)
}

// seal performs the encryption with a caller-supplied ephemeral key.
func seal(ephemeral *ecdh.PrivateKey, aad, plaintext []byte, recipient *ecdh.PublicKey) ([]byte, error) {
	c0 := compressPoint(ephemeral.PublicKey().Bytes())

	// crypto/ecdh returns the affine X coordinate of the shared point
	sharedX, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	aead, err := newAEAD(deriveKey(c0, sharedX, AESKeySize))
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	out := make([]byte, 0, len(aad)+len(plaintext)+Overhead)
	out = append(out, aad...)
	out = aead.Seal(out, FixedIV[:], plaintext, aad)
	out = append(out, c0...)

	return out, nil
}

// Decrypt opens data sealed by Encrypt.
//
// When hasAAD is set the first HeaderSize bytes are treated as associated
// data. The result mirrors the sealed layout: [aad || plaintext].
//
// Every failure after the length check yields ErrAuthentication, so a
// rejected ephemeral key cannot be told apart from a forged tag.
func (e *Engine) Decrypt(data []byte, recipient *PrivateKey, hasAAD bool) ([]byte, error) {
	if recipient == nil || recipient.key == nil {
		return nil, ErrPrivateKeyEmpty
	}

	aadSize := 0
	if hasAAD {
		aadSize = HeaderSize
	}

	if len(data) < aadSize+Overhead {
		return nil, ErrCiphertextTooShort.WithMetadata(map[string]string{
			"length": strconv.Itoa(len(data)),
			"min":    strconv.Itoa(aadSize + Overhead),
		})
	}

	split := len(data) - EphemeralKeySize
	c0 := data[split:]
	aad := data[:aadSize]

	ephemeral, err := parsePoint(c0)
	if err != nil {
		return nil, ErrAuthentication
	}

	sharedX, err := recipient.key.ECDH(ephemeral)
	if err != nil {
		return nil, ErrAuthentication
	}

	aead, err := newAEAD(deriveKey(c0, sharedX, AESKeySize))
	if err != nil {
		return nil, ErrAuthentication
	}

	out := make([]byte, aadSize, split-TagSize)
	copy(out, aad)

	out, err = aead.Open(out, FixedIV[:], data[aadSize:split], aad)
	if err != nil {
		return nil, ErrAuthentication
	}

	return out, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
