package ecies

import "github.com/kochabx/clea/errors"

// Key-related errors
var (
	// ErrInvalidPrivateKey indicates that the private key is malformed or out of range
	ErrInvalidPrivateKey = errors.Key("ecies: invalid private key")

	// ErrInvalidPublicKey indicates that the public key encoding is malformed
	ErrInvalidPublicKey = errors.Key("ecies: invalid public key")

	// ErrPrivateKeyEmpty indicates that the private key is nil or destroyed
	ErrPrivateKeyEmpty = errors.Key("ecies: private key is empty")

	// ErrPublicKeyEmpty indicates that the public key is nil
	ErrPublicKeyEmpty = errors.Key("ecies: public key is empty")

	// ErrKeyNotOnCurve indicates that the public key point is not on the curve
	ErrKeyNotOnCurve = errors.Key("ecies: public key point not on curve")
)

// Encryption/Decryption errors
var (
	// ErrEncryptionFailed indicates a failure of the randomness source or cipher setup
	ErrEncryptionFailed = errors.Internal("ecies: encryption failed")

	// ErrCiphertextTooShort indicates that the input cannot hold a tag and an ephemeral key
	ErrCiphertextTooShort = errors.Format("ecies: ciphertext too short")

	// ErrAuthentication is returned for every decryption failure past the length
	// check, whether the ephemeral key or the tag was rejected.
	ErrAuthentication = errors.Authentication("ecies: message authentication failed")
)
