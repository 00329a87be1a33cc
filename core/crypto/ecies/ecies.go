// Package ecies implements the ECIES-KEM hybrid scheme used to seal
// location specific parts.
//
// The construction is fixed:
//   - NIST P-256 ephemeral-static ECDH (crypto/ecdh, constant time)
//   - KDF1-SHA256 over the compressed ephemeral point and the shared X coordinate
//   - AES-256-GCM with a 16-byte tag and a constant 96-bit IV
//
// The constant IV is safe only because every call derives a fresh AES key
// from a fresh ephemeral key pair. Never reuse an ephemeral key.
//
// Output layout:
//
//	[associated data] || ciphertext || tag(16) || C0(33)
//
// Example usage:
//
//	engine := ecies.NewEngine()
//
//	privateKey, err := ecies.GenerateKey(rand.Reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer privateKey.Destroy()
//
//	sealed, err := engine.Encrypt(header, message, privateKey.Public())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// opened == header || message
//	opened, err := engine.Decrypt(sealed, privateKey, true)
package ecies
