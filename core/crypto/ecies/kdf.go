package ecies

import (
	"crypto/sha256"
	"encoding/binary"
)

// deriveKey implements KDF1 from ISO 18033-2 with SHA-256:
//
//	K = SHA256(C0 || Z || I2OSP(0, 4)) || SHA256(C0 || Z || I2OSP(1, 4)) || ...
//
// truncated to length bytes. An AES-256 key needs a single round.
func deriveKey(ephemeralKey, sharedSecret []byte, length int) []byte {
	out := make([]byte, 0, length+sha256.Size)
	var counter [4]byte

	for i := uint32(0); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)

		h := sha256.New()
		h.Write(ephemeralKey)
		h.Write(sharedSecret)
		h.Write(counter[:])
		out = h.Sum(out)
	}

	return out[:length]
}
