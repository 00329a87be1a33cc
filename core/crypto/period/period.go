// Package period derives the per-period location keys.
//
// A venue rotates its temporary keys at every period start:
//
//	LTKey = SHA256(BE32(periodStart) || permanentSecret)
//	LTId  = HMAC-SHA256(LTKey, "1")[:16] with UUID version 3 and RFC 4122 variant bits
//
// periodStart is an NTP timestamp truncated to 32 bits.
package period

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"

	"github.com/kochabx/clea/errors"
)

// KeySize is the size of the temporary location secret key.
const KeySize = sha256.Size

// ErrPermanentKeyEmpty is returned by Derive for a missing permanent secret.
var ErrPermanentKeyEmpty = errors.Key("period: permanent location secret key is empty")

// Keys bundles the secrets of one period.
type Keys struct {
	PeriodStart        uint32
	TemporarySecretKey [KeySize]byte
	TemporaryPublicID  uuid.UUID
}

// Derive computes both period keys for periodStart.
func Derive(permanent []byte, periodStart uint32) (Keys, error) {
	if len(permanent) == 0 {
		return Keys{}, ErrPermanentKeyEmpty.WithMetadata(map[string]string{
			"period_start": strconv.FormatUint(uint64(periodStart), 10),
		})
	}

	ltKey := TemporarySecretKey(permanent, periodStart)
	return Keys{
		PeriodStart:        periodStart,
		TemporarySecretKey: ltKey,
		TemporaryPublicID:  TemporaryPublicID(ltKey),
	}, nil
}

// TemporarySecretKey returns SHA256(BE32(periodStart) || permanent).
func TemporarySecretKey(permanent []byte, periodStart uint32) [KeySize]byte {
	h := sha256.New()

	var ps [4]byte
	binary.BigEndian.PutUint32(ps[:], periodStart)
	h.Write(ps[:])
	h.Write(permanent)

	var out [KeySize]byte
	h.Sum(out[:0])
	return out
}

// TemporaryPublicID returns the first 16 bytes of HMAC-SHA256(ltKey, "1")
// stamped as a name-based (version 3) RFC 4122 UUID.
func TemporaryPublicID(ltKey [KeySize]byte) uuid.UUID {
	mac := hmac.New(sha256.New, ltKey[:])
	mac.Write([]byte("1"))
	sum := mac.Sum(nil)

	var id uuid.UUID
	copy(id[:], sum)
	id[6] = id[6]&0x0F | 0x30
	id[8] = id[8]&0x3F | 0x80
	return id
}
