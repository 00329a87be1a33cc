package contact

import "github.com/kochabx/clea/errors"

var (
	// ErrInvalidLength is returned when a packed message is not Size bytes.
	ErrInvalidLength = errors.Format("contact: invalid message length")

	// ErrNonZeroPad is returned when the pad nibble after the phone is set.
	ErrNonZeroPad = errors.Format("contact: non-zero padding")

	// ErrInvalidDigit is returned for a phone or PIN nibble that is not a decimal digit.
	ErrInvalidDigit = errors.Format("contact: invalid digit")
)
