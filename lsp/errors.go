package lsp

import "github.com/kochabx/clea/errors"

var (
	// ErrTooShort is returned for input that cannot hold a header, a message, a tag and an ephemeral key.
	ErrTooShort = errors.Format("lsp: message too short")

	// ErrNonZeroPad is returned when the header pad bits are set.
	ErrNonZeroPad = errors.Format("lsp: non-zero header padding")

	// ErrContactLength is returned when the decrypted payload disagrees with the contact flag.
	ErrContactLength = errors.Format("lsp: encrypted contact length mismatch")

	// ErrReservedField is returned when the reserved field is set under ProtocolReserved.
	ErrReservedField = errors.Format("lsp: reserved field is not zero")

	// ErrBase64 is returned for text that is not base64 in either alphabet.
	ErrBase64 = errors.Format("lsp: malformed base64")
)
