package ecies

// Curve parameters for NIST P-256 elliptic curve
const (
	// CurvePointSize is the size in bytes of each coordinate (X or Y) on the P-256 curve
	CurvePointSize = 32

	// Point compression prefixes
	UncompressedPointTag = 0x04 // Uncompressed point format: 0x04 || X || Y
	CompressedEvenTag    = 0x02 // Compressed point with even Y coordinate
	CompressedOddTag     = 0x03 // Compressed point with odd Y coordinate

	// PublicKeyBytes is the size of an uncompressed public key in bytes
	PublicKeyBytes = 1 + CurvePointSize + CurvePointSize // 65 bytes

	// EphemeralKeySize is the size of the compressed ephemeral key C0
	EphemeralKeySize = 1 + CurvePointSize // 33 bytes
)

// Encryption algorithm parameters
const (
	// AESKeySize is the size of the AES-256 symmetric key
	AESKeySize = 32

	// NonceSize is the size of the fixed GCM IV
	NonceSize = 12

	// TagSize is the size of the AES-GCM authentication tag
	TagSize = 16
)

// Message sizes of the location specific part protocol
const (
	// HeaderSize is the size of the clear header used as associated data
	HeaderSize = 17

	// MessageSize is the size of the packed location message
	MessageSize = 44

	// ContactMessageSize is the size of the packed location contact message
	ContactMessageSize = 16

	// Overhead is the number of bytes Encrypt adds around the plaintext
	Overhead = TagSize + EphemeralKeySize
)

// FixedIV is the constant GCM nonce F0 F1 ... FB.
var FixedIV = [NonceSize]byte{0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8, 0xF9, 0xFA, 0xFB}
