package errors

// Error kinds raised by the codec. Each kind is a distinct code so callers
// can branch on Code(err) or the Is* predicates instead of string matching.
const (
	// FormatCode marks malformed input: short buffers, non-zero pad bits, bad base64.
	FormatCode = 400
	// AuthenticationCode marks an AEAD tag or ephemeral key that did not verify.
	AuthenticationCode = 401
	// KeyCode marks malformed hex keys and points that are not on the curve.
	KeyCode = 403
	// ValidationCode marks field values outside their declared range.
	ValidationCode = 422
)

// Format creates a FormatError.
func Format(format string, args ...any) *Error {
	return New(FormatCode, format, args...)
}

// Authentication creates an AuthenticationFailure.
func Authentication(format string, args ...any) *Error {
	return New(AuthenticationCode, format, args...)
}

// Key creates a KeyError.
func Key(format string, args ...any) *Error {
	return New(KeyCode, format, args...)
}

// Validation creates a ValidationError carrying every violated constraint.
func Validation(message string, violations ...Violation) *Error {
	return New(ValidationCode, "%s", message).WithViolations(violations...)
}

// Internal creates an error for failures that are not caused by the input.
func Internal(format string, args ...any) *Error {
	return New(UnknownCode, format, args...)
}

// Code returns the kind code of err, or UnknownCode for foreign errors and 0 for nil.
func Code(err error) int {
	if err == nil {
		return 0
	}
	return FromError(err).Code
}

// Violations returns the violations carried by err, if any.
func Violations(err error) []Violation {
	var ge *Error
	if As(err, &ge) {
		return ge.GetViolations()
	}
	return nil
}

func IsFormat(err error) bool {
	return hasCode(err, FormatCode)
}

func IsAuthentication(err error) bool {
	return hasCode(err, AuthenticationCode)
}

func IsKey(err error) bool {
	return hasCode(err, KeyCode)
}

func IsValidation(err error) bool {
	return hasCode(err, ValidationCode)
}

func hasCode(err error, code int) bool {
	var ge *Error
	return As(err, &ge) && ge.Code == code
}
