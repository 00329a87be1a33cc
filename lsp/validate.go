package lsp

import (
	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/errors"
)

// periodFields are bound per period by WithPeriod and WithQRValidityStart.
var periodFields = []string{"TemporarySecretKey", "QRValidityStart"}

// ValidateStatic checks the venue fields of p under protocol, leaving out
// the fields bound per period.
func ValidateStatic(p LocationSpecificPart, protocol Protocol) error {
	return validate(validator.Validate, p, protocol, periodFields...)
}

// validate checks declared ranges, wire widths and the protocol rule.
// except lists fields left out of the range check.
func validate(v validator.Validator, p LocationSpecificPart, protocol Protocol, except ...string) error {
	var err error
	if len(except) > 0 {
		err = v.StructExcept(p, except...)
	} else {
		err = v.Struct(p)
	}

	var violations []errors.Violation
	if err != nil {
		if !errors.IsValidation(err) {
			return err
		}
		violations = errors.Violations(err)
	}

	reported := make(map[string]bool, len(violations))
	for _, v := range violations {
		reported[v.Field] = true
	}
	violations = append(violations, wireViolations(p, reported)...)

	if protocol == ProtocolReserved && p.CountryCode != 0 && !reported["CountryCode"] {
		violations = append(violations, errors.Violation{
			Field:      "CountryCode",
			Constraint: "reserved",
			Message:    "CountryCode must be 0 under the reserved protocol",
		})
	}

	if len(violations) > 0 {
		return errors.Validation("lsp: invalid location specific part", violations...)
	}
	return nil
}
