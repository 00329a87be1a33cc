package tag

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrTargetMustBePointer = errors.New("tag: target must be a pointer to a struct")
	ErrTargetIsNil         = errors.New("tag: target pointer is nil")
	ErrUnsupportedType     = errors.New("tag: target does not point to a struct")
	ErrMaxDepthExceeded    = errors.New("tag: struct nesting exceeds the maximum depth")
)

// FieldError reports a default value that could not be parsed into its field.
type FieldError struct {
	Path  string
	Kind  reflect.Kind
	Tag   string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag: %s: cannot use %s:%q as %s: %v", e.Path, e.Tag, e.Value, e.Kind, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
