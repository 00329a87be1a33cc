// Package tag fills zero struct fields from `default:"…"` tags.
package tag

import (
	"reflect"
)

// Option configures ApplyDefaults.
type Option func(*walker)

// WithTagName sets the tag name to look for (default: "default")
func WithTagName(name string) Option {
	return func(w *walker) {
		w.tagName = name
	}
}

// WithMaxDepth sets the maximum struct nesting (default: 16)
func WithMaxDepth(depth int) Option {
	return func(w *walker) {
		w.maxDepth = depth
	}
}

// ApplyDefaults sets default values for zero struct fields based on struct
// tags. The target must be a non-nil pointer to a struct.
//
// Nested structs are walked. A nil pointer to a struct is left nil so that
// optional sections stay absent; a non-nil one is walked.
//
//	type Venue struct {
//	    CountryCode    int           `default:"33"`
//	    Renewal        time.Duration `default:"1h"`
//	    Contact        *Contact      // stays nil unless configured
//	}
func ApplyDefaults(target any, opts ...Option) error {
	w := &walker{tagName: "default", maxDepth: 16}
	for _, opt := range opts {
		opt(w)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer {
		return ErrTargetMustBePointer
	}
	if v.IsNil() {
		return ErrTargetIsNil
	}
	if v.Elem().Kind() != reflect.Struct {
		return ErrUnsupportedType
	}

	return w.walkStruct(v.Elem(), "", 0)
}

type walker struct {
	tagName  string
	maxDepth int
}

func (w *walker) walkStruct(v reflect.Value, path string, depth int) error {
	if depth >= w.maxDepth {
		return ErrMaxDepthExceeded
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		if err := w.walkField(fv, field.Tag.Get(w.tagName), fieldPath, depth); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkField(v reflect.Value, tagValue, path string, depth int) error {
	switch v.Kind() {
	case reflect.Struct:
		if tagValue != "" && v.IsZero() && isTextUnmarshaler(v) {
			return w.set(v, tagValue, path)
		}
		return w.walkStruct(v, path, depth+1)

	case reflect.Pointer:
		if v.IsNil() {
			if tagValue == "" || v.Type().Elem().Kind() == reflect.Struct {
				return nil
			}
			v.Set(reflect.New(v.Type().Elem()))
			return w.set(v.Elem(), tagValue, path)
		}
		if v.Elem().Kind() == reflect.Struct {
			return w.walkStruct(v.Elem(), path, depth+1)
		}
		return nil

	case reflect.Slice:
		if v.Len() > 0 {
			return w.walkElements(v, path, depth)
		}
	}

	if tagValue == "" || !v.IsZero() {
		return nil
	}
	return w.set(v, tagValue, path)
}

// walkElements fills defaults inside configured struct elements.
func (w *walker) walkElements(v reflect.Value, path string, depth int) error {
	for i := range v.Len() {
		elem := v.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			continue
		}
		if err := w.walkStruct(elem, path, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) set(v reflect.Value, tagValue, path string) error {
	if err := parse(v, tagValue); err != nil {
		return &FieldError{Path: path, Kind: v.Kind(), Tag: w.tagName, Value: tagValue, Err: err}
	}
	return nil
}
