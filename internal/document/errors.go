package document

import "fmt"

// ParseError reports a source file that is not usable as a document: the
// bytes are not valid YAML, or the top-level value has the wrong shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing document: %v", e.Err)
	}

	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldTypeError reports a name field whose value cannot be coerced to a
// string, e.g. a nested mapping.
type FieldTypeError struct {
	Field string
	Kind  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q is a %s, expected a scalar", e.Field, e.Kind)
}
