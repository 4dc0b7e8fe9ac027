package registry

import "fmt"

// ParseError reports a .storage or config file whose contents could not
// be decoded. I/O failures are plain wrapped errors, distinguishable from
// parse failures by type.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
