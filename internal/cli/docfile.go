package cli

import (
	"errors"

	"github.com/johnallen3d/home-assistant/internal/document"
	"github.com/johnallen3d/home-assistant/internal/kind"
	"github.com/johnallen3d/home-assistant/internal/registry"
)

// loadDocument reads and parses a combined configuration file, mapping
// failures to exit codes: parse failures exit 3, I/O failures exit 1.
func loadDocument(path string) (*document.Document, error) {
	doc, err := document.Load(path)
	if err != nil {
		var parseErr *document.ParseError
		if errors.As(err, &parseErr) {
			return nil, &ExitError{Code: exitParse, Err: err}
		}

		return nil, &ExitError{Code: exitRuntime, Err: err}
	}

	return doc, nil
}

// storageExitErr maps a registry package failure to an exit code the
// same way loadDocument does: parse failures exit 3, I/O failures exit 1.
func storageExitErr(err error) error {
	var parseErr *registry.ParseError
	if errors.As(err, &parseErr) {
		return &ExitError{Code: exitParse, Err: err}
	}

	return &ExitError{Code: exitRuntime, Err: err}
}

// resolveNameField picks the record name field: an explicit --name-field
// wins, otherwise the field registered for --kind.
func resolveNameField(kindName, nameField string) (string, error) {
	if nameField != "" {
		return nameField, nil
	}

	k, err := kind.DefaultRegistry().Lookup(kindName)
	if err != nil {
		return "", &ExitError{Code: exitUsage, Err: err}
	}

	return k.NameField, nil
}
