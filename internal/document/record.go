package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// idField is the record key Home Assistant uses as a stable identifier in
// automations.yaml and scenes.yaml.
const idField = "id"

// Record is one entry of a combined configuration file: an untyped
// key-value mapping with no schema. The underlying node is never mutated.
type Record struct {
	node *yaml.Node
}

// LoadRecord reads a file holding a single record, e.g. one split entry
// like automations/bathroom_presence.yaml.
func LoadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified entry file
	if err != nil {
		return Record{}, fmt.Errorf("reading record: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Record{}, &ParseError{Path: path, Err: err}
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		return Record{}, &ParseError{Path: path, Err: fmt.Errorf("file is empty")}
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return Record{}, &ParseError{
			Path: path,
			Err:  fmt.Errorf("top-level value is a %s, expected a mapping", kindName(top.Kind)),
		}
	}

	if hasRefs(top) {
		resolved, err := flatten(top, map[*yaml.Node]bool{})
		if err != nil {
			return Record{}, &ParseError{Path: path, Err: err}
		}

		top = resolved
	}

	return Record{node: top}, nil
}

// Field returns the value node for key, or nil when the key is absent or
// the record is not a mapping.
func (r Record) Field(key string) *yaml.Node {
	if r.node == nil || r.node.Kind != yaml.MappingNode {
		return nil
	}

	// Mapping content alternates key, value.
	for i := 0; i+1 < len(r.node.Content); i += 2 {
		if r.node.Content[i].Value == key {
			return r.node.Content[i+1]
		}
	}

	return nil
}

// Name extracts the record's human-readable name from field. A missing
// field or null value degrades to the empty string. Scalar values coerce
// to their string form (numbers and booleans included). Mappings and
// sequences cannot name a record and yield a *FieldTypeError.
func (r Record) Name(field string) (string, error) {
	n := r.Field(field)
	if n == nil {
		return "", nil
	}

	if n.Kind == yaml.ScalarNode {
		if n.Tag == nullTag {
			return "", nil
		}

		return n.Value, nil
	}

	return "", &FieldTypeError{Field: field, Kind: kindName(n.Kind)}
}

// ID returns the record's id field as a string, or empty when absent or
// not a scalar.
func (r Record) ID() string {
	n := r.Field(idField)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == nullTag {
		return ""
	}

	return n.Value
}

// Encode serializes the record alone as a standalone YAML document,
// preserving key order and scalar formatting from the source.
func (r Record) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(r.node); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return buf.Bytes(), nil
}
