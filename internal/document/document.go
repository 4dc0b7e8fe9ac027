// Package document models Home Assistant combined configuration files:
// YAML documents whose top-level value is a sequence of records, such as
// automations.yaml, scenes.yaml, and scripts.yaml.
//
// Records are kept as yaml.Node trees rather than decoded maps so that
// key order, scalar formatting, and nested structure survive a split and
// re-serialize verbatim.
package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is an ordered sequence of records read from one source file.
type Document struct {
	// Path is the source file the document was loaded from. Empty for
	// documents parsed from raw bytes.
	Path string

	// Records are the top-level sequence entries in source order.
	Records []Record
}

// Load reads and parses a combined configuration file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-specified source file
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return Parse(path, data)
}

// Parse parses data as a top-level YAML sequence. The path is used only
// for error context. An empty or explicitly null document parses to zero
// records.
func Parse(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	// Empty input (or comments only) leaves the root node zero-valued.
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Document{Path: path}, nil
	}

	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == nullTag {
		return &Document{Path: path}, nil
	}

	if top.Kind != yaml.SequenceNode {
		return nil, &ParseError{
			Path: path,
			Err:  fmt.Errorf("top-level value is a %s, expected a sequence", kindName(top.Kind)),
		}
	}

	records := make([]Record, 0, len(top.Content))

	for _, n := range top.Content {
		if hasRefs(n) {
			resolved, err := flatten(n, map[*yaml.Node]bool{})
			if err != nil {
				return nil, &ParseError{Path: path, Err: err}
			}

			n = resolved
		}

		records = append(records, Record{node: n})
	}

	return &Document{Path: path, Records: records}, nil
}

// hasRefs reports whether the tree under n carries anchors or aliases.
func hasRefs(n *yaml.Node) bool {
	if n.Kind == yaml.AliasNode || n.Anchor != "" {
		return true
	}

	for _, child := range n.Content {
		if hasRefs(child) {
			return true
		}
	}

	return false
}

// flatten returns a copy of n with aliases resolved into their targets
// and anchors stripped. Records may alias nodes in sibling records, so
// each record must own a self-contained tree to serialize standalone;
// the reference and its target split into identical copies. The active
// set catches aliases that refer back into their own expansion.
func flatten(n *yaml.Node, active map[*yaml.Node]bool) (*yaml.Node, error) {
	if n.Kind == yaml.AliasNode {
		if n.Alias == nil {
			return nil, fmt.Errorf("unresolvable alias *%s", n.Value)
		}

		if active[n.Alias] {
			return nil, fmt.Errorf("alias *%s refers to itself", n.Value)
		}

		return flatten(n.Alias, active)
	}

	active[n] = true
	defer delete(active, n)

	resolved := *n
	resolved.Anchor = ""

	if len(n.Content) > 0 {
		resolved.Content = make([]*yaml.Node, len(n.Content))

		for i, child := range n.Content {
			fc, err := flatten(child, active)
			if err != nil {
				return nil, err
			}

			resolved.Content[i] = fc
		}
	}

	return &resolved, nil
}

// Save writes the document back as a top-level sequence, 2-space indented.
func (d *Document) Save(path string) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range d.Records {
		seq.Content = append(seq.Content, r.node)
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // config files are not secrets
		return fmt.Errorf("writing document: %w", err)
	}

	return nil
}

// kindName returns a human-readable name for a yaml.Node kind.
func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
