package graph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout accepted by Load:
//
//	nodes: [lonely]
//	edges:
//	  - [source, hub]
//	  - [hub, tail, binds]
//	  - {source: hub, target: other, relation: binds}
type File struct {
	Nodes []string `yaml:"nodes"`
	Edges []Edge   `yaml:"edges"`
}

// UnmarshalYAML accepts an edge as a mapping or as a two or three element
// sequence of source, target and optional relation.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return err
		}

		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("line %d: edge needs source and target, got %d fields", value.Line, len(parts))
		}

		e.Source, e.Target = parts[0], parts[1]
		if len(parts) == 3 {
			e.Relation = parts[2]
		}

		return nil
	}

	type plain Edge

	return value.Decode((*plain)(e))
}

// Load reads a YAML graph description.
func Load(r io.Reader) (*Memory, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding graph: %w", err)
	}

	m := NewMemory()

	for _, id := range f.Nodes {
		if id == "" {
			return nil, errors.New("decoding graph: empty node id")
		}
		m.AddNode(id)
	}

	for i, e := range f.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("decoding graph: edge %d is missing an endpoint", i)
		}
		m.AddEdge(e.Source, e.Target, e.Relation)
	}

	return m, nil
}

// LoadFile reads a YAML graph description from path.
func LoadFile(path string) (*Memory, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the operator.
	if err != nil {
		return nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file.

	return Load(f)
}
