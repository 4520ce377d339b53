/*
PURPOSE:
  Decodes dataset files (YAML or JSON) into raw Values without losing
  mapping order.

REQUIREMENTS:
  User-specified:
  - Datasets are nested structures decoded from a configuration file.
  - Insertion order of keys is the tree order.

  Implementation-discovered:
  - Unmarshalling into map[string]any loses order, so we walk yaml.Node.
  - YAML is a superset of JSON, one decoder covers both formats.
  - Aliases can point back at their own anchor; the depth guard rejects that.
  - Nested aliases can expand a small file exponentially; the number of
    decoded values is capped relative to the input size.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Catalog), tests.
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Syntax errors and depth overflow surface as *MalformedDatasetError.
  - LoadFile wraps read errors with the path.

USAGE:
  v, err := tree.Decode(data)
  v, err := tree.LoadFile("data/taxonomy.yaml", 0)

RELATED FILES:
  - internal/tree/value.go
*/

package tree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode parses YAML or JSON with the default depth limit.
func Decode(data []byte) (Value, error) {
	return DecodeLimit(data, DefaultMaxDepth)
}

// DecodeLimit parses YAML or JSON, failing once nesting exceeds limit.
func DecodeLimit(data []byte, limit int) (Value, error) {
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedDatasetError{Reason: err.Error()}
	}
	d := &decoder{limit: limit, budget: nodeBudget(len(data))}
	return d.value(&doc, 0)
}

// Alias expansion may repeat a subtree many times over. The number of
// values produced is capped relative to the input size.
const (
	minNodeBudget = 10000
	nodesPerByte  = 16
)

func nodeBudget(size int) int {
	return minNodeBudget + nodesPerByte*size
}

type decoder struct {
	limit    int
	budget   int
	produced int
}

// LoadFile reads and decodes a dataset file.
func LoadFile(path string, limit int) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	v, err := DecodeLimit(data, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}
	return v, nil
}

func (d *decoder) value(n *yaml.Node, depth int) (Value, error) {
	if depth > d.limit {
		return nil, tooDeep(depth, d.limit)
	}
	d.produced++
	if d.produced > d.budget {
		return nil, &MalformedDatasetError{
			Depth:  depth,
			Reason: fmt.Sprintf("alias expansion exceeds %d values", d.budget),
		}
	}

	switch n.Kind {
	case 0:
		// Empty document.
		return Sequence{}, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Sequence{}, nil
		}
		return d.value(n.Content[0], depth)
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, &MalformedDatasetError{
					Depth:  depth,
					Reason: fmt.Sprintf("non-scalar mapping key at line %d", key.Line),
				}
			}
			child, err := d.value(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: key.Value, Value: child})
		}
		return m, nil
	case yaml.SequenceNode:
		s := make(Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := d.value(item, depth+1)
			if err != nil {
				return nil, err
			}
			s = append(s, child)
		}
		return s, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return Sequence{}, nil
		}
		return Scalar{Text: n.Value}, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, &MalformedDatasetError{Depth: depth, Reason: "dangling alias " + n.Value}
		}
		return d.value(n.Alias, depth+1)
	default:
		return nil, &MalformedDatasetError{Depth: depth, Reason: fmt.Sprintf("unsupported node kind %d", n.Kind)}
	}
}
