/*
PURPOSE:
  Raw dataset values: the input shape consumed by the Tree Builder.
  A dataset is a nested structure of mappings, sequences and scalars.

REQUIREMENTS:
  User-specified:
  - Accept arbitrary nested mapping/sequence/scalar data.
  - Mapping order must be preserved (it becomes the tree order).

  Implementation-discovered:
  - Go maps are unordered, so Mapping is an ordered slice of entries.
  - The union is sealed (unexported marker method) so the builder can
    switch over it exhaustively.

ARCHITECTURE INTEGRATION:
  - Produced by: Decode (decode.go), FromAny, tests.
  - Consumed by: Builder (builder.go).

ERROR HANDLING:
  - FromAny rejects unsupported Go types with ErrMalformedDataset.

IMPLEMENTATION RULES:
  - Exactly three variants: Mapping, Sequence, Scalar.

USAGE:
  v := tree.Mapping{{Key: "root", Value: tree.Mapping{{Key: "leaf", Value: tree.Mapping{}}}}}

RELATED FILES:
  - internal/tree/builder.go
  - internal/tree/decode.go
*/

package tree

import (
	"fmt"
	"sort"
	"strconv"
)

// Value is one of Mapping, Sequence or Scalar.
type Value interface {
	isValue()
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping is an ordered key/value collection.
type Mapping []Entry

// Sequence is an ordered list of values.
type Sequence []Value

// Scalar is a leaf value held in its string representation.
type Scalar struct {
	Text string
}

func (Mapping) isValue()  {}
func (Sequence) isValue() {}
func (Scalar) isValue()   {}

// FromAny converts already-decoded Go data (as produced by encoding/json or
// yaml.Unmarshal into interface{}) into a Value. Map keys are sorted since
// Go maps carry no order; use Decode when source order matters.
func FromAny(v any) (Value, error) {
	return fromAny(v, 0, DefaultMaxDepth)
}

func fromAny(v any, depth, limit int) (Value, error) {
	if depth > limit {
		return nil, tooDeep(depth, limit)
	}
	switch x := v.(type) {
	case nil:
		return Sequence{}, nil
	case Value:
		return x, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := make(Mapping, 0, len(keys))
		for _, k := range keys {
			child, err := fromAny(x[k], depth+1, limit)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: child})
		}
		return m, nil
	case []any:
		s := make(Sequence, 0, len(x))
		for _, item := range x {
			child, err := fromAny(item, depth+1, limit)
			if err != nil {
				return nil, err
			}
			s = append(s, child)
		}
		return s, nil
	case string:
		return Scalar{Text: x}, nil
	case bool:
		return Scalar{Text: strconv.FormatBool(x)}, nil
	case int:
		return Scalar{Text: strconv.Itoa(x)}, nil
	case int64:
		return Scalar{Text: strconv.FormatInt(x, 10)}, nil
	case float64:
		return Scalar{Text: strconv.FormatFloat(x, 'g', -1, 64)}, nil
	case fmt.Stringer:
		return Scalar{Text: x.String()}, nil
	default:
		return nil, &MalformedDatasetError{Depth: depth, Reason: fmt.Sprintf("unsupported value type %T", v)}
	}
}
