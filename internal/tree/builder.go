/*
PURPOSE:
  Tree Builder. Converts a raw dataset Value into a tree of labeled Nodes.

REQUIREMENTS:
  User-specified:
  - Mapping: one child per key, in order; the value becomes the child's subtree.
  - Sequence: elements are spliced in as siblings at the current level.
  - Scalar: a single leaf labeled with the scalar text.

  Implementation-discovered:
  - Always wrap the result in a synthetic root with an empty label.
    Presenters that want a forest of top-level roots use root.Children.
  - Depth must be bounded; corrupted or hostile input must not grow the stack.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (datasets show), tests.
  - Output consumed by: Flatten (labels.go), internal/trial.

ERROR HANDLING:
  - Returns *MalformedDatasetError when depth exceeds MaxDepth or on a nil value.

IMPLEMENTATION RULES:
  - Pure function of the input; no logging, no I/O.

USAGE:
  root, err := tree.Build(value)
  root, err := tree.Builder{MaxDepth: 64}.Build(value)

RELATED FILES:
  - internal/tree/value.go
  - internal/tree/labels.go
*/

package tree

// DefaultMaxDepth is the nesting limit used when Builder.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Node is one entry in a hierarchical dataset.
type Node struct {
	Label    string
	Children []Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Builder converts Values into trees.
type Builder struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Build converts v into a tree using the default depth limit.
func Build(v Value) (*Node, error) {
	return Builder{}.Build(v)
}

// Build converts v into a tree rooted at a synthetic, unlabeled node.
func (b Builder) Build(v Value) (*Node, error) {
	children, err := b.children(v, 0)
	if err != nil {
		return nil, err
	}
	return &Node{Children: children}, nil
}

func (b Builder) limit() int {
	if b.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return b.MaxDepth
}

// children returns the nodes v contributes at the current level.
func (b Builder) children(v Value, depth int) ([]Node, error) {
	if depth > b.limit() {
		return nil, tooDeep(depth, b.limit())
	}

	switch x := v.(type) {
	case Mapping:
		nodes := make([]Node, 0, len(x))
		for _, e := range x {
			sub, err := b.children(e.Value, depth+1)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Node{Label: e.Key, Children: sub})
		}
		return nodes, nil
	case Sequence:
		var nodes []Node
		for _, item := range x {
			sub, err := b.children(item, depth+1)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, sub...)
		}
		return nodes, nil
	case Scalar:
		return []Node{{Label: x.Text}}, nil
	case nil:
		return nil, &MalformedDatasetError{Depth: depth, Reason: "nil value"}
	default:
		return nil, &MalformedDatasetError{Depth: depth, Reason: "unknown value variant"}
	}
}
