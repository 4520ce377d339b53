package tree

import (
	"math/rand/v2"
)

// IntN is the random source used to pick a target. *rand.Rand satisfies it.
type IntN interface {
	IntN(n int) int
}

// Flatten returns every label in pre-order. The root's label is included
// only when it is non-empty.
func Flatten(root *Node) []string {
	if root == nil {
		return nil
	}
	var labels []string
	if root.Label != "" {
		labels = append(labels, root.Label)
	}
	for i := range root.Children {
		labels = collect(&root.Children[i], labels)
	}
	return labels
}

func collect(n *Node, labels []string) []string {
	labels = append(labels, n.Label)
	for i := range n.Children {
		labels = collect(&n.Children[i], labels)
	}
	return labels
}

// PickTarget returns one label chosen uniformly by index. A nil rng uses
// the global source.
func PickTarget(labels []string, rng IntN) (string, error) {
	if len(labels) == 0 {
		return "", ErrEmptyDataset
	}
	if rng == nil {
		return labels[rand.IntN(len(labels))], nil
	}
	return labels[rng.IntN(len(labels))], nil
}
