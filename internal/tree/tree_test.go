package tree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthetic() Value {
	return Mapping{
		{Key: "root", Value: Mapping{
			{Key: "child1", Value: Mapping{
				{Key: "target_entry", Value: Mapping{}},
			}},
			{Key: "child2", Value: Mapping{}},
		}},
	}
}

func TestBuild_MappingPreservesOrder(t *testing.T) {
	root, err := Build(synthetic())
	require.NoError(t, err)

	assert.Equal(t, "", root.Label)
	require.Len(t, root.Children, 1)
	top := root.Children[0]
	assert.Equal(t, "root", top.Label)
	require.Len(t, top.Children, 2)
	assert.Equal(t, "child1", top.Children[0].Label)
	assert.Equal(t, "child2", top.Children[1].Label)
	assert.True(t, top.Children[1].IsLeaf())
	assert.Equal(t, "target_entry", top.Children[0].Children[0].Label)
}

func TestBuild_Variants(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  []string
	}{
		{
			name:  "scalar at top level",
			input: Scalar{Text: "42"},
			want:  []string{"42"},
		},
		{
			name:  "sequence splices siblings",
			input: Sequence{Scalar{Text: "a"}, Mapping{{Key: "b", Value: Mapping{}}}, Scalar{Text: "c"}},
			want:  []string{"a", "b", "c"},
		},
		{
			name: "scalar value hangs under its key",
			input: Mapping{
				{Key: "species", Value: Scalar{Text: "Homo sapiens"}},
			},
			want: []string{"species", "Homo sapiens"},
		},
		{
			name: "list valued key",
			input: Mapping{
				{Key: "Users", Value: Sequence{Scalar{Text: "User1"}, Scalar{Text: "User2"}}},
				{Key: "Music", Value: Sequence{}},
			},
			want: []string{"Users", "User1", "User2", "Music"},
		},
		{
			name:  "empty mapping",
			input: Mapping{},
			want:  nil,
		},
		{
			name: "duplicate labels are kept",
			input: Mapping{
				{Key: "User1", Value: Mapping{{Key: "Documents", Value: Mapping{}}}},
				{Key: "User2", Value: Mapping{{Key: "Documents", Value: Mapping{}}}},
			},
			want: []string{"User1", "Documents", "User2", "Documents"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Flatten(root))
		})
	}
}

func TestBuild_SequenceElementsBecomeSiblings(t *testing.T) {
	root, err := Build(Mapping{
		{Key: "dir", Value: Sequence{
			Mapping{{Key: "a", Value: Mapping{}}},
			Mapping{{Key: "b", Value: Mapping{}}},
		}},
	})
	require.NoError(t, err)

	dir := root.Children[0]
	require.Len(t, dir.Children, 2)
	assert.Equal(t, "a", dir.Children[0].Label)
	assert.Equal(t, "b", dir.Children[1].Label)
}

func nested(depth int) Value {
	var v Value = Mapping{}
	for i := 0; i < depth; i++ {
		v = Mapping{{Key: "n", Value: v}}
	}
	return v
}

func TestBuild_DepthLimit(t *testing.T) {
	_, err := Builder{MaxDepth: 10}.Build(nested(5))
	require.NoError(t, err)

	_, err = Builder{MaxDepth: 10}.Build(nested(20))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDataset)

	var mde *MalformedDatasetError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, 11, mde.Depth)
}

func TestBuild_DefaultDepthLimit(t *testing.T) {
	_, err := Build(nested(DefaultMaxDepth + 5))
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

func TestBuild_NilValue(t *testing.T) {
	_, err := Build(Mapping{{Key: "x", Value: nil}})
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

func TestFlatten_IncludesLabeledRoot(t *testing.T) {
	root := &Node{Label: "top", Children: []Node{{Label: "a"}, {Label: "b", Children: []Node{{Label: "c"}}}}}
	assert.Equal(t, []string{"top", "a", "b", "c"}, Flatten(root))
	assert.Nil(t, Flatten(nil))
}

func TestPickTarget(t *testing.T) {
	_, err := PickTarget(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	labels := []string{"a", "b", "b", "c"}
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[string]int{}
	for i := 0; i < 400; i++ {
		got, err := PickTarget(labels, rng)
		require.NoError(t, err)
		assert.Contains(t, labels, got)
		seen[got]++
	}
	assert.Len(t, seen, 3)

	got, err := PickTarget([]string{"only"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

type fixedIndex int

func (f fixedIndex) IntN(int) int { return int(f) }

func TestPickTarget_UsesIndexFromSource(t *testing.T) {
	got, err := PickTarget([]string{"x", "y", "z"}, fixedIndex(2))
	require.NoError(t, err)
	assert.Equal(t, "z", got)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{"x", 1.5, true},
		"a": map[string]any{},
		"c": nil,
	})
	require.NoError(t, err)

	root, err := Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "x", "1.5", "true", "c"}, Flatten(root))

	_, err = FromAny(map[string]any{"bad": struct{}{}})
	assert.ErrorIs(t, err, ErrMalformedDataset)
}
