package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONKeepsSourceOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zeta": {"b": {}, "a": {}}, "alpha": ["x", {"y": {}}]}`))
	require.NoError(t, err)

	root, err := Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "b", "a", "alpha", "x", "y"}, Flatten(root))
}

func TestDecode_YAML(t *testing.T) {
	src := `
Animalia:
  Chordata:
    Mammalia:
      Primates: {}
    Reptilia:
count: 3
`
	v, err := Decode([]byte(src))
	require.NoError(t, err)

	root, err := Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"Animalia", "Chordata", "Mammalia", "Primates", "Reptilia", "count", "3"}, Flatten(root))
}

func TestDecode_Empty(t *testing.T) {
	v, err := Decode(nil)
	require.NoError(t, err)

	root, err := Build(v)
	require.NoError(t, err)
	assert.Empty(t, Flatten(root))
}

func TestDecode_SyntaxError(t *testing.T) {
	_, err := Decode([]byte(`{"open": `))
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

func TestDecode_AliasesExpand(t *testing.T) {
	src := `
shared: &s
  leaf: {}
copy: *s
`
	v, err := Decode([]byte(src))
	require.NoError(t, err)

	root, err := Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "leaf", "copy", "leaf"}, Flatten(root))
}

func TestDecode_SelfReferenceRejected(t *testing.T) {
	_, err := DecodeLimit([]byte("a: &x\n  b: *x\n"), 50)
	assert.ErrorIs(t, err, ErrMalformedDataset)
}

// nestedAliases builds a document where each anchor repeats the previous
// one ten times, so the expanded size is 10^levels.
func nestedAliases(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [" + strings.TrimSuffix(strings.Repeat("x, ", 10), ", ") + "]\n")
	for i := 1; i < levels; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, refs)
	}
	return b.String()
}

func TestDecode_AliasExpansionBounded(t *testing.T) {
	src := nestedAliases(7)
	require.Less(t, len(src), 500)

	_, err := Decode([]byte(src))
	require.ErrorIs(t, err, ErrMalformedDataset)

	var me *MalformedDatasetError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Reason, "alias expansion")
}

func TestDecode_AliasReuseAllowed(t *testing.T) {
	v, err := Decode([]byte(nestedAliases(2)))
	require.NoError(t, err)
	root, err := Build(v)
	require.NoError(t, err)
	// l0, 10 x, l1, then 10 copies of the 10 x leaves.
	assert.Len(t, Flatten(root), 1+10+1+100)

	v, err = Decode([]byte("base: &b\n  x: {}\nuse: *b\n"))
	require.NoError(t, err)
	root, err = Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "x", "use", "x"}, Flatten(root))
}

func TestDecodeLimit_Depth(t *testing.T) {
	src := strings.Repeat("[", 30) + strings.Repeat("]", 30)
	_, err := DecodeLimit([]byte(src), 10)
	assert.ErrorIs(t, err, ErrMalformedDataset)

	_, err = DecodeLimit([]byte(src), 100)
	assert.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"C:": {"Users": {}}}`), 0644))

	v, err := LoadFile(path, 0)
	require.NoError(t, err)
	root, err := Build(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"C:", "Users"}, Flatten(root))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), 0)
	assert.Error(t, err)
}
