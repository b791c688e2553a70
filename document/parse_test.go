package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicompat/cicompat/cierrors"
)

func TestParse_Scalars(t *testing.T) {
	root, err := Parse([]byte(`
quoted: "4.4"
float: 4.4
int: 7
bool: true
null_value: ~
`))
	require.NoError(t, err)

	tests := []struct {
		key     string
		tag     string
		text    string
		isStr   bool
		general any
	}{
		{key: "quoted", tag: TagString, text: "4.4", isStr: true, general: "4.4"},
		{key: "float", tag: TagFloat, text: "4.4", general: 4.4},
		{key: "int", tag: TagInt, text: "7", general: int64(7)},
		{key: "bool", tag: TagBool, text: "true", general: true},
		{key: "null_value", tag: TagNull, text: "~", general: nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			node, ok := root.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, ScalarNode, node.Kind())
			assert.Equal(t, tt.tag, node.Tag())
			assert.Equal(t, tt.text, node.Text())
			_, isStr := node.Str()
			assert.Equal(t, tt.isStr, isStr)
			assert.Equal(t, tt.general, node.Interface())
		})
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	root, err := Parse([]byte("zeta: 1\nalpha: 2\nmid: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, root.Keys())
	assert.Equal(t, 3, root.Len())
}

func TestParse_AnchorsAndMergeKeys(t *testing.T) {
	root, err := Parse([]byte(`
.versions: &versions
  MONGO_VERSION: ["4.4", "5.0"]
  REDIS_VERSION: ["7"]

.base: &base
  stage: test
  parallel:
    matrix:
      - *versions

test:
  <<: *base
  stage: integration

lint:
  <<: [*base, {image: golang}]
`))
	require.NoError(t, err)

	node, err := Resolve(root, "test.parallel.matrix[0].MONGO_VERSION")
	require.NoError(t, err)
	assert.Equal(t, []any{"4.4", "5.0"}, node.Interface())

	stage, err := Resolve(root, "test.stage")
	require.NoError(t, err)
	assert.Equal(t, "integration", stage.Text(), "explicit key overrides merged key")

	image, err := Resolve(root, "lint.image")
	require.NoError(t, err)
	assert.Equal(t, "golang", image.Text())

	lintStage, err := Resolve(root, "lint.stage")
	require.NoError(t, err)
	assert.Equal(t, "test", lintStage.Text())
}

func TestParse_MergeKeyFirstSourceWins(t *testing.T) {
	root, err := Parse([]byte(`
a: &a {image: alpine}
b: &b {image: debian, tag: x}
job:
  <<: [*a, *b]
`))
	require.NoError(t, err)

	image, err := Resolve(root, "job.image")
	require.NoError(t, err)
	assert.Equal(t, "alpine", image.Text())

	tag, err := Resolve(root, "job.tag")
	require.NoError(t, err)
	assert.Equal(t, "x", tag.Text())
}

// nestedAliases builds levels of anchors where each level lists the previous
// one ten times, so a naive expansion grows as 10^levels.
func nestedAliases(levels int) string {
	var b strings.Builder
	b.WriteString(`l0: &l0 ["lol","lol","lol","lol","lol","lol","lol","lol","lol","lol"]` + "\n")
	for i := 1; i <= levels; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		items := strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", ")
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, items)
	}
	return b.String()
}

func TestParse_AliasesShareNodes(t *testing.T) {
	root, err := Parse([]byte(nestedAliases(9)))
	require.NoError(t, err)

	top, ok := root.Get("l9")
	require.True(t, ok)
	require.Equal(t, 10, top.Len())

	first, _ := top.Index(0)
	last, _ := top.Index(9)
	assert.Same(t, first, last, "aliases of one anchor share the converted node")

	l8, ok := root.Get("l8")
	require.True(t, ok)
	assert.Same(t, l8, first)

	leaf, err := Resolve(root, "l1[3]")
	require.NoError(t, err)
	assert.Equal(t, 10, leaf.Len())
}

func TestParse_NodeLimit(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		_, err := parseNamed("big.yml", []byte("a: [1, 2, 3, 4, 5]\n"), 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, cierrors.ErrParse)
		assert.Contains(t, err.Error(), "more than 4 nodes")
	})

	t.Run("merged keys count", func(t *testing.T) {
		input := "base: &base {a: 1, b: 2, c: 3}\nx: {<<: *base}\ny: {<<: *base}\n"
		_, err := parseNamed("merge.yml", []byte(input), 12)
		require.Error(t, err)
		assert.ErrorIs(t, err, cierrors.ErrParse)

		_, err = parseNamed("merge.yml", []byte(input), 64)
		assert.NoError(t, err)
	})

	t.Run("within limit", func(t *testing.T) {
		root, err := parseNamed("small.yml", []byte("a: [1, 2]\n"), 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, root.Keys())
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid yaml", input: "test: [unclosed"},
		{name: "duplicate key", input: "a: 1\na: 2\n"},
		{name: "merge of scalar", input: "job:\n  <<: 3\n"},
		{name: "non scalar key", input: "? [a, b]\n: value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNamed(".gitlab-ci.yml", []byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, cierrors.ErrParse)
			assert.Contains(t, err.Error(), ".gitlab-ci.yml")
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	for _, input := range []string{"", "# only a comment\n"} {
		root, err := Parse([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, MappingNode, root.Kind())
		assert.Equal(t, 0, root.Len())

		_, err = Resolve(root, "test")
		assert.ErrorIs(t, err, cierrors.ErrLookup)
	}
}

func TestParse_JSON(t *testing.T) {
	root, err := Parse([]byte(`{"test": {"parallel": {"matrix": [{"MONGO_VERSION": ["4.0"]}]}}}`))
	require.NoError(t, err)

	node, err := Resolve(root, "test.parallel.matrix[0].MONGO_VERSION")
	require.NoError(t, err)
	assert.Equal(t, []any{"4.0"}, node.Interface())
}

func TestNode_Accessors(t *testing.T) {
	seq := NewSequence(NewString("a"), NewString("b"))

	_, ok := seq.Index(2)
	assert.False(t, ok)
	_, ok = seq.Index(-1)
	assert.False(t, ok)
	_, ok = seq.Get("a")
	assert.False(t, ok, "Get on a sequence")
	assert.Nil(t, seq.Keys())

	items := seq.Items()
	items[0] = NewString("mutated")
	first, _ := seq.Index(0)
	assert.Equal(t, "a", first.Text(), "Items returns a copy")

	m := NewMapping(Entry{Key: "x", Value: NewString("1")}, Entry{Key: "x", Value: NewString("2")})
	assert.Equal(t, []string{"x"}, m.Keys())
	v, _ := m.Get("x")
	assert.Equal(t, "2", v.Text())
	assert.Nil(t, m.Items())

	assert.Equal(t, "sequence", SequenceNode.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
