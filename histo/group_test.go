package histo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLeaf(t *testing.T) {
	for _, tc := range []struct {
		full, group, leaf string
	}{
		{"a/b/c", "a/b", "c"},
		{"c", "", "c"},
		{"/c", "", "c"},
		{"a/", "a", ""},
		{"", "", ""},
	} {
		group, leaf := SplitLeaf(tc.full)
		assert.Equal(t, tc.group, group, "group of %q", tc.full)
		assert.Equal(t, tc.leaf, leaf, "leaf of %q", tc.full)
	}
}

func TestSplitPath(t *testing.T) {
	assert.Empty(t, SplitPath(""))
	assert.Empty(t, SplitPath("/"))
	assert.Equal(t, []string{"a"}, SplitPath("a"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath("a/b/c"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a//b/"))
}

func TestGroup_Resolve(t *testing.T) {
	c := New("test")
	require.NoError(t, c.CreateGroup("a", ""))
	require.NoError(t, c.CreateGroup("b", "a"))
	root := c.Root()

	for _, path := range []string{"", "/"} {
		g, ok := root.Resolve(path)
		require.True(t, ok)
		assert.Same(t, root, g)
	}

	g, ok := root.Resolve("a/b")
	require.True(t, ok)
	assert.Equal(t, "a/b", g.Path())

	a, _ := root.Resolve("a")
	rel, ok := a.Resolve("b")
	require.True(t, ok)
	assert.Same(t, g, rel)

	_, ok = root.Resolve("a/x")
	assert.False(t, ok)
	_, ok = root.Resolve("b")
	assert.False(t, ok, "b exists only below a")
}

func TestGroup_EntriesKeepOrder(t *testing.T) {
	c := New("test")
	names := []string{"hZVertexMinBias", "hEventsMinBias", "hPtMinBias_nopr_nocut"}
	for _, n := range names {
		require.NoError(t, c.CreateTH1(n, "", 1, 0, 1))
	}
	assert.Equal(t, names, c.Root().Entries())

	_, ok := c.Root().Get("hEventsMinBias")
	assert.True(t, ok)
	_, ok = c.Root().Get("hEvents")
	assert.False(t, ok)
	_, ok = c.Root().Dim("hEvents")
	assert.False(t, ok)
}

func TestWalk(t *testing.T) {
	c := New("test")
	require.NoError(t, c.CreateGroupPath("x/y"))
	require.NoError(t, c.CreateGroup("z", ""))
	require.NoError(t, c.CreateTH1("h0", "", 1, 0, 1))
	require.NoError(t, c.CreateTH1("x/y/h2", "", 1, 0, 1))
	require.NoError(t, c.CreateTH2("x/h1", "", 1, 0, 1, 1, 0, 1))
	require.NoError(t, c.CreateTH1("z/h3", "", 1, 0, 1))

	var seen []string
	require.NoError(t, Walk(c.Root(), func(path string, _ Object) error {
		seen = append(seen, path)
		return nil
	}))
	assert.Equal(t, []string{"h0", "x/h1", "x/y/h2", "z/h3"}, seen)

	stop := errors.New("stop")
	seen = seen[:0]
	err := Walk(c.Root(), func(path string, _ Object) error {
		seen = append(seen, path)
		if path == "x/h1" {
			return stop
		}
		return nil
	})
	assert.Same(t, stop, err)
	assert.Equal(t, []string{"h0", "x/h1"}, seen)
}

func TestError_Messages(t *testing.T) {
	for _, tc := range []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: NotFound, Name: "hX", Group: "grp"}, `histo: histogram "hX" not found in group "grp"`},
		{&Error{Kind: GroupNotFound, Group: "a/b"}, `histo: group "a/b" not found`},
		{&Error{Kind: Duplicate, Name: "h1", Group: ""}, `histo: object "h1" already exists in group "/"`},
		{&Error{Kind: WrongType, Name: "h1", Group: "g", Want: "2-D histogram", Reason: "found a 1-D histogram"},
			`histo: object "h1" in group "g" is not a 2-D histogram: found a 1-D histogram`},
		{&Error{Kind: WrongType, Group: "g", Reason: "got string"}, `histo: object "" in group "g" is not a histogram: got string`},
		{&Error{Kind: InvalidBinning, Name: "h", Reason: "bad"}, `histo: invalid binning for "h": bad`},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
	assert.Equal(t, "group not found", GroupNotFound.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
