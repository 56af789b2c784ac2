package octree

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

func TestNewRejectsBadDepth(t *testing.T) {
	_, err := New(-1)
	require.ErrorIs(t, err, ErrInvalidDepth)

	_, err = New(MaxDepth + 1)
	require.ErrorIs(t, err, ErrInvalidDepth)

	tree, err := New(MaxDepth)
	require.NoError(t, err)
	assert.Equal(t, 1<<MaxDepth, tree.Resolution())
}

func TestInsertCreatesInternalNodesLazily(t *testing.T) {
	tree, err := New(2)
	require.NoError(t, err)

	root := tree.Node(tree.Root())
	assert.True(t, root.Empty)
	assert.False(t, root.Leaf)
	assert.False(t, root.HasChildren())

	require.NoError(t, tree.Insert(0, 0, 0, 0xFF0000))
	require.NoError(t, tree.Insert(3, 3, 3, 0x00FF00))

	root = tree.Node(tree.Root())
	assert.False(t, root.Empty)

	a := tree.Node(root.Children[0])
	b := tree.Node(root.Children[7])
	assert.False(t, a.Leaf)
	assert.False(t, b.Leaf)
	for o := 1; o < 7; o++ {
		assert.Equal(t, NoNode, root.Children[o], "octant %d", o)
	}

	leafA := tree.Node(a.Children[0])
	assert.True(t, leafA.Leaf)
	assert.Equal(t, uint32(0xFF0000), leafA.Value)
	assert.False(t, leafA.HasChildren())

	leafB := tree.Node(b.Children[7])
	assert.True(t, leafB.Leaf)
	assert.Equal(t, uint32(0x00FF00), leafB.Value)

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, 2, tree.LeafCount())
	assert.Equal(t, 3, tree.InternalCount())
}

func TestInsertOverwrite(t *testing.T) {
	tree, err := New(3)
	require.NoError(t, err)

	require.NoError(t, tree.Insert(5, 1, 6, 0x111111))
	require.NoError(t, tree.Insert(5, 1, 6, 0x222222))

	v, ok := tree.Get(5, 1, 6)
	require.True(t, ok)
	assert.Equal(t, uint32(0x222222), v)
	assert.Equal(t, 1, tree.LeafCount())
}

func TestInsertRejectsOutOfRange(t *testing.T) {
	tree, err := New(2)
	require.NoError(t, err)

	for _, c := range [][3]int{{4, 0, 0}, {0, -1, 0}, {0, 0, 100}} {
		err := tree.Insert(c[0], c[1], c[2], 1)
		require.ErrorIs(t, err, ErrOutOfRange)

		var ce *CoordinateError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, 4, ce.Resolution)
	}

	// Rejections leave the tree as it was.
	assert.Equal(t, 1, tree.Len())
	assert.True(t, tree.Node(tree.Root()).Empty)
}

func TestInsertRejectsWideValue(t *testing.T) {
	tree, err := New(1)
	require.NoError(t, err)

	err = tree.Insert(0, 0, 0, 0x1000000)
	require.ErrorIs(t, err, ErrValueTooWide)
	assert.Equal(t, 1, tree.Len())

	require.NoError(t, tree.Insert(0, 0, 0, MaxValue))
}

func TestDepthZeroStoresInRoot(t *testing.T) {
	tree, err := New(0)
	require.NoError(t, err)

	_, ok := tree.Get(0, 0, 0)
	assert.False(t, ok)

	require.NoError(t, tree.Insert(0, 0, 0, 0xABCDEF))
	v, ok := tree.Get(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(0xABCDEF), v)

	root := tree.Node(tree.Root())
	assert.True(t, root.Leaf)
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 0, tree.InternalCount())

	require.ErrorIs(t, tree.Insert(1, 0, 0, 1), ErrOutOfRange)
}

func TestDepthOneHasSingleInternalNode(t *testing.T) {
	tree, err := New(1)
	require.NoError(t, err)
	for o := 0; o < 8; o++ {
		dx, dy, dz := OctantOffset(o)
		require.NoError(t, tree.Insert(dx, dy, dz, uint32(o+1)))
	}
	assert.Equal(t, 1, tree.InternalCount())
	assert.Equal(t, 8, tree.LeafCount())
}

func TestGetMissing(t *testing.T) {
	tree, err := New(3)
	require.NoError(t, err)
	require.NoError(t, tree.Insert(1, 2, 3, 9))

	_, ok := tree.Get(1, 2, 2)
	assert.False(t, ok)
	_, ok = tree.Get(7, 7, 7)
	assert.False(t, ok)
	_, ok = tree.Get(-1, 0, 0)
	assert.False(t, ok)
}

func TestSamplesRebuildCoordinates(t *testing.T) {
	tree, err := New(3)
	require.NoError(t, err)

	in := []volume.Sample{
		{X: 7, Y: 0, Z: 0, Value: 3},
		{X: 0, Y: 0, Z: 0, Value: 1},
		{X: 5, Y: 6, Z: 2, Value: 2},
		{X: 7, Y: 7, Z: 7, Value: 4},
	}
	for _, s := range in {
		require.NoError(t, tree.Insert(s.X, s.Y, s.Z, s.Value))
	}

	out := slices.Collect(tree.Samples())
	assert.ElementsMatch(t, in, out)
	// Pre-order by octant: the origin comes first, the far corner last.
	assert.Equal(t, in[1], out[0])
	assert.Equal(t, in[3], out[len(out)-1])
}
