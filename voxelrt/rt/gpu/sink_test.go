package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/voxeloctree"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
)

// Both checks run before the device is touched, so a nil device is enough.

func TestAcceptRejectsOversizedTexture(t *testing.T) {
	sink := NewTextureSink(nil, nil)
	id := voxeloctree.AssetId("huge")

	buf := &flatten.Buffer{Layout: flatten.Layout{Depth: 13, GridWidth: 4096, Internal: 1}}
	err := sink.Accept(id, buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 2048")

	_, ok := sink.Texture(id)
	assert.False(t, ok)
}

func TestAcceptRejectsTooManyLayers(t *testing.T) {
	sink := NewTextureSink(nil, nil)

	// 1024 wide in x and y; 1025 full z slabs of 512^2 blocks need 2050 layers.
	l := flatten.Layout{Depth: 10, GridWidth: 512, Internal: 512 * 512 * 1025}
	require.Equal(t, 1024, l.Dimension())
	require.Greater(t, l.Layers(), maxTextureDimension3D)

	err := sink.Accept("deep", &flatten.Buffer{Layout: l})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 2048")
}

func TestAcceptRejectsWordCountMismatch(t *testing.T) {
	sink := NewTextureSink(nil, nil)
	id := voxeloctree.AssetId("short")

	buf := &flatten.Buffer{Layout: flatten.NewLayout(1, 1), Words: make([]flatten.Word, 3)}
	err := sink.Accept(id, buf)
	assert.ErrorIs(t, err, flatten.ErrCorruptBuffer)

	_, ok := sink.Texture(id)
	assert.False(t, ok)
}

func TestReleaseOnEmptySink(t *testing.T) {
	sink := NewTextureSink(nil, nil)
	assert.NotPanics(t, sink.Release)
}
