package octree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOctantUsesMostSignificantBitFirst(t *testing.T) {
	// depth 2: level 0 reads bit 1, level 1 reads bit 0
	assert.Equal(t, 0, Octant(0, 2, 0, 0, 0))
	assert.Equal(t, 7, Octant(0, 2, 3, 3, 3))
	assert.Equal(t, 7, Octant(1, 2, 3, 3, 3))
	assert.Equal(t, 1, Octant(0, 2, 2, 0, 0))
	assert.Equal(t, 0, Octant(1, 2, 2, 0, 0))
	assert.Equal(t, 2, Octant(0, 2, 0, 3, 1))
	assert.Equal(t, 6, Octant(1, 2, 0, 3, 1))
	assert.Equal(t, 4, Octant(0, 3, 1, 2, 5))
}

func TestOctantOffsetInvertsOctant(t *testing.T) {
	for o := 0; o < 8; o++ {
		dx, dy, dz := OctantOffset(o)
		assert.Equal(t, o, Octant(0, 1, dx, dy, dz), "octant %d", o)
	}
}

func TestResidual(t *testing.T) {
	assert.Equal(t, 5, Residual(0, 4, 13))
	assert.Equal(t, 1, Residual(1, 4, 13))
	assert.Equal(t, 1, Residual(2, 4, 13))
	assert.Equal(t, 0, Residual(3, 4, 13))
}
