package octree

// Octant returns the child slot (0..7) that (x, y, z) falls into below a node at
// the given level of a depth-D tree. Level 0 is the level just below the root.
// Bits are consumed from most to least significant as the walk descends.
func Octant(level, depth, x, y, z int) int {
	bit := uint(depth - 1 - level)
	return (x>>bit)&1 | ((y>>bit)&1)<<1 | ((z>>bit)&1)<<2
}

// OctantOffset splits an octant index back into its per-axis bits.
func OctantOffset(octant int) (dx, dy, dz int) {
	return octant & 1, (octant >> 1) & 1, (octant >> 2) & 1
}

// Residual returns the part of v that is still unconsumed once the octant at
// level has been chosen.
func Residual(level, depth, v int) int {
	return v & (1<<uint(depth-1-level) - 1)
}

// childOrigin is the minimum corner of the octant's cell one level down, given the
// parent's minimum corner and the side length of the child cell.
func childOrigin(x, y, z, half, octant int) (int, int, int) {
	dx, dy, dz := OctantOffset(octant)
	return x + dx*half, y + dy*half, z + dz*half
}
