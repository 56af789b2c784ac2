package flatten

// Layout describes where each internal node's 8-word block sits in the buffer.
//
// Addresses index a grid of GridWidth = 2^(D-1) cells per axis: address a sits in
// cell (a mod W, (a div W) mod W, a div W²). Its block covers the 2x2x2 sub-cells at
// twice that resolution, so blocks never overlap and the buffer is a box of
// Dimension() words along x and y and Layers() along z. Only D is needed to find a
// block; the z extent is 2W (8^D words in total) unless the tree has more than W³
// internal nodes.
type Layout struct {
	Depth     int
	GridWidth int
	// Internal is the number of addressed (non-leaf) nodes.
	Internal int
}

// NewLayout returns the layout for a depth-D tree with the given number of
// internal nodes. With no internal nodes the buffer is a single word.
func NewLayout(depth, internal int) Layout {
	l := Layout{Depth: depth, Internal: internal}
	if depth == 0 || internal == 0 {
		return l
	}
	l.GridWidth = GridWidth(depth)
	return l
}

// GridWidth is 2^(D-1), the number of address cells per axis of a depth-D tree.
func GridWidth(depth int) int {
	if depth < 1 {
		return 0
	}
	return 1 << uint(depth-1)
}

// Dimension is the number of words along x and y.
func (l Layout) Dimension() int {
	if l.GridWidth == 0 {
		return 1
	}
	return 2 * l.GridWidth
}

// Layers is the number of words along z.
func (l Layout) Layers() int {
	w := l.GridWidth
	if w == 0 {
		return 1
	}
	if l.Internal <= w*w*w {
		return 2 * w
	}
	return 2 * ((l.Internal + w*w - 1) / (w * w))
}

// Len is the total number of words.
func (l Layout) Len() int {
	d := l.Dimension()
	return d * d * l.Layers()
}

// Cell maps an address to its cell in the address grid. z is not wrapped, so
// addresses past W³ land in extra layers instead of aliasing earlier cells.
func (l Layout) Cell(address uint32) (x, y, z int) {
	a, w := int(address), l.GridWidth
	return a % w, (a / w) % w, a / (w * w)
}

// Index is the buffer position of the word for octant i of address.
func (l Layout) Index(address uint32, octant int) int {
	cx, cy, cz := l.Cell(address)
	sx := 2*cx + octant&1
	sy := 2*cy + (octant>>1)&1
	sz := 2*cz + (octant>>2)&1
	d := l.Dimension()
	return sx + sy*d + sz*d*d
}
