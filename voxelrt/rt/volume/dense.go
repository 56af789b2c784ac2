package volume

import "iter"

// Dense is a cube of 2^Depth voxels per axis stored x-fastest. A zero value marks
// an absent voxel and is never yielded by Samples.
type Dense struct {
	Depth  int
	Size   int
	Values []uint32
}

func NewDense(depth int) *Dense {
	size := 1 << uint(depth)
	return &Dense{
		Depth:  depth,
		Size:   size,
		Values: make([]uint32, size*size*size),
	}
}

func (d *Dense) Index(x, y, z int) int {
	return x + y*d.Size + z*d.Size*d.Size
}

func (d *Dense) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < d.Size && y < d.Size && z < d.Size
}

// Set writes v at (x, y, z) and reports whether the coordinate was inside the grid.
func (d *Dense) Set(x, y, z int, v uint32) bool {
	if !d.Contains(x, y, z) {
		return false
	}
	d.Values[d.Index(x, y, z)] = v
	return true
}

func (d *Dense) At(x, y, z int) uint32 {
	if !d.Contains(x, y, z) {
		return 0
	}
	return d.Values[d.Index(x, y, z)]
}

// Count is the number of non-empty voxels.
func (d *Dense) Count() int {
	n := 0
	for _, v := range d.Values {
		if v != 0 {
			n++
		}
	}
	return n
}

func (d *Dense) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for i, v := range d.Values {
			if v == 0 {
				continue
			}
			x := i % d.Size
			y := (i / d.Size) % d.Size
			z := i / (d.Size * d.Size)
			if !yield(Sample{X: x, Y: y, Z: z, Value: v}) {
				return
			}
		}
	}
}
