// Package volume supplies voxel samples to the octree builder: explicit point
// lists, dense grids with a zero sentinel, procedural shapes and MagicaVoxel files.
package volume

import (
	"iter"
	"slices"
)

// Sample is one non-empty voxel. Value carries 24 significant bits (packed RGB).
type Sample struct {
	X, Y, Z int
	Value   uint32
}

// Source streams the non-empty voxels of a volume.
type Source interface {
	Samples() iter.Seq[Sample]
}

// Points is a Source backed by an explicit list, yielded in order.
type Points []Sample

func (p Points) Samples() iter.Seq[Sample] {
	return slices.Values(p)
}

// Collect drains src into a slice.
func Collect(src Source) []Sample {
	return slices.Collect(src.Samples())
}
