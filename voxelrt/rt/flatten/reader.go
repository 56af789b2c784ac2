package flatten

import (
	"errors"
	"fmt"
)

var ErrCorruptBuffer = errors.New("corrupt flat buffer")

// Reader resolves voxels from a flat buffer using only the layout arithmetic a
// GPU consumer would use.
type Reader struct {
	words  []Word
	layout Layout
}

func NewReader(b *Buffer) (*Reader, error) {
	if len(b.Words) != b.Layout.Len() {
		return nil, fmt.Errorf("%w: %d words, layout needs %d", ErrCorruptBuffer, len(b.Words), b.Layout.Len())
	}
	if w := b.Layout.GridWidth; w != 0 && w != GridWidth(b.Layout.Depth) {
		return nil, fmt.Errorf("%w: grid width %d for depth %d", ErrCorruptBuffer, w, b.Layout.Depth)
	}
	return &Reader{words: b.Words, layout: b.Layout}, nil
}

func (r *Reader) contains(x, y, z int) bool {
	size := 1 << uint(r.layout.Depth)
	return x >= 0 && y >= 0 && z >= 0 && x < size && y < size && z < size
}

// Lookup returns the value stored at (x, y, z) and whether a voxel exists there.
func (r *Reader) Lookup(x, y, z int) (uint32, bool, error) {
	if !r.contains(x, y, z) {
		return 0, false, nil
	}
	if r.layout.GridWidth == 0 {
		w := r.words[0]
		return w.Value(), w.IsLeaf(), nil
	}

	depth := r.layout.Depth
	addr := uint32(0)
	for level := 0; level < depth; level++ {
		bit := uint(depth - 1 - level)
		octant := (x>>bit)&1 | ((y>>bit)&1)<<1 | ((z>>bit)&1)<<2
		w := r.words[r.layout.Index(addr, octant)]

		switch {
		case w.IsEmpty():
			return 0, false, nil
		case w.IsLeaf():
			if level != depth-1 {
				return 0, false, fmt.Errorf("%w: leaf at level %d of %d", ErrCorruptBuffer, level, depth)
			}
			return w.Value(), true, nil
		case w.IsPointer():
			if level == depth-1 {
				return 0, false, fmt.Errorf("%w: pointer below the last level", ErrCorruptBuffer)
			}
			next := w.Address()
			if next <= addr || int(next) >= r.layout.Internal {
				return 0, false, fmt.Errorf("%w: pointer %d from address %d", ErrCorruptBuffer, next, addr)
			}
			addr = next
		default:
			return 0, false, fmt.Errorf("%w: unknown tag in %v", ErrCorruptBuffer, w)
		}
	}
	return 0, false, nil
}

// Visit describes one internal node reached by Walk.
type Visit struct {
	Address uint32
	Parent  uint32
	Level   int
	// Origin is the node's minimum voxel corner and Size its side length.
	X, Y, Z int
	Size    int
}

// Walk visits every internal node reachable from the root in pre-order, following
// pointer words. The root is reported with Parent equal to its own address.
func (r *Reader) Walk(fn func(v Visit) error) error {
	if r.layout.GridWidth == 0 {
		return nil
	}
	return r.walk(Visit{Size: 1 << uint(r.layout.Depth)}, fn)
}

func (r *Reader) walk(v Visit, fn func(Visit) error) error {
	if err := fn(v); err != nil {
		return err
	}
	if v.Level >= r.layout.Depth-1 {
		return nil
	}
	half := v.Size / 2
	for octant := 0; octant < 8; octant++ {
		w := r.words[r.layout.Index(v.Address, octant)]
		if !w.IsPointer() {
			continue
		}
		next := w.Address()
		if next <= v.Address || int(next) >= r.layout.Internal {
			return fmt.Errorf("%w: pointer %d from address %d", ErrCorruptBuffer, next, v.Address)
		}
		child := Visit{
			Address: next,
			Parent:  v.Address,
			Level:   v.Level + 1,
			X:       v.X + (octant&1)*half,
			Y:       v.Y + ((octant>>1)&1)*half,
			Z:       v.Z + ((octant>>2)&1)*half,
			Size:    half,
		}
		if err := r.walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
