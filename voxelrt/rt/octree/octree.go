// Package octree builds sparse voxel octrees of fixed depth. Nodes are kept in a
// flat arena and reference their children by index.
package octree

import (
	"fmt"
	"iter"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

// MaxDepth bounds the tree. A sparse tree at this depth flattens to 8^10 = 2^30
// words, the encoder's default buffer limit; denser trees are rejected there.
const MaxDepth = 10

type Octree struct {
	depth  int
	nodes  []Node
	leaves int
}

// New returns an empty tree of the given depth. Depth 0 is a single voxel held by
// the root itself.
func New(depth int) (*Octree, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidDepth, depth, MaxDepth)
	}
	t := &Octree{depth: depth}
	t.nodes = append(t.nodes, Node{Empty: true, Leaf: depth == 0})
	return t, nil
}

func (t *Octree) Depth() int {
	return t.depth
}

// Resolution is the number of voxels per axis, 2^D.
func (t *Octree) Resolution() int {
	return 1 << uint(t.depth)
}

func (t *Octree) Root() NodeID {
	return RootID
}

// Node returns a copy of the node stored at id.
func (t *Octree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len is the number of allocated nodes, root included.
func (t *Octree) Len() int {
	return len(t.nodes)
}

func (t *Octree) LeafCount() int {
	return t.leaves
}

// InternalCount is the number of non-leaf nodes, root included.
func (t *Octree) InternalCount() int {
	if t.depth == 0 {
		return 0
	}
	return len(t.nodes) - t.leaves
}

func (t *Octree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Octree) contains(x, y, z int) bool {
	r := t.Resolution()
	return x >= 0 && y >= 0 && z >= 0 && x < r && y < r && z < r
}

// Insert stores value at (x, y, z), creating internal nodes on the way down.
// Inserting twice at the same coordinate keeps the last value. A rejected sample
// leaves the tree untouched.
func (t *Octree) Insert(x, y, z int, value uint32) error {
	if !t.contains(x, y, z) {
		return &CoordinateError{X: x, Y: y, Z: z, Resolution: t.Resolution()}
	}
	if value > MaxValue {
		return fmt.Errorf("%w: %#x at (%d, %d, %d)", ErrValueTooWide, value, x, y, z)
	}

	if t.depth == 0 {
		root := &t.nodes[RootID]
		if root.Empty {
			t.leaves = 1
		}
		root.Value = value
		root.Empty = false
		return nil
	}

	cur := RootID
	for level := 0; level < t.depth; level++ {
		octant := Octant(level, t.depth, x, y, z)
		child := t.nodes[cur].Children[octant]

		if level == t.depth-1 {
			if child == NoNode {
				child = t.alloc(Node{Leaf: true})
				t.nodes[cur].Children[octant] = child
				t.leaves++
			}
			t.nodes[child].Value = value
			t.nodes[child].Empty = false
			t.nodes[cur].Empty = false
			return nil
		}

		if child == NoNode {
			child = t.alloc(Node{Empty: true})
			t.nodes[cur].Children[octant] = child
			t.nodes[cur].Empty = false
		}
		cur = child
	}
	return nil
}

// Get returns the value stored at (x, y, z) and whether a leaf exists there.
func (t *Octree) Get(x, y, z int) (uint32, bool) {
	if !t.contains(x, y, z) {
		return 0, false
	}
	if t.depth == 0 {
		root := t.nodes[RootID]
		return root.Value, !root.Empty
	}

	cur := RootID
	for level := 0; level < t.depth; level++ {
		cur = t.nodes[cur].Children[Octant(level, t.depth, x, y, z)]
		if cur == NoNode {
			return 0, false
		}
	}
	n := t.nodes[cur]
	return n.Value, n.Leaf
}

// Samples yields every stored voxel in depth-first ascending-octant order.
// Coordinates are rebuilt from the octant path.
func (t *Octree) Samples() iter.Seq[volume.Sample] {
	return func(yield func(volume.Sample) bool) {
		if t.depth == 0 {
			root := t.nodes[RootID]
			if !root.Empty {
				yield(volume.Sample{Value: root.Value})
			}
			return
		}
		t.walkLeaves(RootID, 0, 0, 0, t.Resolution(), yield)
	}
}

func (t *Octree) walkLeaves(id NodeID, x, y, z, size int, yield func(volume.Sample) bool) bool {
	n := t.nodes[id]
	if n.Leaf {
		return yield(volume.Sample{X: x, Y: y, Z: z, Value: n.Value})
	}
	half := size / 2
	for octant, child := range n.Children {
		if child == NoNode {
			continue
		}
		cx, cy, cz := childOrigin(x, y, z, half, octant)
		if !t.walkLeaves(child, cx, cy, cz, half, yield) {
			return false
		}
	}
	return true
}
