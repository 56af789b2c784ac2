// Package flatten encodes a sparse octree into a single buffer of tagged words that
// can be walked from the root to any leaf by address arithmetic alone.
package flatten

import (
	"errors"
	"fmt"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/octree"
)

var (
	ErrAddressSpaceExhausted = errors.New("address space exhausted")
	ErrInvalidAddressBits    = errors.New("invalid address width")
)

// MaxWords is the default buffer size limit: 2^30 words, 4 GiB, which an 8^D
// buffer reaches at depth 10.
const MaxWords = 1 << 30

// Tree is the read-only view the encoder walks.
type Tree interface {
	Depth() int
	Root() octree.NodeID
	Node(id octree.NodeID) octree.Node
}

// Encoder flattens trees. The zero value uses the full pointer width and
// MaxWords.
type Encoder struct {
	// AddressBits limits how many addresses a buffer may use, 1..MaxAddressBits.
	AddressBits int
	// MaxWords caps the buffer length.
	MaxWords int
}

func (e Encoder) addressBits() (int, error) {
	if e.AddressBits == 0 {
		return MaxAddressBits, nil
	}
	if e.AddressBits < 1 || e.AddressBits > MaxAddressBits {
		return 0, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidAddressBits, e.AddressBits, MaxAddressBits)
	}
	return e.AddressBits, nil
}

// Encode assigns every internal node an address in depth-first pre-order
// (ascending octant, root = 0) and writes each node's 8 child words into its
// block. The address space and buffer size are checked before anything is
// allocated, so a failed encode never leaves a partial buffer behind.
func (e Encoder) Encode(t Tree) (*Buffer, error) {
	bits, err := e.addressBits()
	if err != nil {
		return nil, err
	}

	depth := t.Depth()
	root := t.Node(t.Root())
	if depth == 0 || !root.HasChildren() {
		w := Empty
		if depth == 0 && root.Leaf && !root.Empty {
			w = Leaf(root.Value)
		}
		return &Buffer{Words: []Word{w}, Layout: NewLayout(depth, 0)}, nil
	}

	internal := countInternal(t, t.Root())
	if uint64(internal-1) > uint64(1)<<uint(bits)-1 {
		return nil, fmt.Errorf("%w: %d internal nodes do not fit in %d address bits", ErrAddressSpaceExhausted, internal, bits)
	}

	layout := NewLayout(depth, internal)
	limit := e.MaxWords
	if limit <= 0 {
		limit = MaxWords
	}
	if layout.Len() > limit {
		return nil, fmt.Errorf("%w: %d internal nodes need %d words, limit is %d", ErrAddressSpaceExhausted, internal, layout.Len(), limit)
	}
	w := &writer{
		tree:   t,
		layout: layout,
		words:  make([]Word, layout.Len()),
	}
	w.emit(t.Root())
	return &Buffer{Words: w.words, Layout: layout}, nil
}

func countInternal(t Tree, id octree.NodeID) int {
	n := t.Node(id)
	if n.Leaf {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		if c != octree.NoNode {
			count += countInternal(t, c)
		}
	}
	return count
}

// allocator hands out addresses in visitation order.
type allocator struct {
	next uint32
}

func (a *allocator) take() uint32 {
	addr := a.next
	a.next++
	return addr
}

type writer struct {
	tree   Tree
	layout Layout
	words  []Word
	addrs  allocator
}

func (w *writer) emit(id octree.NodeID) uint32 {
	addr := w.addrs.take()
	n := w.tree.Node(id)
	for octant, c := range n.Children {
		if c == octree.NoNode {
			continue
		}
		var word Word
		if child := w.tree.Node(c); child.Leaf {
			word = Leaf(child.Value)
		} else {
			word = Pointer(w.emit(c))
		}
		w.words[w.layout.Index(addr, octant)] = word
	}
	return addr
}
