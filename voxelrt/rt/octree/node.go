package octree

// NodeID indexes a node in the tree's arena.
type NodeID uint32

const (
	// RootID is the arena slot of the root. The root is never anyone's child, so a
	// zero entry in Children means the slot is absent.
	RootID NodeID = 0
	NoNode NodeID = 0
)

// MaxValue is the largest payload a leaf can carry (24 bits, packed RGB).
const MaxValue = 0xFFFFFF

type Node struct {
	Value    uint32
	Children [8]NodeID
	Leaf     bool
	// Empty stays true until something below the node received a value.
	Empty bool
}

// HasChildren reports whether any child slot is populated.
func (n *Node) HasChildren() bool {
	for _, c := range n.Children {
		if c != NoNode {
			return true
		}
	}
	return false
}
