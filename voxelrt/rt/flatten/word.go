package flatten

import "fmt"

// Word is one tagged 32-bit slot of the flat buffer. The top nibble is the tag:
//
//	0x0 empty     the whole word is zero
//	0x8 leaf      bits 0..23 hold the voxel value (bit 31 set)
//	0x4 pointer   bits 0..27 hold the address of an internal node (bit 30 set)
//
// Bits 24..27 of a leaf are always zero.
type Word uint32

const (
	TagShift = 28

	TagMask    Word = 0xF << TagShift
	TagEmpty   Word = 0x0 << TagShift
	TagLeaf    Word = 0x8 << TagShift
	TagPointer Word = 0x4 << TagShift

	ValueMask   Word = 0x00FFFFFF
	AddressMask Word = 0x0FFFFFFF

	// MaxAddressBits is the width of the pointer payload.
	MaxAddressBits = 28
)

const Empty Word = 0

// Leaf tags a 24-bit voxel value.
func Leaf(value uint32) Word {
	return TagLeaf | Word(value)&ValueMask
}

// Pointer tags the address of an internal node.
func Pointer(address uint32) Word {
	return TagPointer | Word(address)&AddressMask
}

func (w Word) Tag() Word {
	return w & TagMask
}

func (w Word) IsEmpty() bool {
	return w == Empty
}

func (w Word) IsLeaf() bool {
	return w.Tag() == TagLeaf
}

func (w Word) IsPointer() bool {
	return w.Tag() == TagPointer
}

func (w Word) Value() uint32 {
	return uint32(w & ValueMask)
}

func (w Word) Address() uint32 {
	return uint32(w & AddressMask)
}

func (w Word) String() string {
	switch {
	case w.IsEmpty():
		return "empty"
	case w.IsLeaf():
		return fmt.Sprintf("leaf(%#06x)", w.Value())
	case w.IsPointer():
		return fmt.Sprintf("ptr(%d)", w.Address())
	}
	return fmt.Sprintf("invalid(%#08x)", uint32(w))
}
