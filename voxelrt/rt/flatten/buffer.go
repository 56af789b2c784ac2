package flatten

import (
	"encoding/binary"
	"slices"
)

// Buffer is the flattened tree. It is read-only once Encode returns.
type Buffer struct {
	Words  []Word
	Layout Layout
}

// Bytes serialises the words little-endian, in buffer order, ready for a
// texture upload.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 4*len(b.Words))
	for i, w := range b.Words {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(w))
	}
	return out
}

func (b *Buffer) Uint32s() []uint32 {
	out := make([]uint32, len(b.Words))
	for i, w := range b.Words {
		out[i] = uint32(w)
	}
	return out
}

// Equal reports whether both buffers have the same layout and words.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.Layout == o.Layout && slices.Equal(b.Words, o.Words)
}

// Populated counts the non-empty words.
func (b *Buffer) Populated() int {
	n := 0
	for _, w := range b.Words {
		if !w.IsEmpty() {
			n++
		}
	}
	return n
}
