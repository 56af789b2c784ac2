package volume

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voxWriter struct {
	bytes.Buffer
}

func (w *voxWriter) chunk(id string, data []byte) {
	w.WriteString(id)
	binary.Write(w, binary.LittleEndian, int32(len(data)))
	binary.Write(w, binary.LittleEndian, int32(0))
	w.Write(data)
}

func u32s(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func sampleVox() []byte {
	var w voxWriter
	w.WriteString(VOXMagicNumber)
	binary.Write(&w, binary.LittleEndian, int32(150))
	w.chunk("MAIN", nil)
	w.chunk("SIZE", u32s(5, 3, 2))
	w.chunk("XYZI", append(u32s(2), 0, 0, 0, 1, 4, 2, 1, 2))

	palette := make([]byte, 256*4)
	copy(palette, []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0x80, 0xFF, 0xFF})
	w.chunk("RGBA", palette)
	return w.Bytes()
}

func TestReadVox(t *testing.T) {
	vf, err := ReadVox(bytes.NewReader(sampleVox()))
	require.NoError(t, err)

	assert.Equal(t, 150, vf.Version)
	require.Len(t, vf.Models, 1)
	m := vf.Models[0]
	assert.Equal(t, [3]uint32{5, 3, 2}, [3]uint32{m.SizeX, m.SizeY, m.SizeZ})
	assert.Equal(t, []Voxel{{0, 0, 0, 1}, {4, 2, 1, 2}}, m.Voxels)
	assert.Equal(t, 3, m.DepthFor())

	// colour index 0 is never written by RGBA
	assert.Equal(t, [4]byte{255, 255, 255, 255}, vf.Palette[0])
	assert.Equal(t, [4]byte{0xFF, 0, 0, 0xFF}, vf.Palette[1])

	src, err := vf.Source(0)
	require.NoError(t, err)
	assert.Equal(t, []Sample{
		{X: 0, Y: 0, Z: 0, Value: 0xFF0000},
		{X: 4, Y: 2, Z: 1, Value: 0x0080FF},
	}, Collect(src))

	_, err = vf.Source(1)
	assert.ErrorIs(t, err, ErrInvalidVox)
}

func TestReadVoxRejectsBadInput(t *testing.T) {
	_, err := ReadVox(bytes.NewReader([]byte("NOPE\x96\x00\x00\x00")))
	assert.ErrorIs(t, err, ErrInvalidVox)

	var w voxWriter
	w.WriteString(VOXMagicNumber)
	binary.Write(&w, binary.LittleEndian, int32(150))
	w.chunk("SIZE", u32s(1, 1, 1))
	w.chunk("XYZI", u32s(10))
	_, err = ReadVox(bytes.NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrInvalidVox)

	w.Reset()
	w.WriteString(VOXMagicNumber)
	binary.Write(&w, binary.LittleEndian, int32(150))
	w.chunk("XYZI", u32s(0))
	_, err = ReadVox(bytes.NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrInvalidVox)
}

func TestReadVoxRejectsOversizedChunk(t *testing.T) {
	var w voxWriter
	w.WriteString(VOXMagicNumber)
	binary.Write(&w, binary.LittleEndian, int32(150))
	w.WriteString("XYZI")
	binary.Write(&w, binary.LittleEndian, int32(0x7FFFFFF0))
	binary.Write(&w, binary.LittleEndian, int32(0))

	_, err := ReadVox(bytes.NewReader(w.Bytes()))
	require.ErrorIs(t, err, ErrInvalidVox)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDepthFor(t *testing.T) {
	for _, tc := range []struct {
		size  uint32
		depth int
	}{{1, 0}, {2, 1}, {3, 2}, {16, 4}, {17, 5}, {256, 8}} {
		m := VoxModel{SizeX: 1, SizeY: tc.size, SizeZ: 1}
		assert.Equal(t, tc.depth, m.DepthFor(), "size %d", tc.size)
	}
}
