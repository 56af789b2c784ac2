package volume

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

const VOXMagicNumber = "VOX "

var ErrInvalidVox = errors.New("invalid VOX data")

// Largest chunk a valid file can carry: an XYZI chunk filling a 256^3 model.
const maxChunkSize = 4 + 4*256*256*256

type Voxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type VoxPalette [256][4]byte // RGBA

type VoxFile struct {
	Version int
	Models  []VoxModel
	Palette VoxPalette
}

// OpenVox reads a MagicaVoxel file from disk.
func OpenVox(filename string) (*VoxFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vf, err := ReadVox(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return vf, nil
}

// ReadVox parses the SIZE, XYZI, RGBA and PACK chunks of a MagicaVoxel stream.
// Other chunks are skipped.
func ReadVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != VOXMagicNumber {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidVox, magic[:])
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}

	vf := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}

	// SIZE and XYZI come in pairs; next is the model the following pair fills.
	next := 0
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		var header [2]int32
		if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
			return nil, err
		}
		chunkSize := header[0]
		if chunkSize < 0 {
			return nil, fmt.Errorf("%w: %s chunk has negative size", ErrInvalidVox, chunkID[:])
		}
		if chunkSize > maxChunkSize {
			return nil, fmt.Errorf("%w: %s chunk of %d bytes exceeds %d", ErrInvalidVox, chunkID[:], chunkSize, maxChunkSize)
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, err
		}

		switch string(chunkID[:]) {
		case "MAIN":
			// MAIN only wraps the other chunks.
			continue
		case "PACK":
			if len(chunkData) < 4 {
				return nil, fmt.Errorf("%w: PACK chunk too small", ErrInvalidVox)
			}
			if n := binary.LittleEndian.Uint32(chunkData[:4]); n > 0 {
				vf.Models = make([]VoxModel, 0, n)
			}
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, fmt.Errorf("%w: SIZE chunk too small", ErrInvalidVox)
			}
			vf.Models = append(vf.Models, VoxModel{
				SizeX: binary.LittleEndian.Uint32(chunkData[0:4]),
				SizeY: binary.LittleEndian.Uint32(chunkData[4:8]),
				SizeZ: binary.LittleEndian.Uint32(chunkData[8:12]),
			})
		case "XYZI":
			if next >= len(vf.Models) {
				return nil, fmt.Errorf("%w: XYZI chunk without SIZE", ErrInvalidVox)
			}
			if len(chunkData) < 4 {
				return nil, fmt.Errorf("%w: XYZI chunk too small", ErrInvalidVox)
			}
			numVoxels := int(binary.LittleEndian.Uint32(chunkData[:4]))
			if 4+numVoxels*4 > len(chunkData) {
				return nil, fmt.Errorf("%w: XYZI chunk data overflow", ErrInvalidVox)
			}
			model := &vf.Models[next]
			model.Voxels = make([]Voxel, numVoxels)
			for i := range model.Voxels {
				offset := 4 + i*4
				model.Voxels[i] = Voxel{
					X:          chunkData[offset],
					Y:          chunkData[offset+1],
					Z:          chunkData[offset+2],
					ColorIndex: chunkData[offset+3],
				}
			}
			next++
		case "RGBA":
			// Palette entry i of the file is colour index i+1.
			for i := 0; i < 255; i++ {
				offset := i * 4
				if offset+3 >= len(chunkData) {
					break
				}
				copy(vf.Palette[i+1][:], chunkData[offset:offset+4])
			}
		}
	}

	return vf, nil
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]uint8{255, 255, 255, 255} // white as fallback
	}
	return palette
}

// DepthFor returns the smallest octree depth whose grid holds the model.
func (m *VoxModel) DepthFor() int {
	size := max(m.SizeX, m.SizeY, m.SizeZ)
	depth := 0
	for uint32(1)<<uint(depth) < size {
		depth++
	}
	return depth
}

// Source exposes a model as samples coloured through the file's palette.
func (vf *VoxFile) Source(model int) (Source, error) {
	if model < 0 || model >= len(vf.Models) {
		return nil, fmt.Errorf("%w: model %d of %d", ErrInvalidVox, model, len(vf.Models))
	}
	return voxSource{model: &vf.Models[model], palette: &vf.Palette}, nil
}

type voxSource struct {
	model   *VoxModel
	palette *VoxPalette
}

func (s voxSource) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for _, v := range s.model.Voxels {
			c := s.palette[v.ColorIndex]
			value := PackRGB8(c[0], c[1], c[2])
			if !yield(Sample{X: int(v.X), Y: int(v.Y), Z: int(v.Z), Value: value}) {
				return
			}
		}
	}
}
