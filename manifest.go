package voxeloctree

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
)

const manifestFormat = "r32uint-le"

// Manifest describes a raw word dump so it can be uploaded without the tree.
type Manifest struct {
	Asset         AssetId `json:"asset"`
	Format        string  `json:"format"`
	Depth         int     `json:"depth"`
	GridWidth     int     `json:"grid_width"`
	Dimension     int     `json:"dimension"`
	Layers        int     `json:"layers"`
	InternalNodes int     `json:"internal_nodes"`
	Leaves        int     `json:"leaves"`
	Words         int     `json:"words"`
	AddressBits   int     `json:"address_bits"`
	Skipped       int     `json:"skipped,omitempty"`
}

func NewManifest(res *Result, cfg Config) Manifest {
	l := res.Buffer.Layout
	return Manifest{
		Asset:         res.Asset,
		Format:        manifestFormat,
		Depth:         l.Depth,
		GridWidth:     l.GridWidth,
		Dimension:     l.Dimension(),
		Layers:        l.Layers(),
		InternalNodes: l.Internal,
		Leaves:        res.Tree.LeafCount(),
		Words:         len(res.Buffer.Words),
		AddressBits:   cfg.AddressBits,
		Skipped:       res.Report.Skipped,
	}
}

// Layout rebuilds the buffer layout from depth and internal node count.
func (m Manifest) Layout() flatten.Layout {
	return flatten.NewLayout(m.Depth, m.InternalNodes)
}

func WriteManifest(w io.Writer, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	if m.Format != manifestFormat {
		return Manifest{}, fmt.Errorf("manifest: unsupported format %q", m.Format)
	}
	l := m.Layout()
	if m.GridWidth != l.GridWidth || m.Words != l.Len() {
		return Manifest{}, fmt.Errorf("manifest: %d words and grid width %d do not match depth %d", m.Words, m.GridWidth, m.Depth)
	}
	return m, nil
}

// WriteBuffer dumps the words little-endian, the byte order the texture upload uses.
func WriteBuffer(w io.Writer, buf *flatten.Buffer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBuffer loads a dump written by WriteBuffer.
func ReadBuffer(r io.Reader, m Manifest) (*flatten.Buffer, error) {
	words := make([]uint32, m.Words)
	if err := binary.Read(bufio.NewReader(r), binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("read %d words: %w", m.Words, err)
	}
	buf := &flatten.Buffer{Words: make([]flatten.Word, len(words)), Layout: m.Layout()}
	for i, w := range words {
		buf.Words[i] = flatten.Word(w)
	}
	return buf, nil
}
