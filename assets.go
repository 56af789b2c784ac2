package voxeloctree

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

type TextureFormat uint32

// Matches the WebGPU enum value so sinks can pass it through.
const TextureFormatR32Uint TextureFormat = 0x0000000D

// TextureSink receives a finished flat buffer. A sink never sees a buffer from a
// bake that failed.
type TextureSink interface {
	Accept(id AssetId, buf *flatten.Buffer) error
}

// TextureAsset is a 3D texture of uint32 texels, one per word, x-fastest. Width
// and height are Dimension, depth is Layers.
type TextureAsset struct {
	version   uint
	texels    []byte
	dimension uint32
	layers    uint32
	format    TextureFormat
	layout    flatten.Layout
}

func (a TextureAsset) Version() uint          { return a.version }
func (a TextureAsset) Texels() []byte         { return a.texels }
func (a TextureAsset) Dimension() uint32      { return a.dimension }
func (a TextureAsset) Layers() uint32         { return a.layers }
func (a TextureAsset) Format() TextureFormat  { return a.format }
func (a TextureAsset) Layout() flatten.Layout { return a.layout }

// MemorySink keeps uploaded textures in process, keyed by asset id. Accepting an
// id twice replaces the texture and bumps its version.
type MemorySink struct {
	mu       sync.Mutex
	textures map[AssetId]TextureAsset
}

func NewMemorySink() *MemorySink {
	return &MemorySink{textures: make(map[AssetId]TextureAsset)}
}

func (s *MemorySink) Accept(id AssetId, buf *flatten.Buffer) error {
	if buf == nil || len(buf.Words) != buf.Layout.Len() {
		return fmt.Errorf("texture %s: %w", id, flatten.ErrCorruptBuffer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var version uint
	if prev, ok := s.textures[id]; ok {
		version = prev.version + 1
	}
	s.textures[id] = TextureAsset{
		version:   version,
		texels:    buf.Bytes(),
		dimension: uint32(buf.Layout.Dimension()),
		layers:    uint32(buf.Layout.Layers()),
		format:    TextureFormatR32Uint,
		layout:    buf.Layout,
	}
	return nil
}

func (s *MemorySink) Texture(id AssetId) (TextureAsset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tex, ok := s.textures[id]
	return tex, ok
}

func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.textures)
}
