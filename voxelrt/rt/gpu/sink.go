// Package gpu uploads flattened octrees as 3D textures.
package gpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/voxeloctree"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
)

// WebGPU's default maxTextureDimension3D.
const maxTextureDimension3D = 2048

type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Layout  flatten.Layout
}

func (t *Texture) Release() {
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}

var _ voxeloctree.TextureSink = (*TextureSink)(nil)

// TextureSink turns each accepted buffer into an R32Uint 3D texture of
// Dimension() x Dimension() x Layers() texels, one word per texel.
type TextureSink struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	mu       sync.Mutex
	textures map[voxeloctree.AssetId]*Texture
}

func NewTextureSink(device *wgpu.Device, queue *wgpu.Queue) *TextureSink {
	return &TextureSink{
		Device:   device,
		Queue:    queue,
		textures: make(map[voxeloctree.AssetId]*Texture),
	}
}

func (s *TextureSink) Accept(id voxeloctree.AssetId, buf *flatten.Buffer) error {
	dim := uint32(buf.Layout.Dimension())
	layers := uint32(buf.Layout.Layers())
	if dim > maxTextureDimension3D || layers > maxTextureDimension3D {
		return fmt.Errorf("texture %s: %dx%dx%d exceeds %d", id, dim, dim, layers, maxTextureDimension3D)
	}
	if len(buf.Words) != buf.Layout.Len() {
		return fmt.Errorf("texture %s: %w", id, flatten.ErrCorruptBuffer)
	}

	extent := wgpu.Extent3D{
		Width:              dim,
		Height:             dim,
		DepthOrArrayLayers: layers,
	}
	texture, err := s.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Octree " + string(id),
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension3D,
		Format:        wgpu.TextureFormatR32Uint,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("texture %s: %w", id, err)
	}

	err = s.Queue.WriteTexture(
		texture.AsImageCopy(),
		buf.Bytes(),
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * dim,
			RowsPerImage: dim,
		},
		&extent,
	)
	if err != nil {
		texture.Release()
		return fmt.Errorf("texture %s: write: %w", id, err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("texture %s: view: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.textures[id]; ok {
		prev.Release()
	}
	s.textures[id] = &Texture{Texture: texture, View: view, Layout: buf.Layout}
	return nil
}

func (s *TextureSink) Texture(id voxeloctree.AssetId) (*Texture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.textures[id]
	return t, ok
}

// Release frees every texture the sink created. The device stays with the caller.
func (s *TextureSink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.textures {
		t.Release()
		delete(s.textures, id)
	}
}
