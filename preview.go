package voxeloctree

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"

	"github.com/gekko3d/voxeloctree/voxelrt/rt/flatten"
	"github.com/gekko3d/voxeloctree/voxelrt/rt/volume"
)

// SliceImage renders the z-slice of a flat buffer by decoding every voxel through
// the buffer alone. Empty voxels stay transparent.
func SliceImage(buf *flatten.Buffer, z int) (*image.RGBA, error) {
	r, err := flatten.NewReader(buf)
	if err != nil {
		return nil, err
	}
	size := 1 << uint(buf.Layout.Depth)
	if z < 0 || z >= size {
		return nil, fmt.Errorf("slice %d outside 0..%d", z, size-1)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v, ok, err := r.Lookup(x, y, z)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			cr, cg, cb := volume.UnpackRGB8(v)
			img.SetRGBA(x, y, color.RGBA{R: cr, G: cg, B: cb, A: 255})
		}
	}
	return img, nil
}

func WriteSliceBMP(w io.Writer, buf *flatten.Buffer, z int) error {
	img, err := SliceImage(buf, z)
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}
