package volume

import "github.com/go-gl/mathgl/mgl32"

// PackRGB converts a colour with components in [0, 1] into r<<16 | g<<8 | b.
// Components are clamped and truncated to 8 bits.
func PackRGB(c mgl32.Vec3) uint32 {
	r := uint32(mgl32.Clamp(c.X(), 0, 1) * 255)
	g := uint32(mgl32.Clamp(c.Y(), 0, 1) * 255)
	b := uint32(mgl32.Clamp(c.Z(), 0, 1) * 255)
	return r<<16 | g<<8 | b
}

func UnpackRGB(v uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((v>>16)&0xFF) / 255,
		float32((v>>8)&0xFF) / 255,
		float32(v&0xFF) / 255,
	}
}

// PackRGB8 packs 8-bit channels.
func PackRGB8(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func UnpackRGB8(v uint32) (r, g, b uint8) {
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
