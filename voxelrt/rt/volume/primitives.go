package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shell fills the voxels whose normalised position (grid mapped onto [-1, 1))
// lies strictly between inner and outer radius, coloured with three phase-shifted
// sine bands along x+y+z. It returns the number of voxels written.
func Shell(d *Dense, inner, outer float32) int {
	n := 0
	size := float32(d.Size)
	for z := 0; z < d.Size; z++ {
		for y := 0; y < d.Size; y++ {
			for x := 0; x < d.Size; x++ {
				p := mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(2 / size).Sub(mgl32.Vec3{1, 1, 1})
				l := p.Len()
				if l >= outer || l <= inner {
					continue
				}
				phase := float64((p.X() + p.Y() + p.Z()) * 10)
				c := mgl32.Vec3{
					float32(math.Sin(phase)*0.4 + 0.6),
					float32(math.Sin(phase+2)*0.4 + 0.6),
					float32(math.Sin(phase+4)*0.4 + 0.6),
				}
				if d.Set(x, y, z, PackRGB(c)) {
					n++
				}
			}
		}
	}
	return n
}

// Sphere fills a ball in grid coordinates. Voxels outside the grid are clipped.
func Sphere(d *Dense, center mgl32.Vec3, radius float32, value uint32) int {
	r2 := radius * radius
	minX, minY, minZ := floorVec(center.Sub(mgl32.Vec3{radius, radius, radius}))
	maxX, maxY, maxZ := ceilVec(center.Add(mgl32.Vec3{radius, radius, radius}))

	n := 0
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				dx := float32(x) - center.X() + 0.5
				dy := float32(y) - center.Y() + 0.5
				dz := float32(z) - center.Z() + 0.5
				if dx*dx+dy*dy+dz*dz <= r2 && d.Set(x, y, z, value) {
					n++
				}
			}
		}
	}
	return n
}

// Cube fills the voxels between minB and maxB inclusive.
func Cube(d *Dense, minB, maxB mgl32.Vec3, value uint32) int {
	minX, minY, minZ := floorVec(minB)
	maxX, maxY, maxZ := floorVec(maxB)

	n := 0
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if d.Set(x, y, z, value) {
					n++
				}
			}
		}
	}
	return n
}

// Point fills a single voxel.
func Point(d *Dense, x, y, z int, value uint32) bool {
	return d.Set(x, y, z, value)
}

func floorVec(v mgl32.Vec3) (int, int, int) {
	return int(math.Floor(float64(v.X()))), int(math.Floor(float64(v.Y()))), int(math.Floor(float64(v.Z())))
}

func ceilVec(v mgl32.Vec3) (int, int, int) {
	return int(math.Ceil(float64(v.X()))), int(math.Ceil(float64(v.Y()))), int(math.Ceil(float64(v.Z())))
}
