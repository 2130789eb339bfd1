package image

import "math"

// MaxLevels returns the number of levels in a full mip chain for a
// width x height image (down to 1x1).
func MaxLevels(width, height int) int {
	maxDim := max(width, height)
	if maxDim <= 0 {
		return 0
	}
	return 1 + int(math.Floor(math.Log2(float64(maxDim))))
}

// DownsampleInto box-filters src into dst, where dst is expected to be half
// of src in each dimension (rounded down, at least 1). Odd edges repeat the
// last row or column.
func DownsampleInto(dst, src *ImageBuf) {
	srcW, srcH := src.Bounds()
	dstW, dstH := dst.Bounds()

	for dy := 0; dy < dstH; dy++ {
		for dx := 0; dx < dstW; dx++ {
			sx := dx * 2
			sy := dy * 2

			// Sample 2x2 region (handle odd dimensions)
			r0, g0, b0, a0 := src.GetRGBA(sx, sy)
			r1, g1, b1, a1 := src.GetRGBA(min(sx+1, srcW-1), sy)
			r2, g2, b2, a2 := src.GetRGBA(sx, min(sy+1, srcH-1))
			r3, g3, b3, a3 := src.GetRGBA(min(sx+1, srcW-1), min(sy+1, srcH-1))

			r := (uint16(r0) + uint16(r1) + uint16(r2) + uint16(r3)) / 4
			g := (uint16(g0) + uint16(g1) + uint16(g2) + uint16(g3)) / 4
			b := (uint16(b0) + uint16(b1) + uint16(b2) + uint16(b3)) / 4
			a := (uint16(a0) + uint16(a1) + uint16(a2) + uint16(a3)) / 4

			_ = dst.SetRGBA(dx, dy, byte(r), byte(g), byte(b), byte(a))
		}
	}
}
