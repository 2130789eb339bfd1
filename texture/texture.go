// Package texture defines the GPU texture collaborator used by the atlas
// builder, together with a software implementation ([CPUTexture]) and a
// wgpu-facing implementation ([GPUTexture]).
//
// A texture is allocated once with a fixed number of mip levels, filled with
// [Texture.UploadRegion] calls and optionally asked to fill the remaining
// levels with [Texture.GenerateMipmaps]. Pixel data is always tightly packed
// RGBA8 unless a texture documents otherwise.
package texture

import "errors"

// Texture errors.
var (
	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("texture: texture has been destroyed")

	// ErrNotAllocated is returned when uploading before Allocate.
	ErrNotAllocated = errors.New("texture: storage not allocated")

	// ErrInvalidDimensions is returned when width, height or levels are invalid.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrRegionOutOfBounds is returned when an upload region exceeds the level.
	ErrRegionOutOfBounds = errors.New("texture: region exceeds level bounds")

	// ErrLevelOutOfRange is returned for a mip level the texture does not have.
	ErrLevelOutOfRange = errors.New("texture: mip level out of range")

	// ErrPixelCount is returned when the pixel slice does not match the region.
	ErrPixelCount = errors.New("texture: pixel data size does not match region")
)

// Texture is a mip-mapped 2D texture that sprites are uploaded into.
//
// Implementations are not required to be safe for concurrent use.
type Texture interface {
	// Allocate reserves storage for levels mip levels of a width x height
	// base image. Level i is max(1, width>>i) x max(1, height>>i).
	Allocate(levels, width, height int) error

	// UploadRegion copies tightly packed RGBA8 pixels into the
	// width x height rectangle at (x, y) of the given level.
	UploadRegion(level, x, y, width, height int, pixels []byte) error

	// GenerateMipmaps fills levels 1..Levels()-1 from level 0.
	GenerateMipmaps() error

	// Destroy releases the texture. It is safe to call more than once.
	Destroy()

	// Width returns the level 0 width in pixels.
	Width() int

	// Height returns the level 0 height in pixels.
	Height() int

	// Levels returns the number of allocated mip levels.
	Levels() int
}

// Factory creates an unallocated texture. label is a debug name.
type Factory func(label string) (Texture, error)

// LevelSize returns the dimensions of mip level n of a width x height texture.
func LevelSize(width, height, n int) (int, int) {
	return max(1, width>>n), max(1, height>>n)
}
