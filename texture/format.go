package texture

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format represents the pixel format of a texture.
type Format uint8

const (
	// FormatRGBA8 is the standard RGBA format with 8 bits per channel.
	FormatRGBA8 Format = iota

	// FormatBGRA8 is BGRA format, often used for surface presentation.
	FormatBGRA8

	// FormatR8 is single-channel 8-bit format, used for masks.
	FormatR8
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatR8:
		return "R8"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBA8, FormatBGRA8:
		return 4
	case FormatR8:
		return 1
	default:
		return 4
	}
}

// ToGPUFormat converts to the WebGPU texture format.
func (f Format) ToGPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatR8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}
