package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a contiguous pixel buffer with optional row stride.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions
// and format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	requiredSize := stride*(height-1) + minStride
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice, including any row padding.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// Packed returns the pixel data with rows laid out back to back.
// When the buffer has no row padding the underlying slice is returned
// without copying.
func (b *ImageBuf) Packed() []byte {
	rowBytes := b.format.RowBytes(b.width)
	if b.stride == rowBytes && len(b.data) == rowBytes*b.height {
		return b.data
	}
	out := make([]byte, rowBytes*b.height)
	for y := range b.height {
		copy(out[y*rowBytes:], b.RowBytes(y))
	}
	return out
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// pixelOffset returns the byte offset of pixel (x, y) in the data slice,
// or -1 if the coordinates are out of bounds.
func (b *ImageBuf) pixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// For grayscale formats, r=g=b=gray and a=255.
// For formats without alpha, a=255.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	offset := b.pixelOffset(x, y)
	if offset < 0 {
		return 0, 0, 0, 0
	}
	pixel := b.data[offset:]

	switch b.format {
	case FormatGray8:
		v := pixel[0]
		return v, v, v, 255
	case FormatRGB8:
		return pixel[0], pixel[1], pixel[2], 255
	case FormatRGBA8:
		return pixel[0], pixel[1], pixel[2], pixel[3]
	case FormatBGRA8:
		return pixel[2], pixel[1], pixel[0], pixel[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA sets the color at (x, y) from (r, g, b, a) in 0-255 range.
// For grayscale formats, uses standard luminance weights.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.pixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		gray := (int(r)*299 + int(g)*587 + int(bl)*114) / 1000
		b.data[offset] = byte(gray)
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	case FormatBGRA8:
		b.data[offset] = bl
		b.data[offset+1] = g
		b.data[offset+2] = r
		b.data[offset+3] = a
	}
	return nil
}

// Clear sets all pixels to zero (transparent black for RGBA formats).
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// WriteRect copies tightly packed pixels of this buffer's format into the
// width x height rectangle at (x, y).
func (b *ImageBuf) WriteRect(x, y, width, height int, pix []byte) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if x < 0 || y < 0 || x+width > b.width || y+height > b.height {
		return ErrOutOfBounds
	}
	rowBytes := b.format.RowBytes(width)
	if len(pix) < rowBytes*height {
		return ErrDataTooSmall
	}

	bpp := b.format.BytesPerPixel()
	for row := range height {
		dst := (y+row)*b.stride + x*bpp
		copy(b.data[dst:dst+rowBytes], pix[row*rowBytes:(row+1)*rowBytes])
	}
	return nil
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}
