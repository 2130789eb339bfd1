package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	"golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// Extensions lists the file extensions LoadImage understands.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsImageFile reports whether path has one of the supported extensions.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadImage loads an image from the given file path.
// PNG, JPEG and WebP are decoded directly; everything else is detected from
// the content.
func LoadImage(path string) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return DecodePNG(f)
	case ".jpg", ".jpeg":
		return DecodeJPEG(f)
	case ".webp":
		return DecodeWebP(f)
	default:
		return Decode(f)
	}
}

// LoadImageFromBytes loads an image from a byte slice, auto-detecting the format.
func LoadImageFromBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodePNG decodes a PNG image from the given reader.
func DecodePNG(r io.Reader) (*ImageBuf, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode PNG: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeJPEG decodes a JPEG image from the given reader.
func DecodeJPEG(r io.Reader) (*ImageBuf, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode JPEG: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeWebP decodes a WebP image from the given reader.
func DecodeWebP(r io.Reader) (*ImageBuf, error) {
	img, err := webp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode WebP: %w", err)
	}
	return FromStdImage(img), nil
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// FromStdImage creates an RGBA8 ImageBuf from a standard library image.Image.
// Returns an empty buffer for images with no pixels.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height, FormatRGBA8)
	if err != nil {
		return &ImageBuf{format: FormatRGBA8}
	}

	// Fast path for NRGBA images, which share the RGBA8 layout.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			srcStart := (y+bounds.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride + (bounds.Min.X-nrgba.Rect.Min.X)*4
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	// Everything else goes through draw, which un-premultiplies into NRGBA.
	dst := &image.NRGBA{
		Pix:    buf.Data(),
		Stride: buf.Stride(),
		Rect:   image.Rect(0, 0, width, height),
	}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return buf
}

// ToStdImage converts the ImageBuf to an *image.NRGBA.
func (b *ImageBuf) ToStdImage() image.Image {
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	if b.format == FormatRGBA8 {
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba
	}
	for y := range b.height {
		for x := range b.width {
			r, g, bl, a := b.GetRGBA(x, y)
			off := y*nrgba.Stride + x*4
			nrgba.Pix[off] = r
			nrgba.Pix[off+1] = g
			nrgba.Pix[off+2] = bl
			nrgba.Pix[off+3] = a
		}
	}
	return nrgba
}
