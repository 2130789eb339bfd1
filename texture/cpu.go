package texture

import (
	"fmt"
	"image"
	"io"
	"strings"

	"golang.org/x/image/draw"

	intImage "github.com/gogpu/spritepack/internal/image"
)

// Filter selects how CPUTexture.GenerateMipmaps derives each level from the
// one above it.
type Filter uint8

const (
	// FilterBox averages 2x2 blocks. This is the default.
	FilterBox Filter = iota

	// FilterBiLinear resamples with golang.org/x/image/draw.BiLinear.
	FilterBiLinear

	// FilterCatmullRom resamples with golang.org/x/image/draw.CatmullRom.
	FilterCatmullRom
)

// String returns the filter name as accepted by ParseFilter.
func (f Filter) String() string {
	switch f {
	case FilterBox:
		return "box"
	case FilterBiLinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmullrom"
	default:
		return fmt.Sprintf("Filter(%d)", f)
	}
}

// ParseFilter returns the filter with the given case-insensitive name.
// The empty string selects FilterBox.
func ParseFilter(name string) (Filter, bool) {
	switch strings.ToLower(name) {
	case "", "box":
		return FilterBox, true
	case "bilinear":
		return FilterBiLinear, true
	case "catmullrom", "catmull-rom":
		return FilterCatmullRom, true
	default:
		return FilterBox, false
	}
}

// CPUTexture is a Texture held entirely in system memory, one RGBA8 buffer
// per mip level. It is the default texture of the atlas builder and backs
// the staging copy of GPUTexture.
//
// CPUTexture is NOT safe for concurrent use.
type CPUTexture struct {
	label     string
	filter    Filter
	levels    []*intImage.ImageBuf
	destroyed bool
}

// NewCPUTexture creates an unallocated CPU texture.
func NewCPUTexture(label string, filter Filter) *CPUTexture {
	return &CPUTexture{label: label, filter: filter}
}

// CPUFactory returns a Factory producing CPU textures with the given filter.
func CPUFactory(filter Filter) Factory {
	return func(label string) (Texture, error) {
		return NewCPUTexture(label, filter), nil
	}
}

// Allocate implements Texture. Allocating again discards previous contents.
func (t *CPUTexture) Allocate(levels, width, height int) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if width <= 0 || height <= 0 || levels <= 0 {
		return fmt.Errorf("%w: %dx%d with %d levels", ErrInvalidDimensions, width, height, levels)
	}
	if limit := intImage.MaxLevels(width, height); levels > limit {
		return fmt.Errorf("%w: %d levels requested, %dx%d supports %d",
			ErrInvalidDimensions, levels, width, height, limit)
	}

	bufs := make([]*intImage.ImageBuf, levels)
	for i := range bufs {
		w, h := LevelSize(width, height, i)
		buf, err := intImage.NewImageBuf(w, h, intImage.FormatRGBA8)
		if err != nil {
			return fmt.Errorf("texture: allocate level %d: %w", i, err)
		}
		bufs[i] = buf
	}
	t.levels = bufs

	slogger().Debug("cpu texture allocated",
		"label", t.label, "width", width, "height", height, "levels", levels)
	return nil
}

// UploadRegion implements Texture.
func (t *CPUTexture) UploadRegion(level, x, y, width, height int, pixels []byte) error {
	dst, err := t.level(level)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: region %dx%d", ErrInvalidDimensions, width, height)
	}
	if x < 0 || y < 0 || x+width > dst.Width() || y+height > dst.Height() {
		return fmt.Errorf("%w: region (%d,%d)+(%dx%d) exceeds level %d (%dx%d)",
			ErrRegionOutOfBounds, x, y, width, height, level, dst.Width(), dst.Height())
	}
	if want := width * height * FormatRGBA8.BytesPerPixel(); len(pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelCount, len(pixels), want)
	}
	return dst.WriteRect(x, y, width, height, pixels)
}

// GenerateMipmaps implements Texture using the texture's Filter.
func (t *CPUTexture) GenerateMipmaps() error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if len(t.levels) == 0 {
		return ErrNotAllocated
	}
	for i := 1; i < len(t.levels); i++ {
		downsample(t.levels[i], t.levels[i-1], t.filter)
	}
	return nil
}

func downsample(dst, src *intImage.ImageBuf, filter Filter) {
	var interp draw.Interpolator
	switch filter {
	case FilterBiLinear:
		interp = draw.BiLinear
	case FilterCatmullRom:
		interp = draw.CatmullRom
	default:
		intImage.DownsampleInto(dst, src)
		return
	}
	d := nrgbaView(dst)
	s := nrgbaView(src)
	interp.Scale(d, d.Rect, s, s.Rect, draw.Src, nil)
}

// nrgbaView wraps an RGBA8 buffer as an *image.NRGBA without copying.
func nrgbaView(b *intImage.ImageBuf) *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Data(),
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width(), b.Height()),
	}
}

// Destroy implements Texture.
func (t *CPUTexture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.levels = nil
	slogger().Debug("cpu texture destroyed", "label", t.label)
}

// Width implements Texture.
func (t *CPUTexture) Width() int {
	if len(t.levels) == 0 {
		return 0
	}
	return t.levels[0].Width()
}

// Height implements Texture.
func (t *CPUTexture) Height() int {
	if len(t.levels) == 0 {
		return 0
	}
	return t.levels[0].Height()
}

// Levels implements Texture.
func (t *CPUTexture) Levels() int {
	return len(t.levels)
}

// Label returns the debug label.
func (t *CPUTexture) Label() string {
	return t.label
}

// Filter returns the mipmap filter.
func (t *CPUTexture) Filter() Filter {
	return t.filter
}

// IsDestroyed reports whether Destroy has been called.
func (t *CPUTexture) IsDestroyed() bool {
	return t.destroyed
}

// Pixels returns the tightly packed RGBA8 pixels of a level.
// The slice aliases the texture storage.
func (t *CPUTexture) Pixels(level int) ([]byte, error) {
	buf, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return buf.Packed(), nil
}

// Image returns a copy of a level as an *image.NRGBA, ready for encoding.
func (t *CPUTexture) Image(level int) (image.Image, error) {
	buf, err := t.level(level)
	if err != nil {
		return nil, err
	}
	return buf.ToStdImage(), nil
}

// EncodePNG writes a level to w as a non-premultiplied PNG.
func (t *CPUTexture) EncodePNG(level int, w io.Writer) error {
	buf, err := t.level(level)
	if err != nil {
		return err
	}
	return buf.EncodePNG(w)
}

// SavePNG writes a level to a PNG file at path.
func (t *CPUTexture) SavePNG(level int, path string) error {
	buf, err := t.level(level)
	if err != nil {
		return err
	}
	return buf.SavePNG(path)
}

func (t *CPUTexture) level(n int) (*intImage.ImageBuf, error) {
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	if len(t.levels) == 0 {
		return nil, ErrNotAllocated
	}
	if n < 0 || n >= len(t.levels) {
		return nil, fmt.Errorf("%w: level %d of %d", ErrLevelOutOfRange, n, len(t.levels))
	}
	return t.levels[n], nil
}

// String returns a string representation of the texture.
func (t *CPUTexture) String() string {
	status := "active"
	if t.destroyed {
		status = "destroyed"
	}
	return fmt.Sprintf("CPUTexture[%s %dx%d %d levels %s %s]",
		t.label, t.Width(), t.Height(), t.Levels(), t.filter, status)
}
