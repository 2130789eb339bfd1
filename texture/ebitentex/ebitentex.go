// Package ebitentex adapts an ebiten image to the spritepack texture
// contract, so an atlas can be built straight into a texture Ebitengine
// draws from.
//
// Ebitengine manages its own mipmaps, so only level 0 is stored: uploads to
// higher levels are validated and dropped and GenerateMipmaps does nothing.
package ebitentex

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/spritepack/texture"
)

// ErrNoImage is returned by Image before Allocate.
var ErrNoImage = errors.New("ebitentex: image not allocated")

// Texture is a texture.Texture backed by an *ebiten.Image.
//
// Like every ebiten image it must only be used from the game goroutine.
type Texture struct {
	label     string
	img       *ebiten.Image
	levels    int
	scratch   []byte
	destroyed bool
}

// New creates an unallocated ebiten texture.
func New(label string) *Texture {
	return &Texture{label: label}
}

// Factory returns a texture.Factory producing ebiten textures.
func Factory() texture.Factory {
	return func(label string) (texture.Texture, error) {
		return New(label), nil
	}
}

// Allocate implements texture.Texture.
func (t *Texture) Allocate(levels, width, height int) error {
	if t.destroyed {
		return texture.ErrTextureDestroyed
	}
	if width <= 0 || height <= 0 || levels <= 0 {
		return fmt.Errorf("%w: %dx%d with %d levels", texture.ErrInvalidDimensions, width, height, levels)
	}
	if t.img != nil {
		t.img.Deallocate()
	}
	t.img = ebiten.NewImage(width, height)
	t.levels = levels
	return nil
}

// UploadRegion implements texture.Texture. pixels are straight-alpha RGBA8
// and are premultiplied on the way in, as ebiten expects.
func (t *Texture) UploadRegion(level, x, y, width, height int, pixels []byte) error {
	if t.destroyed {
		return texture.ErrTextureDestroyed
	}
	if t.img == nil {
		return texture.ErrNotAllocated
	}
	if level < 0 || level >= t.levels {
		return fmt.Errorf("%w: level %d of %d", texture.ErrLevelOutOfRange, level, t.levels)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: region %dx%d", texture.ErrInvalidDimensions, width, height)
	}
	lw, lh := texture.LevelSize(t.Width(), t.Height(), level)
	if x < 0 || y < 0 || x+width > lw || y+height > lh {
		return fmt.Errorf("%w: region (%d,%d)+(%dx%d) exceeds level %d (%dx%d)",
			texture.ErrRegionOutOfBounds, x, y, width, height, level, lw, lh)
	}
	if want := width * height * 4; len(pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", texture.ErrPixelCount, len(pixels), want)
	}
	if level > 0 {
		return nil
	}

	t.scratch = premultiply(t.scratch[:0], pixels)
	sub := t.img.SubImage(image.Rect(x, y, x+width, y+height)).(*ebiten.Image)
	sub.WritePixels(t.scratch)
	return nil
}

func premultiply(dst, src []byte) []byte {
	for i := 0; i+3 < len(src); i += 4 {
		a := uint16(src[i+3])
		dst = append(dst,
			byte((uint16(src[i])*a+127)/255),
			byte((uint16(src[i+1])*a+127)/255),
			byte((uint16(src[i+2])*a+127)/255),
			src[i+3])
	}
	return dst
}

// GenerateMipmaps implements texture.Texture. Ebitengine builds mipmaps
// itself when drawing with a minifying filter.
func (t *Texture) GenerateMipmaps() error {
	if t.destroyed {
		return texture.ErrTextureDestroyed
	}
	if t.img == nil {
		return texture.ErrNotAllocated
	}
	return nil
}

// Destroy implements texture.Texture.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	t.scratch = nil
}

// Width implements texture.Texture.
func (t *Texture) Width() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

// Height implements texture.Texture.
func (t *Texture) Height() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dy()
}

// Levels implements texture.Texture.
func (t *Texture) Levels() int {
	return t.levels
}

// Label returns the debug label.
func (t *Texture) Label() string {
	return t.label
}

// Image returns the backing ebiten image.
func (t *Texture) Image() (*ebiten.Image, error) {
	if t.destroyed {
		return nil, texture.ErrTextureDestroyed
	}
	if t.img == nil {
		return nil, ErrNoImage
	}
	return t.img, nil
}

// SubImage returns the part of the atlas image covered by the rectangle,
// ready for use as a sprite frame.
func (t *Texture) SubImage(x, y, width, height int) (*ebiten.Image, error) {
	img, err := t.Image()
	if err != nil {
		return nil, err
	}
	return img.SubImage(image.Rect(x, y, x+width, y+height)).(*ebiten.Image), nil
}
