package spritepack

import (
	"fmt"
	"image"

	"golang.org/x/text/unicode/norm"

	intImage "github.com/gogpu/spritepack/internal/image"
)

// Source decodes a sprite image. Decode is called once per Load.
type Source interface {
	Decode() (image.Image, error)
}

// bufDecoder is implemented by the stock sources, which decode straight
// into an RGBA8 buffer.
type bufDecoder interface {
	decodeBuf() (*intImage.ImageBuf, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (image.Image, error)

// Decode calls f.
func (f SourceFunc) Decode() (image.Image, error) { return f() }

// BytesSource is an encoded image held in memory. PNG, JPEG, GIF, BMP, TIFF
// and WebP are detected from the content. Empty bytes fail to decode.
type BytesSource []byte

// Decode implements Source.
func (b BytesSource) Decode() (image.Image, error) {
	buf, err := b.decodeBuf()
	if err != nil {
		return nil, err
	}
	return buf.ToStdImage(), nil
}

func (b BytesSource) decodeBuf() (*intImage.ImageBuf, error) {
	return intImage.LoadImageFromBytes(b)
}

// FileSource is the path of an encoded image file.
type FileSource string

// Decode implements Source.
func (f FileSource) Decode() (image.Image, error) {
	buf, err := f.decodeBuf()
	if err != nil {
		return nil, err
	}
	return buf.ToStdImage(), nil
}

func (f FileSource) decodeBuf() (*intImage.ImageBuf, error) {
	return intImage.LoadImage(string(f))
}

// PixelSource is an already decoded image of straight-alpha RGBA8 pixels,
// tightly packed.
type PixelSource struct {
	Width  int
	Height int
	Pix    []byte
}

// Decode implements Source.
func (p PixelSource) Decode() (image.Image, error) {
	buf, err := p.decodeBuf()
	if err != nil {
		return nil, err
	}
	return buf.ToStdImage(), nil
}

func (p PixelSource) decodeBuf() (*intImage.ImageBuf, error) {
	if p.Width == 0 && p.Height == 0 && len(p.Pix) == 0 {
		return nil, nil
	}
	return intImage.FromRaw(p.Pix, p.Width, p.Height, intImage.FormatRGBA8, p.Width*4)
}

// SpriteInfo describes one named sprite handed to TextureAtlas.Load.
//
// DefaultWidth and DefaultHeight size a transparent sprite when the source
// yields an empty image, or when Source is nil.
type SpriteInfo struct {
	Name          string
	Source        Source
	DefaultWidth  int
	DefaultHeight int

	buf    *intImage.ImageBuf
	width  int
	height int
	loaded bool
}

// NewSprite creates a sprite with the given name and source.
func NewSprite(name string, src Source) *SpriteInfo {
	return &SpriteInfo{Name: name, Source: src}
}

// Width returns the decoded width, or 0 before the sprite was loaded.
func (s *SpriteInfo) Width() int { return s.width }

// Height returns the decoded height, or 0 before the sprite was loaded.
func (s *SpriteInfo) Height() int { return s.height }

// Loaded reports whether the sprite currently holds decoded pixels.
func (s *SpriteInfo) Loaded() bool { return s.loaded }

// key returns the NFC-normalized name used for lookups.
func (s *SpriteInfo) key() string {
	return normalizeName(s.Name)
}

func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// load decodes the sprite into an RGBA8 buffer and records its size.
// An empty image falls back to the default dimensions; with no defaults the
// sprite is zero-sized and will not be placed.
func (s *SpriteInfo) load() error {
	s.release()
	s.width, s.height = 0, 0

	buf, err := s.decode()
	if err != nil {
		return &DecodeError{Name: s.Name, Err: err}
	}
	if buf == nil || buf.IsEmpty() {
		buf = nil
		if s.DefaultWidth > 0 && s.DefaultHeight > 0 {
			buf, err = intImage.NewImageBuf(s.DefaultWidth, s.DefaultHeight, intImage.FormatRGBA8)
			if err != nil {
				return &DecodeError{Name: s.Name, Err: err}
			}
		}
	}
	if buf != nil && buf.Format() != intImage.FormatRGBA8 {
		return &DecodeError{Name: s.Name, Err: fmt.Errorf("%w: %s", intImage.ErrInvalidFormat, buf.Format())}
	}

	s.buf = buf
	s.loaded = true
	if buf != nil {
		s.width, s.height = buf.Bounds()
	}
	return nil
}

func (s *SpriteInfo) decode() (*intImage.ImageBuf, error) {
	switch src := s.Source.(type) {
	case nil:
		if s.DefaultWidth > 0 && s.DefaultHeight > 0 {
			return nil, nil
		}
		return nil, ErrNilSource
	case bufDecoder:
		return src.decodeBuf()
	default:
		img, err := src.Decode()
		if err != nil {
			return nil, err
		}
		if img == nil {
			return nil, nil
		}
		return intImage.FromStdImage(img), nil
	}
}

// pixels returns the tightly packed RGBA8 pixels, or nil for an empty sprite.
func (s *SpriteInfo) pixels() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf.Packed()
}

// release drops the decoded pixels. The recorded size is kept.
func (s *SpriteInfo) release() {
	s.buf = nil
	s.loaded = false
}
