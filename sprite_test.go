package spritepack

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	intImage "github.com/gogpu/spritepack/internal/image"
)

func TestSpriteInfo_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.png")
	img := image.NewNRGBA(image.Rect(0, 0, 3, 5))
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		src   Source
		wantW int
		wantH int
	}{
		{"file", FileSource(path), 3, 5},
		{"bytes", BytesSource(b.Bytes()), 3, 5},
		{"pixels", PixelSource{Width: 2, Height: 2, Pix: make([]byte, 16)}, 2, 2},
		{"func", SourceFunc(func() (image.Image, error) { return img, nil }), 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSprite(tt.name, tt.src)
			if err := s.load(); err != nil {
				t.Fatalf("load() error = %v", err)
			}
			if !s.Loaded() || s.Width() != tt.wantW || s.Height() != tt.wantH {
				t.Errorf("got loaded=%t %dx%d, want %dx%d", s.Loaded(), s.Width(), s.Height(), tt.wantW, tt.wantH)
			}
			if got := len(s.pixels()); got != tt.wantW*tt.wantH*4 {
				t.Errorf("len(pixels()) = %d, want %d", got, tt.wantW*tt.wantH*4)
			}

			s.release()
			if s.Loaded() || s.pixels() != nil {
				t.Error("release() kept the decoded buffer")
			}
			if s.Width() != tt.wantW {
				t.Error("release() should keep the recorded size")
			}
		})
	}
}

func TestSpriteInfo_LoadErrors(t *testing.T) {
	decodeErr := errors.New("boom")
	tests := []struct {
		name    string
		sprite  *SpriteInfo
		wantErr error
	}{
		{"missing file", NewSprite("f", FileSource("/nonexistent/sprite.png")), ErrDecode},
		{"garbage bytes", NewSprite("b", BytesSource("garbage")), intImage.ErrUnsupportedFormat},
		{"empty bytes", NewSprite("e", BytesSource(nil)), intImage.ErrEmptyData},
		{"short pixels", NewSprite("p", PixelSource{Width: 4, Height: 4, Pix: make([]byte, 8)}), intImage.ErrDataTooSmall},
		{"source error", NewSprite("s", SourceFunc(func() (image.Image, error) { return nil, decodeErr })), decodeErr},
		{"no source", &SpriteInfo{Name: "n"}, ErrNilSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sprite.load()
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrDecode) {
				t.Errorf("load() error = %v, want %v wrapped in ErrDecode", err, tt.wantErr)
			}
			if tt.sprite.Loaded() {
				t.Error("sprite marked loaded after failure")
			}
		})
	}
}

func TestSpriteInfo_EmptyImage(t *testing.T) {
	empty := SourceFunc(func() (image.Image, error) { return image.NewNRGBA(image.Rectangle{}), nil })

	s := NewSprite("empty", empty)
	if err := s.load(); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 0 || s.Height() != 0 || s.pixels() != nil {
		t.Errorf("empty sprite = %dx%d, want 0x0 without pixels", s.Width(), s.Height())
	}

	s.DefaultWidth, s.DefaultHeight = 4, 2
	if err := s.load(); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 4 || s.Height() != 2 {
		t.Errorf("default sprite = %dx%d, want 4x2", s.Width(), s.Height())
	}
	if px := s.pixels(); len(px) != 32 || px[3] != 0 {
		t.Error("default sprite should be transparent")
	}
}

func TestSource_Decode(t *testing.T) {
	src := PixelSource{Width: 1, Height: 1, Pix: []byte{1, 2, 3, 4}}
	img, err := src.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if c := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); c != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("Decode() pixel = %+v, want {1 2 3 4}", c)
	}
}

func TestLoad_ZeroSizedSpriteStaysUnplaced(t *testing.T) {
	empty := SourceFunc(func() (image.Image, error) { return nil, nil })
	a := New()
	mustLoad(t, a, NewSprite("ghost", empty), solidSprite("real", 8, 8))

	r, err := a.Region("ghost")
	if err != nil || r.Placed {
		t.Errorf("Region(ghost) = %+v, %v, want unplaced", r, err)
	}
	l, _ := a.Layout()
	if l.MipmapLevel != 3 {
		t.Errorf("MipmapLevel = %d, want 3 (empty sprites ignored)", l.MipmapLevel)
	}
}
