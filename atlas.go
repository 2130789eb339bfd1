package spritepack

import (
	"fmt"
	"slices"

	"github.com/gogpu/spritepack/internal/parallel"
	"github.com/gogpu/spritepack/internal/pow2"
	"github.com/gogpu/spritepack/packer"
	"github.com/gogpu/spritepack/texture"

	intImage "github.com/gogpu/spritepack/internal/image"
)

// Layout is the result of packing one sprite set.
type Layout struct {
	// CanvasWidth and CanvasHeight are the power-of-two texture dimensions.
	CanvasWidth  int
	CanvasHeight int

	// MipmapLevel is the highest mip level; the texture has MipmapLevel+1 levels.
	MipmapLevel int

	// PackedWidth and PackedHeight are the packer's extent before rounding.
	PackedWidth  int
	PackedHeight int

	names []string
	slots map[string]*packer.PackedSlot
}

// Names returns the sprite names in load order.
func (l Layout) Names() []string {
	return slices.Clone(l.names)
}

// Len returns the number of sprites in the layout.
func (l Layout) Len() int {
	return len(l.names)
}

// Region is the location of one sprite in the atlas.
//
// X, Y, Width and Height are in pixels; U0, V0, U1 and V1 are the same box
// normalized by the canvas size. All fields are zero for a sprite the packer
// could not place.
type Region struct {
	X, Y           int
	Width, Height  int
	U0, V0, U1, V1 float64
	Placed         bool
}

// TextureAtlas packs named sprites into one texture and answers UV queries.
//
// TextureAtlas is NOT safe for concurrent use.
type TextureAtlas struct {
	opts   options
	layout *Layout
	tex    texture.Texture
	closed bool
}

// New creates an empty atlas. Queries fail with ErrNotLoaded until Load
// succeeds.
func New(opts ...Option) *TextureAtlas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TextureAtlas{opts: o}
}

// Load decodes and packs sprites, uploads them into a new texture and
// installs the result. An empty sprite list is a no-op.
//
// On error the previously loaded atlas, if any, stays installed. Decoded
// pixels are released on every path.
func (a *TextureAtlas) Load(sprites []*SpriteInfo) error {
	if a.closed {
		return ErrAtlasClosed
	}
	if len(sprites) == 0 {
		return nil
	}
	defer releaseAll(sprites)

	names, err := spriteNames(sprites)
	if err != nil {
		return err
	}

	if err := a.decodeAll(sprites); err != nil {
		return err
	}

	minW, minH := 0, 0
	nonPowerOfTwo := false
	slots := make([]*packer.PackedSlot, len(sprites))
	for i, s := range sprites {
		slots[i] = packer.NewSlot(s.Width(), s.Height())
		if s.Width() <= 0 || s.Height() <= 0 {
			// Empty sprites take no space and play no part in the mip level.
			continue
		}
		if minW == 0 || s.Width() < minW {
			minW = s.Width()
		}
		if minH == 0 || s.Height() < minH {
			minH = s.Height()
		}
		if !pow2.IsPowerOfTwo(s.Width()) || !pow2.IsPowerOfTwo(s.Height()) {
			nonPowerOfTwo = true
		}
	}

	p := &packer.GrowingPacker{Logger: Logger()}
	root := p.FitSorted(slots, a.opts.sortKey)

	layout := &Layout{
		CanvasWidth:  pow2.Next(root.W),
		CanvasHeight: pow2.Next(root.H),
		MipmapLevel:  mipmapLevel(a.opts.maxMipmapLevel, minW, minH, nonPowerOfTwo),
		PackedWidth:  root.W,
		PackedHeight: root.H,
		names:        names,
		slots:        make(map[string]*packer.PackedSlot, len(sprites)),
	}
	for i, name := range names {
		layout.slots[name] = slots[i]
	}
	Logger().Debug("sprites packed",
		"sprites", len(sprites),
		"packed", fmt.Sprintf("%dx%d", root.W, root.H),
		"canvas", fmt.Sprintf("%dx%d", layout.CanvasWidth, layout.CanvasHeight),
		"mipmap_level", layout.MipmapLevel)

	tex, err := a.buildTexture(layout, sprites, slots)
	if err != nil {
		return err
	}

	old := a.tex
	a.tex = tex
	a.layout = layout
	if old != nil {
		old.Destroy()
	}

	stats := p.Stats()
	Logger().Info("atlas loaded",
		"label", a.opts.label,
		"placed", stats.Placed,
		"unplaced", stats.Unplaced,
		"canvas", fmt.Sprintf("%dx%d", layout.CanvasWidth, layout.CanvasHeight),
		"mipmap_level", layout.MipmapLevel,
		"utilization", p.Utilization())
	return nil
}

// decodeAll loads every sprite, on a worker pool when more than one decode
// worker is configured. The error of the first failing sprite in input
// order is returned.
func (a *TextureAtlas) decodeAll(sprites []*SpriteInfo) error {
	workers := a.opts.decodeWorkers
	if workers == 1 || len(sprites) == 1 {
		for _, s := range sprites {
			if err := s.load(); err != nil {
				return err
			}
		}
		return nil
	}

	pool := parallel.NewWorkerPool(min(workers, len(sprites)))
	defer pool.Close()
	Logger().Debug("decoding sprites", "sprites", len(sprites), "workers", pool.Workers())
	return pool.Run(len(sprites), func(i int) error {
		return sprites[i].load()
	})
}

// spriteNames validates sprite names and returns their normalized forms.
func spriteNames(sprites []*SpriteInfo) ([]string, error) {
	names := make([]string, len(sprites))
	seen := make(map[string]struct{}, len(sprites))
	for i, s := range sprites {
		name := s.key()
		if name == "" {
			return nil, fmt.Errorf("%w: sprite %d", ErrEmptyName, i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSprite, s.Name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}

// buildTexture creates the texture for layout and fills it. The texture is
// destroyed if any step fails.
func (a *TextureAtlas) buildTexture(layout *Layout, sprites []*SpriteInfo, slots []*packer.PackedSlot) (texture.Texture, error) {
	tex, err := a.opts.factory(a.opts.label)
	if err != nil {
		return nil, fmt.Errorf("spritepack: create texture: %w", err)
	}
	if err := a.fillTexture(tex, layout, sprites, slots); err != nil {
		tex.Destroy()
		return nil, err
	}
	return tex, nil
}

func (a *TextureAtlas) fillTexture(tex texture.Texture, layout *Layout, sprites []*SpriteInfo, slots []*packer.PackedSlot) error {
	if err := tex.Allocate(layout.MipmapLevel+1, layout.CanvasWidth, layout.CanvasHeight); err != nil {
		return fmt.Errorf("spritepack: allocate texture: %w", err)
	}

	var err error
	switch a.opts.generator {
	case MipmapDefault:
		err = uploadComposite(tex, layout, sprites, slots)
	default:
		err = uploadEach(tex, sprites, slots)
	}
	if err != nil {
		return err
	}

	if layout.MipmapLevel > 0 {
		if err := tex.GenerateMipmaps(); err != nil {
			return fmt.Errorf("spritepack: generate mipmaps: %w", err)
		}
	}
	return nil
}

// uploadEach uploads every placed sprite into level 0 at its own offset,
// releasing each sprite as soon as its pixels are consumed.
func uploadEach(tex texture.Texture, sprites []*SpriteInfo, slots []*packer.PackedSlot) error {
	for i, s := range sprites {
		x, y, w, h, ok := slots[i].Rect()
		if !ok {
			warnUnplaced(s)
			s.release()
			continue
		}
		if err := tex.UploadRegion(0, x, y, w, h, s.pixels()); err != nil {
			return fmt.Errorf("spritepack: upload sprite %q: %w", s.Name, err)
		}
		s.release()
	}
	return nil
}

// uploadComposite draws every placed sprite into a level 0 canvas and
// uploads it in one call.
func uploadComposite(tex texture.Texture, layout *Layout, sprites []*SpriteInfo, slots []*packer.PackedSlot) error {
	canvas, err := intImage.GetCanvas(layout.CanvasWidth, layout.CanvasHeight)
	if err != nil {
		return fmt.Errorf("spritepack: canvas %dx%d: %w", layout.CanvasWidth, layout.CanvasHeight, err)
	}
	defer intImage.PutCanvas(canvas)

	for i, s := range sprites {
		x, y, w, h, ok := slots[i].Rect()
		if !ok {
			warnUnplaced(s)
			s.release()
			continue
		}
		if err := canvas.WriteRect(x, y, w, h, s.pixels()); err != nil {
			return fmt.Errorf("spritepack: composite sprite %q: %w", s.Name, err)
		}
		s.release()
	}

	if err := tex.UploadRegion(0, 0, 0, layout.CanvasWidth, layout.CanvasHeight, canvas.Packed()); err != nil {
		return fmt.Errorf("spritepack: upload canvas: %w", err)
	}
	return nil
}

func warnUnplaced(s *SpriteInfo) {
	if s.Width() <= 0 || s.Height() <= 0 {
		Logger().Warn("empty sprite skipped", "sprite", s.Name)
		return
	}
	Logger().Warn("sprite could not be placed",
		"sprite", s.Name, "width", s.Width(), "height", s.Height())
}

func releaseAll(sprites []*SpriteInfo) {
	for _, s := range sprites {
		s.release()
	}
}

// Loaded reports whether a Load has succeeded.
func (a *TextureAtlas) Loaded() bool {
	return a.layout != nil
}

// Layout returns the current layout.
func (a *TextureAtlas) Layout() (Layout, error) {
	if a.layout == nil {
		return Layout{}, ErrNotLoaded
	}
	return *a.layout, nil
}

// Texture returns the current texture, or nil before the first Load.
func (a *TextureAtlas) Texture() texture.Texture {
	return a.tex
}

// Close destroys the texture and drops the layout. Later Loads fail with
// ErrAtlasClosed. Close is safe to call more than once.
func (a *TextureAtlas) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.tex != nil {
		a.tex.Destroy()
		a.tex = nil
	}
	a.layout = nil
}

// slot returns the packed slot for name.
func (a *TextureAtlas) slot(name string) (*packer.PackedSlot, error) {
	if a.layout == nil {
		return nil, ErrNotLoaded
	}
	s, ok := a.layout.slots[normalizeName(name)]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return s, nil
}

// Region returns the full location of the named sprite.
func (a *TextureAtlas) Region(name string) (Region, error) {
	s, err := a.slot(name)
	if err != nil {
		return Region{}, err
	}
	x, y, w, h, ok := s.Rect()
	if !ok {
		return Region{}, nil
	}
	cw := float64(a.layout.CanvasWidth)
	ch := float64(a.layout.CanvasHeight)
	return Region{
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		U0:     float64(x) / cw,
		V0:     float64(y) / ch,
		U1:     float64(x+w) / cw,
		V1:     float64(y+h) / ch,
		Placed: true,
	}, nil
}

// Width returns the sprite's width in pixels.
func (a *TextureAtlas) Width(name string) (int, error) {
	r, err := a.Region(name)
	return r.Width, err
}

// Height returns the sprite's height in pixels.
func (a *TextureAtlas) Height(name string) (int, error) {
	r, err := a.Region(name)
	return r.Height, err
}

// U0 returns the left edge of the sprite in canvas pixels.
func (a *TextureAtlas) U0(name string) (int, error) {
	r, err := a.Region(name)
	return r.X, err
}

// V0 returns the top edge of the sprite in canvas pixels.
func (a *TextureAtlas) V0(name string) (int, error) {
	r, err := a.Region(name)
	return r.Y, err
}

// U1 returns the right edge (exclusive) of the sprite in canvas pixels.
func (a *TextureAtlas) U1(name string) (int, error) {
	r, err := a.Region(name)
	return r.X + r.Width, err
}

// V1 returns the bottom edge (exclusive) of the sprite in canvas pixels.
func (a *TextureAtlas) V1(name string) (int, error) {
	r, err := a.Region(name)
	return r.Y + r.Height, err
}

// U0f returns U0 normalized by the canvas width.
func (a *TextureAtlas) U0f(name string) (float32, error) {
	r, err := a.Region(name)
	return float32(r.U0), err
}

// V0f returns V0 normalized by the canvas height.
func (a *TextureAtlas) V0f(name string) (float32, error) {
	r, err := a.Region(name)
	return float32(r.V0), err
}

// U1f returns U1 normalized by the canvas width.
func (a *TextureAtlas) U1f(name string) (float32, error) {
	r, err := a.Region(name)
	return float32(r.U1), err
}

// V1f returns V1 normalized by the canvas height.
func (a *TextureAtlas) V1f(name string) (float32, error) {
	r, err := a.Region(name)
	return float32(r.V1), err
}

// U0d returns U0 normalized by the canvas width.
func (a *TextureAtlas) U0d(name string) (float64, error) {
	r, err := a.Region(name)
	return r.U0, err
}

// V0d returns V0 normalized by the canvas height.
func (a *TextureAtlas) V0d(name string) (float64, error) {
	r, err := a.Region(name)
	return r.V0, err
}

// U1d returns U1 normalized by the canvas width.
func (a *TextureAtlas) U1d(name string) (float64, error) {
	r, err := a.Region(name)
	return r.U1, err
}

// V1d returns V1 normalized by the canvas height.
func (a *TextureAtlas) V1d(name string) (float64, error) {
	r, err := a.Region(name)
	return r.V1, err
}
