package image

import "sync"

// CanvasPool recycles RGBA8 atlas canvases between loads.
//
// Canvases are bucketed by size. Atlas canvases are always power-of-two
// sized, so repeated loads of a similar sprite set hit the same bucket.
// Get hands out a fully cleared canvas, so pixels from a previous atlas
// never show through the gaps of the next one.
//
// Thread safety: All methods are safe for concurrent use.
type CanvasPool struct {
	mu       sync.Mutex
	canvases map[canvasKey][]*ImageBuf
	perSize  int
	reused   int
}

type canvasKey struct {
	width  int
	height int
}

// NewCanvasPool creates a pool that keeps at most perSize idle canvases of
// each size. A perSize of 0 or less keeps none, which turns Put into a no-op.
func NewCanvasPool(perSize int) *CanvasPool {
	return &CanvasPool{
		canvases: make(map[canvasKey][]*ImageBuf),
		perSize:  perSize,
	}
}

// Get returns a cleared width x height RGBA8 canvas, reusing an idle one
// when available.
func (p *CanvasPool) Get(width, height int) (*ImageBuf, error) {
	key := canvasKey{width: width, height: height}

	p.mu.Lock()
	idle := p.canvases[key]
	if n := len(idle); n > 0 {
		buf := idle[n-1]
		idle[n-1] = nil
		p.canvases[key] = idle[:n-1]
		p.reused++
		p.mu.Unlock()

		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewImageBuf(width, height, FormatRGBA8)
}

// Put hands a canvas back for reuse. Canvases that are not RGBA8 or that
// are views into another buffer are dropped.
func (p *CanvasPool) Put(buf *ImageBuf) {
	if buf == nil || buf.format != FormatRGBA8 || len(buf.data) != buf.format.ImageBytes(buf.width, buf.height) {
		return
	}
	key := canvasKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.canvases[key]) >= p.perSize {
		return
	}
	p.canvases[key] = append(p.canvases[key], buf)
}

// Idle returns the number of canvases waiting for reuse.
func (p *CanvasPool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, bucket := range p.canvases {
		n += len(bucket)
	}
	return n
}

// Reused returns how many Get calls were served from the pool.
func (p *CanvasPool) Reused() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reused
}

// canvases backs GetCanvas and PutCanvas. Two per size covers a reload
// that builds the next atlas while the previous one is still in use.
var canvases = NewCanvasPool(2)

// GetCanvas returns a cleared canvas from the shared pool.
func GetCanvas(width, height int) (*ImageBuf, error) {
	return canvases.Get(width, height)
}

// PutCanvas returns a canvas to the shared pool.
func PutCanvas(buf *ImageBuf) {
	canvases.Put(buf)
}
