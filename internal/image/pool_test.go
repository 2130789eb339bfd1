package image

import (
	"errors"
	"sync"
	"testing"
)

func TestCanvasPool_ReusesSameSize(t *testing.T) {
	pool := NewCanvasPool(2)

	first, err := pool.Get(64, 32)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first.Width() != 64 || first.Height() != 32 || first.Format() != FormatRGBA8 {
		t.Fatalf("Get() = %dx%d %v, want 64x32 RGBA8", first.Width(), first.Height(), first.Format())
	}
	pool.Put(first)
	if pool.Idle() != 1 {
		t.Errorf("Idle() = %d, want 1", pool.Idle())
	}

	again, err := pool.Get(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Error("Get() did not reuse the idle canvas of the same size")
	}
	if pool.Reused() != 1 || pool.Idle() != 0 {
		t.Errorf("Reused() = %d, Idle() = %d, want 1 and 0", pool.Reused(), pool.Idle())
	}
}

func TestCanvasPool_SizesAreSeparate(t *testing.T) {
	pool := NewCanvasPool(2)

	small, _ := pool.Get(32, 32)
	pool.Put(small)

	wide, err := pool.Get(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	if wide == small {
		t.Error("canvas of a different size was reused")
	}
	if pool.Reused() != 0 {
		t.Errorf("Reused() = %d, want 0", pool.Reused())
	}
}

// A recycled canvas must come back fully transparent, so the gaps between
// sprites of the next atlas stay empty.
func TestCanvasPool_RecycledCanvasIsCleared(t *testing.T) {
	pool := NewCanvasPool(1)

	buf, _ := pool.Get(8, 8)
	full := make([]byte, 8*8*4)
	for i := range full {
		full[i] = 0xAB
	}
	if err := buf.WriteRect(0, 0, 8, 8, full); err != nil {
		t.Fatal(err)
	}
	pool.Put(buf)

	// Next atlas only covers the top-left quarter.
	reused, _ := pool.Get(8, 8)
	if reused != buf {
		t.Fatal("expected the canvas to be reused")
	}
	if err := reused.WriteRect(0, 0, 4, 4, make([]byte, 4*4*4)); err != nil {
		t.Fatal(err)
	}
	for y := range 8 {
		for x := range 8 {
			if r, g, b, a := reused.GetRGBA(x, y); r|g|b|a != 0 {
				t.Fatalf("pixel (%d,%d) = %d,%d,%d,%d from the previous atlas", x, y, r, g, b, a)
			}
		}
	}
}

func TestCanvasPool_PerSizeLimit(t *testing.T) {
	tests := []struct {
		name     string
		perSize  int
		put      int
		wantIdle int
	}{
		{"keeps up to limit", 2, 3, 2},
		{"zero keeps none", 0, 2, 0},
		{"negative keeps none", -1, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewCanvasPool(tt.perSize)
			bufs := make([]*ImageBuf, tt.put)
			for i := range bufs {
				bufs[i], _ = pool.Get(16, 16)
			}
			for _, b := range bufs {
				pool.Put(b)
			}
			if pool.Idle() != tt.wantIdle {
				t.Errorf("Idle() = %d, want %d", pool.Idle(), tt.wantIdle)
			}
		})
	}
}

func TestCanvasPool_PutRejects(t *testing.T) {
	pool := NewCanvasPool(4)
	pool.Put(nil)

	gray, _ := NewImageBuf(4, 4, FormatGray8)
	pool.Put(gray)

	padded, _ := FromRaw(make([]byte, 32*4), 4, 4, FormatRGBA8, 32)
	pool.Put(padded)

	if pool.Idle() != 0 {
		t.Errorf("Idle() = %d, want 0", pool.Idle())
	}
}

func TestCanvasPool_InvalidDimensions(t *testing.T) {
	pool := NewCanvasPool(2)
	for _, size := range [][2]int{{0, 4}, {4, 0}, {-1, 4}} {
		if _, err := pool.Get(size[0], size[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Get(%d, %d) error = %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}
}

func TestCanvasPool_Concurrent(t *testing.T) {
	pool := NewCanvasPool(4)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				buf, err := pool.Get(32, 32)
				if err != nil {
					t.Error(err)
					return
				}
				if r, g, b, a := buf.GetRGBA(31, 31); r|g|b|a != 0 {
					t.Error("canvas not cleared")
				}
				_ = buf.SetRGBA(31, 31, 1, 2, 3, 4)
				pool.Put(buf)
			}
		}()
	}
	wg.Wait()

	if pool.Idle() > 4 {
		t.Errorf("Idle() = %d, want <= 4", pool.Idle())
	}
}

func TestSharedCanvasPool(t *testing.T) {
	buf, err := GetCanvas(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width() != 4 || buf.Height() != 2 {
		t.Errorf("GetCanvas() = %dx%d, want 4x2", buf.Width(), buf.Height())
	}
	PutCanvas(buf)
}
