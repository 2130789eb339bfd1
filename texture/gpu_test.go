package texture

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device  gpucontext.Device
	queue   gpucontext.Queue
	adapter gpucontext.Adapter
	info    gpucontext.AdapterInfo
	format  gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*mockProvider)(nil)

func newMockProvider() *mockProvider {
	return &mockProvider{
		device:  &mockDevice{},
		queue:   &mockQueue{},
		adapter: &mockAdapter{},
		info:    gpucontext.AdapterInfo{Name: "Mock Adapter", Type: gpucontext.AdapterTypeSoftware},
		format:  gputypes.TextureFormatBGRA8Unorm,
	}
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return m.queue }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return m.adapter }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return m.info }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

func TestGPUTexture_Descriptor(t *testing.T) {
	tex := NewGPUTexture(nil, "atlas", FilterBox)
	if err := tex.Allocate(3, 64, 32); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	desc := tex.Descriptor()
	want := gputypes.Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 1}
	if desc.Size != want {
		t.Errorf("Size = %+v, want %+v", desc.Size, want)
	}
	if desc.MipLevelCount != 3 || desc.SampleCount != 1 {
		t.Errorf("MipLevelCount/SampleCount = %d/%d, want 3/1", desc.MipLevelCount, desc.SampleCount)
	}
	if desc.Dimension != gputypes.TextureDimension2D {
		t.Errorf("Dimension = %v, want 2D", desc.Dimension)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", desc.Format)
	}
	if desc.Usage != DefaultUsage {
		t.Errorf("Usage = %v, want %v", desc.Usage, DefaultUsage)
	}
	if desc.Label != "atlas" {
		t.Errorf("Label = %q, want atlas", desc.Label)
	}
}

func TestGPUTexture_UploadAndMipmaps(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		mode     string
	}{
		{"logical", nil, "logical"},
		{"device", newMockProvider(), "device"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewGPUTexture(tt.provider, tt.name, FilterBox)
			if err := tex.Allocate(2, 4, 4); err != nil {
				t.Fatal(err)
			}
			if err := tex.UploadRegion(0, 0, 0, 4, 4, solid(4, 4, 9, 9, 9, 255)); err != nil {
				t.Fatalf("UploadRegion() error = %v", err)
			}
			if err := tex.GenerateMipmaps(); err != nil {
				t.Fatalf("GenerateMipmaps() error = %v", err)
			}
			if tex.Uploads() != 1 {
				t.Errorf("Uploads() = %d, want 1", tex.Uploads())
			}
			pix, err := tex.Staging().Pixels(1)
			if err != nil {
				t.Fatal(err)
			}
			if len(pix) != 2*2*4 || pix[0] != 9 {
				t.Errorf("level 1 = %v, want 2x2 of 9", pix)
			}
			if !strings.Contains(tex.String(), tt.mode) {
				t.Errorf("String() = %q, want mode %q", tex.String(), tt.mode)
			}
			if got := tex.SizeBytes(); got != 4*4*4+2*2*4 {
				t.Errorf("SizeBytes() = %d, want 80", got)
			}
		})
	}
}

func TestGPUTexture_UploadErrorsPropagate(t *testing.T) {
	tex := NewGPUTexture(nil, "errs", FilterBox)
	if err := tex.UploadRegion(0, 0, 0, 1, 1, solid(1, 1, 0, 0, 0, 0)); !errors.Is(err, ErrNotAllocated) {
		t.Errorf("error = %v, want ErrNotAllocated", err)
	}
	if err := tex.Allocate(1, 2, 2); err != nil {
		t.Fatal(err)
	}
	if err := tex.UploadRegion(0, 1, 1, 2, 2, solid(2, 2, 0, 0, 0, 0)); !errors.Is(err, ErrRegionOutOfBounds) {
		t.Errorf("error = %v, want ErrRegionOutOfBounds", err)
	}
	if tex.Uploads() != 0 {
		t.Errorf("Uploads() = %d after failed uploads, want 0", tex.Uploads())
	}
}

func TestGPUTexture_Destroy(t *testing.T) {
	tex := NewGPUTexture(newMockProvider(), "destroy", FilterBox)
	if err := tex.Allocate(1, 2, 2); err != nil {
		t.Fatal(err)
	}
	tex.Destroy()
	tex.Destroy()

	if !tex.IsReleased() {
		t.Error("IsReleased() = false after Destroy")
	}
	if !tex.Staging().IsDestroyed() {
		t.Error("staging texture not destroyed")
	}
	if err := tex.Allocate(1, 2, 2); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("Allocate() error = %v, want ErrTextureDestroyed", err)
	}
	if err := tex.GenerateMipmaps(); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("GenerateMipmaps() error = %v, want ErrTextureDestroyed", err)
	}
}

func TestGPUFactory(t *testing.T) {
	p := newMockProvider()
	tex, err := GPUFactory(p, FilterBox)("factory")
	if err != nil {
		t.Fatal(err)
	}
	gpu, ok := tex.(*GPUTexture)
	if !ok {
		t.Fatalf("factory returned %T, want *GPUTexture", tex)
	}
	if gpu.Provider() != p {
		t.Error("Provider() does not return the factory provider")
	}
}

func TestGPUTexture_AdapterInfo(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		want     gpucontext.AdapterInfo
	}{
		{"logical", nil, gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}},
		{"device", newMockProvider(), gpucontext.AdapterInfo{Name: "Mock Adapter", Type: gpucontext.AdapterTypeSoftware}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewGPUTexture(tt.provider, tt.name, FilterBox)
			if got := tex.AdapterInfo(); got != tt.want {
				t.Errorf("AdapterInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}

	tex := NewGPUTexture(newMockProvider(), "named", FilterBox)
	if !strings.Contains(tex.String(), "Mock Adapter") {
		t.Errorf("String() = %q, want adapter name", tex.String())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		bpp    int
		gpu    gputypes.TextureFormat
	}{
		{FormatRGBA8, "RGBA8", 4, gputypes.TextureFormatRGBA8Unorm},
		{FormatBGRA8, "BGRA8", 4, gputypes.TextureFormatBGRA8Unorm},
		{FormatR8, "R8", 1, gputypes.TextureFormatR8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.format.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.format.String(), tt.name)
			}
			if tt.format.BytesPerPixel() != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", tt.format.BytesPerPixel(), tt.bpp)
			}
			if tt.format.ToGPUFormat() != tt.gpu {
				t.Errorf("ToGPUFormat() = %v, want %v", tt.format.ToGPUFormat(), tt.gpu)
			}
		})
	}
	if got := Format(99).String(); got != "Unknown(99)" {
		t.Errorf("String() = %q, want Unknown(99)", got)
	}
}
