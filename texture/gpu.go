// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// DefaultUsage is the usage of atlas textures: uploaded into, sampled from,
// and copied out of for mipmap generation and readback.
const DefaultUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// Descriptor describes the device texture backing a GPUTexture.
type Descriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the level 0 extent.
	Size gputypes.Extent3D

	// MipLevelCount is the number of mip levels (1+ required).
	MipLevelCount uint32

	// SampleCount is the number of samples per pixel (1 for non-MSAA).
	SampleCount uint32

	// Dimension is the texture dimension. Atlases are always 2D.
	Dimension gputypes.TextureDimension

	// Format is the device pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// GPUTexture is a Texture destined for a WebGPU device.
//
// Pixels are staged in a CPUTexture, which also produces the mip chain, so a
// GPUTexture is fully functional without a device. When created with a nil
// provider it runs in logical mode and its handles stay zero.
//
// GPUTexture is safe for concurrent read access. Allocate, UploadRegion,
// GenerateMipmaps and Destroy should be synchronized externally.
type GPUTexture struct {
	mu sync.RWMutex

	provider gpucontext.DeviceProvider
	staging  *CPUTexture

	// Device handles (zero until the device path creates real resources).
	textureID core.TextureID
	viewID    core.TextureViewID

	desc    Descriptor
	uploads int

	released atomic.Bool
}

// NewGPUTexture creates an unallocated RGBA8 GPU texture. provider may be nil.
func NewGPUTexture(provider gpucontext.DeviceProvider, label string, filter Filter) *GPUTexture {
	return &GPUTexture{
		provider: provider,
		staging:  NewCPUTexture(label, filter),
		desc:     Descriptor{Label: label},
	}
}

// GPUFactory returns a Factory producing GPU textures bound to provider.
func GPUFactory(provider gpucontext.DeviceProvider, filter Filter) Factory {
	return func(label string) (Texture, error) {
		return NewGPUTexture(provider, label, filter), nil
	}
}

// Allocate implements Texture.
func (t *GPUTexture) Allocate(levels, width, height int) error {
	if t.released.Load() {
		return ErrTextureDestroyed
	}
	if err := t.staging.Allocate(levels, width, height); err != nil {
		return err
	}

	t.mu.Lock()
	t.desc = Descriptor{
		Label: t.desc.Label,
		Size: gputypes.Extent3D{
			Width:              safeIntToUint32(width),
			Height:             safeIntToUint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: safeIntToUint32(levels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        FormatRGBA8.ToGPUFormat(),
		Usage:         DefaultUsage,
	}
	t.uploads = 0
	t.mu.Unlock()

	slogger().Debug("gpu texture allocated",
		"label", t.desc.Label,
		"width", width,
		"height", height,
		"levels", levels,
		"device", t.hasDevice(),
		"adapter", t.AdapterInfo().Name)
	return nil
}

// UploadRegion implements Texture.
func (t *GPUTexture) UploadRegion(level, x, y, width, height int, pixels []byte) error {
	if t.released.Load() {
		return ErrTextureDestroyed
	}
	if err := t.staging.UploadRegion(level, x, y, width, height, pixels); err != nil {
		return err
	}

	// TODO: forward the region to provider.Queue() once gpucontext.Queue
	// exposes WriteTexture; until then the staging copy is authoritative.
	t.mu.Lock()
	t.uploads++
	t.mu.Unlock()
	return nil
}

// GenerateMipmaps implements Texture. Levels are produced on the staging
// copy with the texture's Filter.
func (t *GPUTexture) GenerateMipmaps() error {
	if t.released.Load() {
		return ErrTextureDestroyed
	}
	return t.staging.GenerateMipmaps()
}

// Destroy implements Texture.
func (t *GPUTexture) Destroy() {
	if t.released.Swap(true) {
		return
	}
	t.staging.Destroy()

	t.mu.Lock()
	t.textureID = core.TextureID{}
	t.viewID = core.TextureViewID{}
	t.mu.Unlock()

	slogger().Debug("gpu texture destroyed", "label", t.desc.Label)
}

// Width implements Texture.
func (t *GPUTexture) Width() int { return t.staging.Width() }

// Height implements Texture.
func (t *GPUTexture) Height() int { return t.staging.Height() }

// Levels implements Texture.
func (t *GPUTexture) Levels() int { return t.staging.Levels() }

// Descriptor returns the device texture descriptor of the last Allocate.
func (t *GPUTexture) Descriptor() Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.desc
}

// Provider returns the device provider, or nil in logical mode.
func (t *GPUTexture) Provider() gpucontext.DeviceProvider {
	return t.provider
}

// AdapterInfo describes the adapter behind the provider. In logical mode
// the type is AdapterTypeUnknown.
func (t *GPUTexture) AdapterInfo() gpucontext.AdapterInfo {
	if t.provider == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	return t.provider.AdapterInfo()
}

// TextureID returns the underlying wgpu texture ID.
// Returns a zero ID in logical mode.
func (t *GPUTexture) TextureID() core.TextureID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.textureID
}

// ViewID returns the texture view ID.
// Returns a zero ID in logical mode.
func (t *GPUTexture) ViewID() core.TextureViewID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.viewID
}

// Staging returns the CPU copy of the texture contents, for readback.
func (t *GPUTexture) Staging() *CPUTexture {
	return t.staging
}

// Uploads returns the number of regions uploaded since the last Allocate.
func (t *GPUTexture) Uploads() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.uploads
}

// SizeBytes returns the memory used by all allocated levels.
func (t *GPUTexture) SizeBytes() uint64 {
	var total uint64
	for i := range t.staging.Levels() {
		w, h := LevelSize(t.Width(), t.Height(), i)
		total += uint64(w) * uint64(h) * uint64(FormatRGBA8.BytesPerPixel()) //nolint:gosec // G115: level sizes are positive
	}
	return total
}

// IsReleased returns true if the texture has been destroyed.
func (t *GPUTexture) IsReleased() bool {
	return t.released.Load()
}

func (t *GPUTexture) hasDevice() bool {
	return t.provider != nil && t.provider.Device() != nil
}

// String returns a string representation of the texture.
func (t *GPUTexture) String() string {
	status := "active"
	if t.released.Load() {
		status = "released"
	}
	mode := "logical"
	if t.hasDevice() {
		mode = "device"
		if name := t.AdapterInfo().Name; name != "" {
			mode += " " + name
		}
	}
	return fmt.Sprintf("GPUTexture[%s %dx%d %d levels %s %s]",
		t.desc.Label, t.Width(), t.Height(), t.Levels(), mode, status)
}

// safeIntToUint32 converts int to uint32, clamping to the valid range.
func safeIntToUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
