package spritepack

import (
	"github.com/gogpu/spritepack/packer"
	"github.com/gogpu/spritepack/texture"
)

// Option configures a TextureAtlas during creation.
//
// Example:
//
//	// Mipmaps disabled, sprites packed by area
//	atlas := spritepack.New(
//	    spritepack.WithMaxMipmapLevel(0),
//	    spritepack.WithSortKey(packer.Area),
//	)
type Option func(*options)

// options holds optional configuration for TextureAtlas creation.
type options struct {
	maxMipmapLevel int
	generator      MipmapGenerator
	sortKey        packer.SortKey
	factory        texture.Factory
	label          string
	decodeWorkers  int
}

// defaultOptions returns the default atlas options.
func defaultOptions() options {
	return options{
		maxMipmapLevel: -1, // auto
		generator:      MipmapCustomThenDefault,
		sortKey:        packer.MaxSide,
		factory:        texture.CPUFactory(texture.FilterBox),
		label:          "spritepack",
		decodeWorkers:  1,
	}
}

// WithMaxMipmapLevel sets the highest mip level the atlas may use.
// 0 disables mipmaps, a negative value (the default) means auto.
func WithMaxMipmapLevel(n int) Option {
	return func(o *options) {
		o.maxMipmapLevel = n
	}
}

// WithMipmapGenerator selects how sprites reach the texture.
func WithMipmapGenerator(g MipmapGenerator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// WithSortKey sets the order in which sprites are packed, largest key
// first. A nil key keeps the default, packer.MaxSide. Keys other than
// MaxSide may leave sprites unplaced.
func WithSortKey(k packer.SortKey) Option {
	return func(o *options) {
		if k != nil {
			o.sortKey = k
		}
	}
}

// WithTextureFactory sets the factory used to create the atlas texture on
// every Load. A nil factory keeps the default CPU texture.
//
// Example:
//
//	atlas := spritepack.New(spritepack.WithTextureFactory(
//	    texture.GPUFactory(provider, texture.FilterBox),
//	))
func WithTextureFactory(f texture.Factory) Option {
	return func(o *options) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithLabel sets the debug label given to atlas textures.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithDecodeWorkers sets how many sprites Load decodes at once. The default
// is 1, which decodes on the calling goroutine. 0 or a negative value uses
// GOMAXPROCS.
//
// Sources must be safe to decode concurrently when n is not 1.
func WithDecodeWorkers(n int) Option {
	return func(o *options) {
		o.decodeWorkers = n
	}
}
