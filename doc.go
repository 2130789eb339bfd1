// Package spritepack packs named sprites into a single mip-mapped texture
// atlas and answers UV queries by sprite name.
//
// # Overview
//
// Sprites are decoded, measured and handed to a growing binary-tree packer
// (see package packer) which places every rectangle in a canvas that grows
// right or down on demand, keeping it roughly square. The packed extent is
// rounded up to powers of two, a mipmap level is chosen, and each sprite's
// pixels are uploaded into a texture at its assigned offset.
//
// # Quick Start
//
//	atlas := spritepack.New(spritepack.WithMaxMipmapLevel(-1))
//	err := atlas.Load([]*spritepack.SpriteInfo{
//	    spritepack.NewSprite("hero", spritepack.FileSource("hero.png")),
//	    spritepack.NewSprite("coin", spritepack.FileSource("coin.png")),
//	})
//	if err != nil {
//	    return err
//	}
//	u0, _ := atlas.U0f("coin")
//	v0, _ := atlas.V0f("coin")
//
// # Mipmaps
//
// The mipmap level is 0 when the configured maximum is 0 or when any sprite
// has a side that is not a power of two. Otherwise it is
// floor(log2(min(minWidth, minHeight))) over all sprites, clamped to a
// positive configured maximum. A negative maximum (the default) means auto.
//
// # Textures
//
// Pixels go to a [texture.Texture]. The default is a [texture.CPUTexture];
// use [WithTextureFactory] to target a [texture.GPUTexture] or the ebiten
// backend in texture/ebitentex.
//
// # Concurrency
//
// A TextureAtlas is NOT safe for concurrent use. Load and the queries must
// be serialized by the caller, typically by calling them from the render
// goroutine only.
package spritepack
