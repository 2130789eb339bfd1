// Command spritepack packs a directory of images into a texture atlas.
//
// Usage:
//
//	spritepack -in sprites/ -out build/atlas [-config spritepack.toml]
//	           [-max-mip N] [-sort maxside|area|width|height]
//	           [-filter box|bilinear|catmullrom] [-generator custom|default]
//	           [-workers N] [-v]
//
// It writes PREFIX.png (mip level 0) and PREFIX.json, a TexturePacker hash
// manifest. Sprite names are file names without their extension.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/spritepack"
	"github.com/gogpu/spritepack/texture"

	intImage "github.com/gogpu/spritepack/internal/image"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := run(cfg, os.Stderr); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg config, logOutput io.Writer) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))
	spritepack.SetLogger(logger)
	defer spritepack.SetLogger(nil)

	opts, filter, err := cfg.atlasOptions()
	if err != nil {
		return err
	}

	sprites, err := collectSprites(cfg.In)
	if err != nil {
		return err
	}
	if len(sprites) == 0 {
		return fmt.Errorf("spritepack: no images in %s", cfg.In)
	}

	atlas := spritepack.New(opts...)
	defer atlas.Close()
	if err := atlas.Load(sprites); err != nil {
		return err
	}

	pngPath := cfg.Out + ".png"
	jsonPath := cfg.Out + ".json"
	if err := writeTexture(atlas, pngPath); err != nil {
		return err
	}
	if err := writeManifest(atlas, jsonPath, filepath.Base(pngPath)); err != nil {
		return err
	}

	layout, _ := atlas.Layout()
	logger.Info("atlas written",
		"sprites", layout.Len(),
		"canvas", fmt.Sprintf("%dx%d", layout.CanvasWidth, layout.CanvasHeight),
		"mipmap_level", layout.MipmapLevel,
		"filter", filter,
		"png", pngPath,
		"json", jsonPath)
	return nil
}

// collectSprites returns one sprite per supported image in dir, ordered by
// file name.
func collectSprites(dir string) ([]*spritepack.SpriteInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spritepack: read input: %w", err)
	}
	var sprites []*spritepack.SpriteInfo
	for _, e := range entries {
		if e.IsDir() || !intImage.IsImageFile(e.Name()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())
		sprites = append(sprites, spritepack.NewSprite(name, spritepack.FileSource(path)))
	}
	return sprites, nil
}

func writeTexture(atlas *spritepack.TextureAtlas, path string) error {
	cpu, ok := atlas.Texture().(*texture.CPUTexture)
	if !ok {
		return fmt.Errorf("spritepack: texture %T cannot be read back", atlas.Texture())
	}
	if err := cpu.SavePNG(0, path); err != nil {
		return fmt.Errorf("spritepack: write %s: %w", path, err)
	}
	return nil
}

func writeManifest(atlas *spritepack.TextureAtlas, path, image string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("spritepack: create %s: %w", path, err)
	}
	if err := atlas.WriteManifest(f, image); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
