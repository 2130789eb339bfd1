package spritepack

import (
	"encoding/json"
	"fmt"
	"io"
)

// Manifest JSON types, in the TexturePacker "hash" layout.

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonMeta struct {
	App         string   `json:"app"`
	Image       string   `json:"image"`
	Format      string   `json:"format"`
	Size        jsonSize `json:"size"`
	Scale       string   `json:"scale"`
	MipmapLevel int      `json:"mipmapLevel"`
}

type jsonManifest struct {
	Frames map[string]jsonFrame `json:"frames"`
	Meta   jsonMeta             `json:"meta"`
}

// WriteManifest writes the atlas layout as TexturePacker hash JSON, with
// image as the texture file name. Unplaced sprites are omitted.
func (a *TextureAtlas) WriteManifest(w io.Writer, image string) error {
	if a.layout == nil {
		return ErrNotLoaded
	}

	m := jsonManifest{
		Frames: make(map[string]jsonFrame, a.layout.Len()),
		Meta: jsonMeta{
			App:         "spritepack",
			Image:       image,
			Format:      "RGBA8888",
			Size:        jsonSize{W: a.layout.CanvasWidth, H: a.layout.CanvasHeight},
			Scale:       "1",
			MipmapLevel: a.layout.MipmapLevel,
		},
	}
	for _, name := range a.layout.names {
		x, y, sw, sh, ok := a.layout.slots[name].Rect()
		if !ok {
			continue
		}
		m.Frames[name] = jsonFrame{
			Frame:            jsonRect{X: x, Y: y, W: sw, H: sh},
			SpriteSourceSize: jsonRect{W: sw, H: sh},
			SourceSize:       jsonSize{W: sw, H: sh},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("spritepack: write manifest: %w", err)
	}
	return nil
}
