package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseArgs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "spritepack.toml")
	conf := "in = \"from-file\"\nout = \"file-out\"\nmax_mip = 2\nsort = \"area\"\nfilter = \"bilinear\"\n"
	if err := os.WriteFile(cfgPath, []byte(conf), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want config
	}{
		{
			name: "defaults",
			args: []string{"-in", "sprites"},
			want: config{In: "sprites", Out: "atlas", MaxMip: -1, Sort: "maxside", Filter: "box", Generator: "custom", Workers: 1},
		},
		{
			name: "config file",
			args: []string{"-config", cfgPath},
			want: config{In: "from-file", Out: "file-out", MaxMip: 2, Sort: "area", Filter: "bilinear", Generator: "custom", Workers: 1},
		},
		{
			name: "workers zero uses GOMAXPROCS",
			args: []string{"-in", "sprites", "-workers", "0"},
			want: config{In: "sprites", Out: "atlas", MaxMip: -1, Sort: "maxside", Filter: "box", Generator: "custom"},
		},
		{
			name: "flags override config",
			args: []string{"-config", cfgPath, "-max-mip", "0", "-sort", "height", "-workers", "2", "-v"},
			want: config{In: "from-file", Out: "file-out", MaxMip: 0, Sort: "height", Filter: "bilinear", Generator: "custom", Workers: 2, Verbose: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	if _, err := parseArgs(nil, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("no -in: error = %v, want errUsage", err)
	}
	if _, err := parseArgs([]string{"-config", "/nonexistent/x.toml"}, &bytes.Buffer{}); err == nil {
		t.Error("missing config file: want error")
	}
	if _, err := parseArgs([]string{"-bogus"}, &bytes.Buffer{}); err == nil {
		t.Error("unknown flag: want error")
	}
}

func TestConfig_AtlasOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config)
		wantErr string
	}{
		{"valid", func(*config) {}, ""},
		{"upper case sort", func(c *config) { c.Sort = "AREA" }, ""},
		{"default generator", func(c *config) { c.Generator = "default" }, ""},
		{"bad sort", func(c *config) { c.Sort = "diagonal" }, "sort key"},
		{"bad filter", func(c *config) { c.Filter = "lanczos" }, "filter"},
		{"bad generator", func(c *config) { c.Generator = "gpu" }, "generator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig()
			tt.mutate(&c)
			opts, _, err := c.atlasOptions()
			if tt.wantErr == "" {
				if err != nil || len(opts) == 0 {
					t.Errorf("atlasOptions() = %d opts, %v", len(opts), err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("atlasOptions() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "hero.png"), 32, 32, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(in, "coin.png"), 16, 16, color.NRGBA{G: 255, A: 255})
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip me"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "atlas")
	cfg := defaultConfig()
	cfg.In = in
	cfg.Out = out

	var logs bytes.Buffer
	if err := run(cfg, &logs); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(logs.String(), "atlas written") {
		t.Errorf("summary not logged:\n%s", logs.String())
	}

	f, err := os.Open(out + ".png")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("atlas size = %dx%d, want 64x32", b.Dx(), b.Dy())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a == 0 {
		t.Error("hero pixels missing at origin")
	}

	data, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var m struct {
		Frames map[string]json.RawMessage `json:"frames"`
		Meta   struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(m.Frames) != 2 || m.Meta.Image != "atlas.png" {
		t.Errorf("manifest frames=%d image=%q, want 2 frames for atlas.png", len(m.Frames), m.Meta.Image)
	}
}

func TestRun_Errors(t *testing.T) {
	empty := t.TempDir()
	cfg := defaultConfig()
	cfg.In = empty
	cfg.Out = filepath.Join(t.TempDir(), "atlas")
	if err := run(cfg, &bytes.Buffer{}); err == nil || !strings.Contains(err.Error(), "no images") {
		t.Errorf("empty dir: error = %v", err)
	}

	cfg.In = filepath.Join(empty, "missing")
	if err := run(cfg, &bytes.Buffer{}); err == nil {
		t.Error("missing dir: want error")
	}

	writePNG(t, filepath.Join(empty, "a.png"), 4, 4, color.NRGBA{A: 255})
	cfg.In = empty
	cfg.Filter = "nearest-ish"
	if err := run(cfg, &bytes.Buffer{}); err == nil {
		t.Error("bad filter: want error")
	}
}
