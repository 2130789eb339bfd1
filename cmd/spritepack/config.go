package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/spritepack"
	"github.com/gogpu/spritepack/packer"
	"github.com/gogpu/spritepack/texture"
)

var errUsage = errors.New("spritepack: -in is required")

// config holds the packing settings. Every key can come from the TOML file
// given with -config; flags set on the command line take precedence.
type config struct {
	In        string `toml:"in"`
	Out       string `toml:"out"`
	MaxMip    int    `toml:"max_mip"`
	Sort      string `toml:"sort"`
	Filter    string `toml:"filter"`
	Generator string `toml:"generator"`
	Workers   int    `toml:"workers"`
	Verbose   bool   `toml:"verbose"`
}

func defaultConfig() config {
	return config{
		Out:       "atlas",
		MaxMip:    -1,
		Sort:      "maxside",
		Filter:    "box",
		Generator: "custom",
		Workers:   1,
	}
}

// parseArgs builds the configuration from defaults, the optional config
// file and the command line, in that order.
func parseArgs(args []string, output io.Writer) (config, error) {
	def := defaultConfig()
	var flags config
	var configPath string

	fs := flag.NewFlagSet("spritepack", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.In, "in", def.In, "directory of sprite images")
	fs.StringVar(&flags.Out, "out", def.Out, "output prefix for PREFIX.png and PREFIX.json")
	fs.StringVar(&configPath, "config", "", "TOML config file")
	fs.IntVar(&flags.MaxMip, "max-mip", def.MaxMip, "highest mipmap level (0 disables, negative is auto)")
	fs.StringVar(&flags.Sort, "sort", def.Sort, "packing order: maxside, area, width or height")
	fs.StringVar(&flags.Filter, "filter", def.Filter, "mipmap filter: box, bilinear or catmullrom")
	fs.StringVar(&flags.Generator, "generator", def.Generator, "upload mode: custom (per sprite) or default (composited)")
	fs.IntVar(&flags.Workers, "workers", def.Workers, "concurrent image decoders, 1 decodes sequentially and 0 uses GOMAXPROCS")
	fs.BoolVar(&flags.Verbose, "v", def.Verbose, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := def
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			return config{}, fmt.Errorf("spritepack: read config: %w", err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.In = flags.In
		case "out":
			cfg.Out = flags.Out
		case "max-mip":
			cfg.MaxMip = flags.MaxMip
		case "sort":
			cfg.Sort = flags.Sort
		case "filter":
			cfg.Filter = flags.Filter
		case "generator":
			cfg.Generator = flags.Generator
		case "workers":
			cfg.Workers = flags.Workers
		case "v":
			cfg.Verbose = flags.Verbose
		}
	})

	if cfg.In == "" {
		return config{}, errUsage
	}
	return cfg, nil
}

// atlasOptions validates the named settings and turns them into atlas
// options.
func (c config) atlasOptions() ([]spritepack.Option, texture.Filter, error) {
	key, ok := packer.SortKeyByName(strings.ToLower(c.Sort))
	if !ok {
		return nil, 0, fmt.Errorf("spritepack: unknown sort key %q", c.Sort)
	}
	filter, ok := texture.ParseFilter(c.Filter)
	if !ok {
		return nil, 0, fmt.Errorf("spritepack: unknown filter %q", c.Filter)
	}

	var gen spritepack.MipmapGenerator
	switch strings.ToLower(c.Generator) {
	case "", "custom":
		gen = spritepack.MipmapCustomThenDefault
	case "default":
		gen = spritepack.MipmapDefault
	default:
		return nil, 0, fmt.Errorf("spritepack: unknown generator %q", c.Generator)
	}

	return []spritepack.Option{
		spritepack.WithMaxMipmapLevel(c.MaxMip),
		spritepack.WithSortKey(key),
		spritepack.WithMipmapGenerator(gen),
		spritepack.WithTextureFactory(texture.CPUFactory(filter)),
		spritepack.WithLabel(c.Out),
		spritepack.WithDecodeWorkers(c.Workers),
	}, filter, nil
}
