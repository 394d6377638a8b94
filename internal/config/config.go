// Package config loads the extractor's TOML configuration and applies CLI
// flag overrides and defaults.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configurable paths and extraction settings.
type Config struct {
	// Paths
	InputDir   string `toml:"input_dir"`
	TextureDir string `toml:"texture_dir"`
	OutputDir  string `toml:"output_dir"`

	// Archive set
	CommonArchive string   `toml:"common_archive"`
	LevelArchives []string `toml:"level_archives"`

	// Extraction settings
	GameVersion      string `toml:"game_version"`
	ExtractCollision bool   `toml:"extract_collision"`
	DumpLevels       bool   `toml:"dump_levels"`
	Workers          int    `toml:"workers"`
	MaxTextureDim    int    `toml:"max_texture_dim"`

	Hacks Hacks `toml:"hacks"`
}

// Hacks carries per-level overrides for known data quirks in the source
// assets. MissingTextures maps a level name to [page, index] pairs of
// texture slots known to be intentionally absent from the database.
type Hacks struct {
	MissingTextures map[string][][]int `toml:"missing_textures"`
}

// Load reads a TOML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir   string
	TextureDir string
	OutputDir  string
	Workers    int
	DumpLevels bool
}

// Resolve applies flag overrides and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.DumpLevels {
		c.DumpLevels = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "fr3_out"
	}
	if c.CommonArchive == "" {
		c.CommonArchive = "GAME.CGO"
	}
	if c.GameVersion == "" {
		c.GameVersion = "jak1"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// MissingTexturesByLevel validates and converts the hacks table into the
// [page, index] pair form the terrain-fragment decoder consumes.
func (c *Config) MissingTexturesByLevel() (map[string][][2]int, error) {
	out := make(map[string][][2]int, len(c.Hacks.MissingTextures))
	for levelName, pairs := range c.Hacks.MissingTextures {
		for _, p := range pairs {
			if len(p) != 2 {
				return nil, fmt.Errorf("config: hacks.missing_textures[%q]: entry %v is not a [page, index] pair", levelName, p)
			}
			out[levelName] = append(out[levelName], [2]int{p[0], p[1]})
		}
	}
	return out, nil
}
