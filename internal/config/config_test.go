package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const sampleTOML = `
input_dir = "iso_data/jak1"
texture_dir = "texture_replacements"
output_dir = "out"
common_archive = "GAME.CGO"
level_archives = ["VI1.DGO", "VI2.DGO"]
game_version = "jak2"
extract_collision = true
workers = 4
max_texture_dim = 512

[hacks.missing_textures]
village1 = [[5, 7], [5, 8]]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InputDir != "iso_data/jak1" || cfg.GameVersion != "jak2" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.LevelArchives) != 2 || cfg.LevelArchives[0] != "VI1.DGO" {
		t.Fatalf("level archives = %v", cfg.LevelArchives)
	}
	if !cfg.ExtractCollision || cfg.Workers != 4 || cfg.MaxTextureDim != 512 {
		t.Fatalf("settings = %+v", cfg)
	}
	if got := cfg.Hacks.MissingTextures["village1"]; len(got) != 2 {
		t.Fatalf("hacks = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoadBadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "input_dir = [broken"))
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{}
	cfg.Resolve(Flags{})
	if cfg.OutputDir != "fr3_out" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if cfg.CommonArchive != "GAME.CGO" {
		t.Errorf("common archive = %q", cfg.CommonArchive)
	}
	if cfg.GameVersion != "jak1" {
		t.Errorf("game version = %q", cfg.GameVersion)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers = %d", cfg.Workers)
	}
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := Config{InputDir: "from-file", OutputDir: "file-out", Workers: 2}
	cfg.Resolve(Flags{InputDir: "from-flag", Workers: 8, DumpLevels: true})
	if cfg.InputDir != "from-flag" {
		t.Errorf("input dir = %q", cfg.InputDir)
	}
	if cfg.OutputDir != "file-out" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if !cfg.DumpLevels {
		t.Error("dump flag not applied")
	}
}

func TestMissingTexturesByLevel(t *testing.T) {
	cfg := Config{Hacks: Hacks{MissingTextures: map[string][][]int{
		"village1": {{5, 7}, {5, 8}},
	}}}
	got, err := cfg.MissingTexturesByLevel()
	if err != nil {
		t.Fatalf("MissingTexturesByLevel: %v", err)
	}
	want := [][2]int{{5, 7}, {5, 8}}
	if len(got["village1"]) != 2 || got["village1"][0] != want[0] || got["village1"][1] != want[1] {
		t.Fatalf("pairs = %v", got["village1"])
	}
}

func TestMissingTexturesByLevelRejectsBadPair(t *testing.T) {
	cfg := Config{Hacks: Hacks{MissingTextures: map[string][][]int{
		"village1": {{5, 7, 9}},
	}}}
	_, err := cfg.MissingTexturesByLevel()
	if err == nil || !strings.Contains(err.Error(), "village1") {
		t.Fatalf("expected pair validation error, got %v", err)
	}
}
