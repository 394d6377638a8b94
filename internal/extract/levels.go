package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goal-level-extractor/internal/bsp"
	"goal-level-extractor/internal/compress"
	"goal-level-extractor/internal/gltf"
	"goal-level-extractor/internal/level"
	"goal-level-extractor/internal/logging"
	"goal-level-extractor/internal/objfile"
	"goal-level-extractor/internal/texture"
)

// artifactExt is the extension of persisted level artifacts.
const artifactExt = ".fr3"

// glbSubdir is the diagnostic output tree for mesh-interchange dumps.
const glbSubdir = "glb_out"

// extractArtGroups decodes every -ag (skinned art) member of the archive
// into the level, using the remap table returned by the scene-graph pass.
func extractArtGroups(db *objfile.DB, texDB *texture.Database, remap []bsp.TextureRemap,
	archiveName string, lev *level.Level) error {
	for _, rec := range db.FilesByArchive[archiveName] {
		if len(rec.Name) > len(artGroupSuffix) && strings.HasSuffix(rec.Name, artGroupSuffix) {
			data, err := db.Lookup(rec)
			if err != nil {
				return err
			}
			if err := extractMerc(data, texDB, remap, lev); err != nil {
				return err
			}
		}
	}
	return nil
}

// serializeAndSave flattens the level, compresses it, reports sizes, and
// persists the artifact named after the archive with its extension replaced.
func serializeAndSave(lev *level.Level, archiveName, outputDir string) error {
	flat, err := lev.MarshalBinary()
	if err != nil {
		return fmt.Errorf("extract: serialize %s: %w", archiveName, err)
	}
	compressed, err := compress.Zstd(flat)
	if err != nil {
		return fmt.Errorf("extract: compress %s: %w", archiveName, err)
	}

	logging.Info("stats", logging.String("archive", archiveName))
	fmt.Println(level.MemoryUsageTable(lev, len(flat)))
	logging.Info("compressed level",
		logging.String("archive", archiveName),
		logging.Int("uncompressed", len(flat)),
		logging.Int("compressed", len(compressed)),
		logging.Float("ratio_pct", 100*float64(len(compressed))/float64(len(flat))))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("extract: create output dir: %w", err)
	}
	path := filepath.Join(outputDir, stripArchiveExt(archiveName)+artifactExt)
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return fmt.Errorf("extract: write %s: %w", path, err)
	}
	return nil
}

// stripArchiveExt removes the archive file extension: "VI1.DGO" -> "VI1".
func stripArchiveExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExtractCommon extracts the shared/common archive. It is not a real level:
// no scene-graph content is expected, only textures and art groups. Absence
// of the archive or an empty texture database is a warned no-op.
func ExtractCommon(db *objfile.DB, texDB *texture.Database, archiveName string,
	dumpLevels bool, outputDir string) error {
	if !db.HasArchive(archiveName) {
		logging.Warn("skipping common extract because the archive was not part of the input",
			logging.String("archive", archiveName))
		return nil
	}
	if len(texDB.Textures) == 0 {
		logging.Warn("skipping common extract because there were no textures in the input")
		return nil
	}

	lev := &level.Level{}
	if err := texDB.PopulateLevel(lev, archiveName); err != nil {
		return err
	}
	if err := extractArtGroups(db, texDB, nil, archiveName, lev); err != nil {
		return err
	}
	if err := serializeAndSave(lev, archiveName, outputDir); err != nil {
		return err
	}

	if dumpLevels {
		path := filepath.Join(outputDir, glbSubdir, "common.glb")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("extract: create glb dir: %w", err)
		}
		if err := gltf.SaveLevelForeground(lev, path); err != nil {
			return err
		}
	}
	return nil
}

// ExtractFromLevel extracts one level archive end to end: textures, the
// scene graph, then art groups sharing the scene graph's remap table.
// Absence of the archive from the input set is a warned no-op.
func ExtractFromLevel(db *objfile.DB, texDB *texture.Database, archiveName string,
	hacks map[string][][2]int, dumpLevels, extractCollision bool, outputDir string) error {
	if !db.HasArchive(archiveName) {
		logging.Warn("skipping extract because the archive was not part of the input",
			logging.String("archive", archiveName))
		return nil
	}

	lev := &level.Level{}
	if err := texDB.PopulateLevel(lev, archiveName); err != nil {
		return err
	}

	remap, err := ExtractBspFromLevel(db, texDB, archiveName, hacks, extractCollision, lev)
	if err != nil {
		return err
	}
	if err := extractArtGroups(db, texDB, remap, archiveName, lev); err != nil {
		return err
	}
	if err := serializeAndSave(lev, archiveName, outputDir); err != nil {
		return err
	}

	if dumpLevels {
		name := lev.LevelName
		if name == "" {
			name = strings.ToLower(stripArchiveExt(archiveName))
		}
		glbDir := filepath.Join(outputDir, glbSubdir)
		if err := os.MkdirAll(glbDir, 0755); err != nil {
			return fmt.Errorf("extract: create glb dir: %w", err)
		}
		if err := gltf.SaveLevelBackground(lev, filepath.Join(glbDir, name+"_background.glb")); err != nil {
			return err
		}
		if err := gltf.SaveLevelForeground(lev, filepath.Join(glbDir, name+"_foreground.glb")); err != nil {
			return err
		}
	}
	return nil
}
