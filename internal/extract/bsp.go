package extract

import (
	"fmt"
	"strings"

	"goal-level-extractor/internal/bsp"
	"goal-level-extractor/internal/level"
	"goal-level-extractor/internal/logging"
	"goal-level-extractor/internal/objfile"
	"goal-level-extractor/internal/texture"
)

const rootTypeTag = bsp.RootTypeTag

// ExtractBspFromLevel resolves and parses the archive's scene-graph root,
// dispatches every drawable tree to its geometry decoder, and sets the
// level's name. Returns the root's texture remap table for reuse by the
// art-group pass. A missing root is a warned skip, not an error; every
// invariant violation past that point is fatal for the archive.
func ExtractBspFromLevel(db *objfile.DB, texDB *texture.Database, archiveName string,
	hacks map[string][][2]int, extractCollision bool, lev *level.Level) ([]bsp.TextureRemap, error) {
	rec, err := FindRootRecord(db.FilesByArchive[archiveName], archiveName)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		logging.Warn("skipping extract because the scene-graph root was not found",
			logging.String("archive", archiveName))
		return nil, nil
	}
	levelName := strings.TrimSuffix(rec.Name, rootSuffix)

	logging.Info("processing level",
		logging.String("archive", archiveName), logging.String("level", levelName))

	data, err := db.Lookup(*rec)
	if err != nil {
		return nil, err
	}
	if err := ValidateRoot(&data.LinkedData); err != nil {
		return nil, fmt.Errorf("%w (archive %s member %s)", err, archiveName, rec.Name)
	}
	hdr, err := bsp.ReadHeader(&data.LinkedData)
	if err != nil {
		return nil, fmt.Errorf("extract: archive %s: %w", archiveName, err)
	}

	// Collision geometry cross-references static-mesh placement, so gather
	// every tie tree up front.
	var allTies []*bsp.InstanceTieTree
	for _, tree := range hdr.Trees {
		if tie, ok := tree.(*bsp.InstanceTieTree); ok {
			allTies = append(allTies, tie)
		}
	}

	expectedMissing := hacks[levelName]
	atestDisable := db.GameVersion == objfile.Jak2 && hdr.TextureFlags[0]&1 != 0

	i := 0
	gotCollide := false
	for _, tree := range hdr.Trees {
		switch t := tree.(type) {
		case *bsp.TfragTree:
			err := extractTfrag(t, fmt.Sprintf("%s-%d", archiveName, i), hdr.TextureRemapTable,
				texDB, expectedMissing, lev, atestDisable)
			if err != nil {
				return nil, err
			}
			i++
		case *bsp.InstanceTieTree:
			err := extractTie(t, fmt.Sprintf("%s-%d-tie", archiveName, i), hdr.TextureRemapTable, texDB, lev)
			if err != nil {
				return nil, err
			}
			i++
		case *bsp.InstanceShrubTree:
			err := extractShrub(t, fmt.Sprintf("%s-%d-shrub", archiveName, i), hdr.TextureRemapTable, texDB, lev)
			if err != nil {
				return nil, err
			}
			i++
		case *bsp.CollideFragmentTree:
			if !extractCollision {
				logging.Debug("collision extraction disabled, skipping collide-fragment tree",
					logging.String("archive", archiveName))
				continue
			}
			if gotCollide {
				return nil, fmt.Errorf("extract: archive %s has a second collide-fragment tree", archiveName)
			}
			gotCollide = true
			err := extractCollideFrags(t, allTies, fmt.Sprintf("%s-%d-collide", archiveName, i), lev)
			if err != nil {
				return nil, err
			}
			i++
		default:
			logging.Warn("unsupported drawable tree",
				logging.String("archive", archiveName), logging.String("tag", tree.Tag()))
		}
	}

	if lev.LevelName != "" {
		return nil, fmt.Errorf("extract: level name already set to %q while extracting %s", lev.LevelName, archiveName)
	}
	lev.LevelName = levelName

	return hdr.TextureRemapTable, nil
}
