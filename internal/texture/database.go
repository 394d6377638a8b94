// Package texture owns the global texture database consumed by extraction:
// every texture record keyed by combo id, the page-id to page-name table,
// and the level-name to texture-id index. The database is built once before
// the batch and is read-only afterwards.
package texture

import (
	"bytes"
	"fmt"
	"sort"

	"goal-level-extractor/internal/level"
)

// Record is one texture as stored in the database. RGBABytes is the decoded
// RGBA payload; W and H are the pixel dimensions.
type Record struct {
	Page      uint32
	Name      string
	W, H      uint16
	RGBABytes []byte
}

// ComboID packs a page id and the texture's index within the page into the
// id the renderer uses.
func ComboID(page, index uint32) uint32 { return page<<16 | index&0xffff }

// Database is the global texture store.
type Database struct {
	Textures   map[uint32]Record
	PageNames  map[uint32]string
	IDsByLevel map[string][]uint32
}

func NewDatabase() *Database {
	return &Database{
		Textures:   make(map[uint32]Record),
		PageNames:  make(map[uint32]string),
		IDsByLevel: make(map[string][]uint32),
	}
}

// key is the deduplication identity: page name + texture name. Every record
// sharing a key must carry bit-identical RGBA bytes.
func (db *Database) key(rec Record) string {
	return db.PageNames[rec.Page] + rec.Name
}

// PopulateLevel copies the textures indexed under levelName into the level.
// The level's texture list must be empty; populating twice is a programming
// error. A level name absent from the index is a no-op.
func (db *Database) PopulateLevel(lev *level.Level, levelName string) error {
	if len(lev.Textures) != 0 {
		return fmt.Errorf("texture: level %q already has %d textures populated", levelName, len(lev.Textures))
	}
	ids, ok := db.IDsByLevel[levelName]
	if !ok {
		return nil
	}
	for _, id := range ids {
		rec, ok := db.Textures[id]
		if !ok {
			return fmt.Errorf("texture: level %q indexes unknown texture id %#x", levelName, id)
		}
		tpage := db.PageNames[rec.Page]
		lev.Textures = append(lev.Textures, level.Texture{
			ComboID:        id,
			W:              rec.W,
			H:              rec.H,
			DebugTpageName: tpage,
			DebugName:      tpage + rec.Name,
			Data:           rec.RGBABytes,
			LoadToPool:     true,
		})
	}
	return nil
}

// ConfirmIdentical verifies the content-addressing invariant across the
// whole database: all records sharing a page-name + texture-name key must
// have byte-identical RGBA data. Run once before any extraction; a mismatch
// means the source database is internally inconsistent and aborts the batch.
func (db *Database) ConfirmIdentical() error {
	// Stable iteration so a broken database reports the same pair each run.
	ids := make([]uint32, 0, len(db.Textures))
	for id := range db.Textures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	seen := make(map[string][]byte)
	for _, id := range ids {
		rec := db.Textures[id]
		name := db.key(rec)
		first, ok := seen[name]
		if !ok {
			seen[name] = rec.RGBABytes
			continue
		}
		if !bytes.Equal(first, rec.RGBABytes) {
			return fmt.Errorf("texture: duplicate %q differs: %d bytes vs %d bytes", name, len(rec.RGBABytes), len(first))
		}
	}
	return nil
}
