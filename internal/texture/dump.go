package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/HugoSmits86/nativewebp"
)

// DumpWebP writes every record in the database to dir as
// <page>-<name>.webp, for visual inspection of the ingested textures.
func (db *Database) DumpWebP(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("texture: create dump dir: %w", err)
	}

	ids := make([]uint32, 0, len(db.Textures))
	for id := range db.Textures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rec := db.Textures[id]
		img := &image.NRGBA{
			Pix:    rec.RGBABytes,
			Stride: 4 * int(rec.W),
			Rect:   image.Rect(0, 0, int(rec.W), int(rec.H)),
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.webp", db.PageNames[rec.Page], rec.Name))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("texture: create %s: %w", path, err)
		}
		if err := nativewebp.Encode(f, img, nil); err != nil {
			f.Close()
			return fmt.Errorf("texture: encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("texture: close %s: %w", path, err)
		}
	}
	return nil
}
