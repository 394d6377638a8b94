package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ftrvxmtrx/tga"
	xdraw "golang.org/x/image/draw"
)

// LoadDatabaseFromDir builds a texture database from a dump tree laid out
// as <dir>/<level>/<page>/<name>.tga. Page ids are assigned in first-seen
// order and shared across levels; each file becomes its own record with the
// next index in its page, so the same texture appearing in two levels
// yields two records under one page-name + texture-name key (which the
// identity check later verifies are byte-identical).
//
// Images larger than maxDim on either axis are downscaled to fit,
// preserving aspect ratio. maxDim <= 0 disables scaling.
func LoadDatabaseFromDir(dir string, maxDim int) (*Database, error) {
	levels, err := sortedSubdirs(dir)
	if err != nil {
		return nil, fmt.Errorf("texture: read texture dir: %w", err)
	}

	db := NewDatabase()
	pageIDs := make(map[string]uint32)
	nextIndex := make(map[uint32]uint32)

	for _, levelName := range levels {
		pages, err := sortedSubdirs(filepath.Join(dir, levelName))
		if err != nil {
			return nil, fmt.Errorf("texture: read level %s: %w", levelName, err)
		}
		for _, pageName := range pages {
			page, ok := pageIDs[pageName]
			if !ok {
				page = uint32(len(pageIDs))
				pageIDs[pageName] = page
				db.PageNames[page] = pageName
			}

			pageDir := filepath.Join(dir, levelName, pageName)
			files, err := os.ReadDir(pageDir)
			if err != nil {
				return nil, fmt.Errorf("texture: read page %s: %w", pageDir, err)
			}
			names := make([]string, 0, len(files))
			for _, f := range files {
				if !f.IsDir() && strings.EqualFold(filepath.Ext(f.Name()), ".tga") {
					names = append(names, f.Name())
				}
			}
			sort.Strings(names)

			for _, fname := range names {
				rec, err := loadRecord(filepath.Join(pageDir, fname), page, maxDim)
				if err != nil {
					return nil, err
				}
				id := ComboID(page, nextIndex[page])
				nextIndex[page]++
				db.Textures[id] = rec
				db.IDsByLevel[levelName] = append(db.IDsByLevel[levelName], id)
			}
		}
	}
	return db, nil
}

func loadRecord(path string, page uint32, maxDim int) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := tga.Decode(f)
	if err != nil {
		return Record{}, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	nrgba := toNRGBA(img)
	if maxDim > 0 {
		nrgba = clampSize(nrgba, maxDim)
	}

	b := nrgba.Bounds()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Record{
		Page:      page,
		Name:      strings.ToLower(name),
		W:         uint16(b.Dx()),
		H:         uint16(b.Dy()),
		RGBABytes: nrgba.Pix,
	}, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// clampSize downscales img so neither axis exceeds maxDim.
func clampSize(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
