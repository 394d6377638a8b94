package objfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir builds the archive database from a pre-extracted dump tree:
// one subdirectory per archive (e.g. VI1.DGO/), containing member dumps
// named NNN_<member>.bin. The numeric prefix fixes member order; it is
// stripped along with the extension to recover the member name.
func LoadDir(dir string, version GameVersion) (*DB, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("objfile: read input dir: %w", err)
	}

	db := NewDB(version)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		archive := e.Name()
		members, err := os.ReadDir(filepath.Join(dir, archive))
		if err != nil {
			return nil, fmt.Errorf("objfile: read archive %s: %w", archive, err)
		}

		names := make([]string, 0, len(members))
		for _, m := range members {
			if !m.IsDir() && strings.HasSuffix(m.Name(), ".bin") {
				names = append(names, m.Name())
			}
		}
		sort.Strings(names)

		// Register the archive even when empty so absence stays
		// distinguishable from an empty member list.
		db.FilesByArchive[archive] = []Record{}

		for _, fname := range names {
			raw, err := os.ReadFile(filepath.Join(dir, archive, fname))
			if err != nil {
				return nil, fmt.Errorf("objfile: read member %s/%s: %w", archive, fname, err)
			}
			data, err := ParseMember(memberName(fname), raw)
			if err != nil {
				return nil, err
			}
			db.AddMember(archive, data)
		}
	}
	return db, nil
}

// memberName strips the ordering prefix and .bin extension from a dump
// file name: "003_foo-vis.bin" -> "foo-vis".
func memberName(fname string) string {
	name := strings.TrimSuffix(fname, ".bin")
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[i+1:]
	}
	return name
}
