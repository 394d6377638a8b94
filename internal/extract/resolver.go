// Package extract implements the level extraction pipeline: locating and
// validating the scene-graph root inside each archive, dispatching its
// drawable trees to the geometry decoders, aggregating texture and geometry
// data into one Level per archive, and orchestrating the per-archive batch.
package extract

import (
	"fmt"
	"strings"

	"goal-level-extractor/internal/objfile"
)

// rootSuffix marks an archive member as the scene-graph root.
const rootSuffix = "-vis"

// FindRootRecord scans an archive's member list for the scene-graph root:
// the single member whose name carries the -vis suffix. Two such members is
// a hard invariant violation. When no member matches and the archive name
// carries a DGO/CGO extension, the archive's last member is accepted if its
// name equals the lowercased archive name with the extension stripped.
// Returns (nil, nil) when no root exists; callers warn and skip.
func FindRootRecord(records []objfile.Record, archiveName string) (*objfile.Record, error) {
	var found *objfile.Record
	for i := range records {
		name := records[i].Name
		if len(name) > len(rootSuffix) && strings.HasSuffix(name, rootSuffix) {
			if found != nil {
				return nil, fmt.Errorf("extract: archive %s has duplicate scene-graph root candidates %q and %q",
					archiveName, found.Name, name)
			}
			found = &records[i]
		}
	}
	if found != nil {
		return found, nil
	}

	if strings.HasSuffix(archiveName, ".DGO") || strings.HasSuffix(archiveName, ".CGO") {
		expected := strings.ToLower(archiveName[:len(archiveName)-4])
		if len(records) > 0 && records[len(records)-1].Name == expected {
			return &records[len(records)-1], nil
		}
	}
	return nil, nil
}

// ValidateRoot confirms a candidate root member has the expected binary
// shape before its parsed content is trusted: exactly one segment whose
// first word is a type pointer naming the scene-graph root type. Any
// violation is an internal invariant breach; callers abort the archive.
func ValidateRoot(f *objfile.File) error {
	if f.Segments != 1 {
		return fmt.Errorf("extract: scene-graph root has %d segments, expected 1", f.Segments)
	}
	if len(f.WordsBySeg) != 1 || len(f.WordsBySeg[0]) == 0 {
		return fmt.Errorf("extract: scene-graph root segment is empty")
	}
	first := f.WordsBySeg[0][0]
	if first.Kind != objfile.WordTypePointer {
		return fmt.Errorf("extract: expected the first word to be a type pointer, got kind %d", first.Kind)
	}
	if first.Symbol != rootTypeTag {
		return fmt.Errorf("extract: expected a %s, got %q", rootTypeTag, first.Symbol)
	}
	return nil
}
