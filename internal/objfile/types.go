// Package objfile models the decompiler's linked-object database: the named
// member records of each archive (DGO/CGO) and their parsed word streams.
// The database is built once before extraction and is read-only afterwards,
// so it is safe to share across worker goroutines without locking.
package objfile

import "fmt"

// GameVersion selects per-title decoding quirks.
type GameVersion int

const (
	Jak1 GameVersion = iota + 1
	Jak2
)

// ParseGameVersion maps a config string to a GameVersion.
func ParseGameVersion(s string) (GameVersion, error) {
	switch s {
	case "jak1":
		return Jak1, nil
	case "jak2":
		return Jak2, nil
	}
	return 0, fmt.Errorf("objfile: unknown game version %q", s)
}

func (v GameVersion) String() string {
	switch v {
	case Jak1:
		return "jak1"
	case Jak2:
		return "jak2"
	}
	return fmt.Sprintf("GameVersion(%d)", int(v))
}

// WordKind classifies one 32-bit word of a linked segment.
type WordKind int

const (
	// WordPlain is raw data.
	WordPlain WordKind = iota
	// WordTypePointer is a pointer to a type, carrying the type's name.
	WordTypePointer
	// WordSymbol is a pointer to a symbol, carrying the symbol's name.
	WordSymbol
)

// Word is one 32-bit word of a linked object segment. Data is meaningful for
// WordPlain; Symbol carries the referenced name for the pointer kinds.
type Word struct {
	Kind   WordKind
	Data   uint32
	Symbol string
}

// Record names one member inside an archive. Identity is the name; the
// archive's member sequence preserves on-disk order.
type Record struct {
	Name string
}

// File is the linked representation of one member: its segments, each an
// ordered word stream.
type File struct {
	Segments   int
	WordsBySeg [][]Word
}

// Data pairs a member record with its parsed content.
type Data struct {
	Record     Record
	LinkedData File
}

// DB is the archive database consumed by extraction. Records per archive
// stay in on-disk order; Lookup resolves a record to its parsed content.
type DB struct {
	GameVersion    GameVersion
	FilesByArchive map[string][]Record

	members map[string]*Data
}

func NewDB(version GameVersion) *DB {
	return &DB{
		GameVersion:    version,
		FilesByArchive: make(map[string][]Record),
		members:        make(map[string]*Data),
	}
}

// AddMember appends a parsed member to an archive's record list.
func (db *DB) AddMember(archive string, data *Data) {
	db.FilesByArchive[archive] = append(db.FilesByArchive[archive], data.Record)
	db.members[data.Record.Name] = data
}

// HasArchive reports whether the archive was part of the input set.
func (db *DB) HasArchive(archive string) bool {
	_, ok := db.FilesByArchive[archive]
	return ok
}

// Lookup resolves a member record to its parsed content.
func (db *DB) Lookup(rec Record) (*Data, error) {
	data, ok := db.members[rec.Name]
	if !ok {
		return nil, fmt.Errorf("objfile: no parsed content for member %q", rec.Name)
	}
	return data, nil
}
