package texture

import (
	"strings"
	"testing"

	"goal-level-extractor/internal/level"
)

func testDB() *Database {
	db := NewDatabase()
	db.PageNames[0] = "village1-"
	db.PageNames[1] = "common-"
	db.Textures[ComboID(0, 0)] = Record{Page: 0, Name: "grass", W: 2, H: 1, RGBABytes: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	db.Textures[ComboID(0, 1)] = Record{Page: 0, Name: "rock", W: 1, H: 1, RGBABytes: []byte{9, 9, 9, 9}}
	db.Textures[ComboID(1, 0)] = Record{Page: 1, Name: "eyes", W: 1, H: 1, RGBABytes: []byte{0, 0, 0, 0}}
	db.IDsByLevel["village1"] = []uint32{ComboID(0, 0), ComboID(0, 1)}
	return db
}

func TestPopulateLevel(t *testing.T) {
	db := testDB()
	lev := &level.Level{}
	if err := db.PopulateLevel(lev, "village1"); err != nil {
		t.Fatalf("PopulateLevel: %v", err)
	}
	if len(lev.Textures) != len(db.IDsByLevel["village1"]) {
		t.Fatalf("textures = %d, want %d", len(lev.Textures), len(db.IDsByLevel["village1"]))
	}

	first := lev.Textures[0]
	if first.ComboID != ComboID(0, 0) || first.W != 2 || first.H != 1 {
		t.Fatalf("first texture = %+v", first)
	}
	if first.DebugTpageName != "village1-" || first.DebugName != "village1-grass" {
		t.Fatalf("debug names = %q %q", first.DebugTpageName, first.DebugName)
	}
	if !first.LoadToPool {
		t.Fatal("texture not marked for the runtime pool")
	}
}

func TestPopulateLevelAbsentIndexEntry(t *testing.T) {
	db := testDB()
	lev := &level.Level{}
	if err := db.PopulateLevel(lev, "nosuchlevel"); err != nil {
		t.Fatalf("PopulateLevel: %v", err)
	}
	if len(lev.Textures) != 0 {
		t.Fatalf("textures = %d, want 0", len(lev.Textures))
	}
}

func TestPopulateLevelRejectsDoublePopulation(t *testing.T) {
	db := testDB()
	lev := &level.Level{}
	if err := db.PopulateLevel(lev, "village1"); err != nil {
		t.Fatalf("first PopulateLevel: %v", err)
	}
	err := db.PopulateLevel(lev, "village1")
	if err == nil || !strings.Contains(err.Error(), "already") {
		t.Fatalf("expected double-population error, got %v", err)
	}
}

func TestConfirmIdentical(t *testing.T) {
	db := testDB()
	// Same page-name + texture-name key in another record, identical bytes.
	db.Textures[ComboID(0, 2)] = Record{Page: 0, Name: "grass", W: 2, H: 1, RGBABytes: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	db.IDsByLevel["village2"] = []uint32{ComboID(0, 2)}
	if err := db.ConfirmIdentical(); err != nil {
		t.Fatalf("ConfirmIdentical: %v", err)
	}
}

func TestConfirmIdenticalMismatch(t *testing.T) {
	db := testDB()
	db.Textures[ComboID(0, 2)] = Record{Page: 0, Name: "grass", W: 2, H: 1, RGBABytes: []byte{0xff}}
	err := db.ConfirmIdentical()
	if err == nil || !strings.Contains(err.Error(), "village1-grass") {
		t.Fatalf("expected duplicate mismatch error, got %v", err)
	}
}

func TestComboID(t *testing.T) {
	if got := ComboID(3, 17); got != 3<<16|17 {
		t.Fatalf("ComboID = %#x", got)
	}
}
