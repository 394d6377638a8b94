package level

import (
	"bytes"
	"strings"
	"testing"
)

func sampleLevel() *Level {
	return &Level{
		LevelName: "village1",
		Textures: []Texture{
			{
				ComboID:        0x30001,
				W:              32,
				H:              16,
				DebugTpageName: "village1-",
				DebugName:      "village1-grass",
				Data:           []byte{1, 2, 3, 4},
				LoadToPool:     true,
			},
		},
		TfragTrees: []TfragTree{
			{
				Name:              "VI1.DGO-0",
				AlphaTestDisabled: true,
				TextureIDs:        []uint32{0x30001},
				Vertices:          []Vertex{{X: 1, Y: 2, Z: 3, S: 0.5, T: 0.25}},
				Indices:           []uint32{0, 0, 0},
			},
		},
		TieTrees: []TieTree{
			{
				Name:       "VI1.DGO-1-tie",
				Instances:  []TieInstance{{FragIndex: 0, X: 10, Y: 0, Z: -4}},
				TextureIDs: []uint32{0x30001},
				Vertices:   []Vertex{{X: 0, Y: 1, Z: 0}},
				Indices:    []uint32{0},
			},
		},
		ShrubTrees: []ShrubTree{
			{
				Name:       "VI1.DGO-2-shrub",
				TextureIDs: []uint32{0x30001},
				Vertices:   []Vertex{{X: -1}},
				Indices:    []uint32{0},
			},
		},
		Collision: Collision{
			Name:     "VI1.DGO-3-collide",
			Vertices: []CollideVertex{{X: 1, Y: 2, Z: 3, Pat: 7}},
		},
		MercModels: []MercModel{
			{
				Name:       "sage-ag",
				JointCount: 42,
				TextureIDs: []uint32{0x30001},
				Vertices:   []Vertex{{X: 5}},
				Indices:    []uint32{0},
			},
		},
	}
}

// A level unmarshalled from a valid buffer must re-marshal to byte-identical
// output. This is the contract the renderer-side parser relies on.
func TestSerializeRoundTrip(t *testing.T) {
	lev := sampleLevel()
	first, err := lev.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	parsed := &Level{}
	if err := parsed.UnmarshalBinary(first); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	second, err := parsed.MarshalBinary()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("round trip not byte-identical: %d vs %d bytes", len(first), len(second))
	}

	if parsed.LevelName != "village1" {
		t.Fatalf("level name = %q", parsed.LevelName)
	}
	if parsed.TfragTrees[0].Vertices[0].S != 0.5 {
		t.Fatalf("tfrag vertex = %+v", parsed.TfragTrees[0].Vertices[0])
	}
	if parsed.Collision.Vertices[0].Pat != 7 {
		t.Fatalf("collision vertex = %+v", parsed.Collision.Vertices[0])
	}
}

func TestSerializeEmptyLevel(t *testing.T) {
	lev := &Level{LevelName: "empty"}
	buf, err := lev.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	parsed := &Level{}
	if err := parsed.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if parsed.LevelName != "empty" || len(parsed.Textures) != 0 || len(parsed.TfragTrees) != 0 {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	buf, err := sampleLevel().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	buf[0] ^= 0xff
	err = (&Level{}).UnmarshalBinary(buf)
	if err == nil || !strings.Contains(err.Error(), "magic") {
		t.Fatalf("expected magic error, got %v", err)
	}
}

func TestUnmarshalRejectsBadVersion(t *testing.T) {
	buf, err := sampleLevel().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	buf[4] = 99
	err = (&Level{}).UnmarshalBinary(buf)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestUnmarshalRejectsTruncation(t *testing.T) {
	buf, err := sampleLevel().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	err = (&Level{}).UnmarshalBinary(buf[:len(buf)/2])
	if err == nil || !strings.Contains(err.Error(), "truncated") {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	buf, err := sampleLevel().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	buf = append(buf, 0xde, 0xad)
	err = (&Level{}).UnmarshalBinary(buf)
	if err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("expected trailing-bytes error, got %v", err)
	}
}

func TestUnmarshalLeavesTargetUntouchedOnError(t *testing.T) {
	lev := &Level{LevelName: "keep"}
	if err := lev.UnmarshalBinary([]byte{1, 2}); err == nil {
		t.Fatal("expected error")
	}
	if lev.LevelName != "keep" {
		t.Fatalf("target mutated on error: %+v", lev)
	}
}
