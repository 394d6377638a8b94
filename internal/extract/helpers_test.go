package extract

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"goal-level-extractor/internal/objfile"
)

// Word builders for constructing scene-graph roots in tests.

func plain(v uint32) objfile.Word {
	return objfile.Word{Kind: objfile.WordPlain, Data: v}
}

func typePtr(name string) objfile.Word {
	return objfile.Word{Kind: objfile.WordTypePointer, Symbol: name}
}

func floatWord(f float32) objfile.Word {
	return plain(math.Float32bits(f))
}

// fragWords encodes one fragment: a unit triangle bound to texID.
func fragWords(texID uint32) []objfile.Word {
	words := []objfile.Word{plain(texID), plain(3)}
	for i := 0; i < 3; i++ {
		x := float32(i)
		words = append(words, floatWord(x), floatWord(0), floatWord(0), floatWord(0), floatWord(0))
	}
	words = append(words, plain(3), plain(0), plain(1), plain(2))
	return words
}

// rootWords encodes a complete bsp-header segment holding the given trees.
func rootWords(remap [][2]uint32, flags0 uint16, trees ...[]objfile.Word) []objfile.Word {
	words := []objfile.Word{typePtr("bsp-header"), plain(uint32(len(remap)))}
	for _, p := range remap {
		words = append(words, plain(p[0]), plain(p[1]))
	}
	words = append(words, plain(uint32(flags0)), plain(0), plain(uint32(len(trees))))
	for _, tree := range trees {
		words = append(words, tree...)
	}
	return words
}

func tfragTreeWords(tag string, texIDs ...uint32) []objfile.Word {
	words := []objfile.Word{typePtr(tag), plain(uint32(len(texIDs)))}
	for _, id := range texIDs {
		words = append(words, fragWords(id)...)
	}
	return words
}

func tieTreeWords(instances [][3]float32, texIDs ...uint32) []objfile.Word {
	words := []objfile.Word{typePtr("drawable-tree-instance-tie"), plain(uint32(len(instances)))}
	for _, pos := range instances {
		words = append(words, plain(0), floatWord(pos[0]), floatWord(pos[1]), floatWord(pos[2]))
	}
	words = append(words, plain(uint32(len(texIDs))))
	for _, id := range texIDs {
		words = append(words, fragWords(id)...)
	}
	return words
}

func shrubTreeWords(texIDs ...uint32) []objfile.Word {
	words := []objfile.Word{typePtr("drawable-tree-instance-shrub"), plain(uint32(len(texIDs)))}
	for _, id := range texIDs {
		words = append(words, fragWords(id)...)
	}
	return words
}

func collideTreeWords(faces int) []objfile.Word {
	words := []objfile.Word{typePtr("drawable-tree-collide-fragment"), plain(uint32(faces))}
	for i := 0; i < faces; i++ {
		for v := 0; v < 9; v++ {
			words = append(words, floatWord(float32(v)))
		}
		words = append(words, plain(7))
	}
	return words
}

func unknownTreeWords(tag string, payload int) []objfile.Word {
	words := []objfile.Word{typePtr(tag), plain(uint32(payload))}
	for i := 0; i < payload; i++ {
		words = append(words, plain(0))
	}
	return words
}

func rootFile(words []objfile.Word) *objfile.File {
	return &objfile.File{Segments: 1, WordsBySeg: [][]objfile.Word{words}}
}

func memberData(name string, words []objfile.Word) *objfile.Data {
	return &objfile.Data{
		Record:     objfile.Record{Name: name},
		LinkedData: *rootFile(words),
	}
}

// captureHandler records every log line so tests can count warnings.
type captureHandler struct {
	mu      sync.Mutex
	entries []capturedEntry
}

type capturedEntry struct {
	level   slog.Level
	message string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, rec slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, capturedEntry{level: rec.Level, message: rec.Message})
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count(level slog.Level, substr string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.entries {
		if e.level == level && strings.Contains(e.message, substr) {
			n++
		}
	}
	return n
}

func captureLogs(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return h
}
