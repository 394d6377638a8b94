package compress

import (
	"bytes"
	"testing"
)

func TestZstdRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("level geometry "), 1024)
	compressed, err := Zstd(payload)
	if err != nil {
		t.Fatalf("Zstd: %v", err)
	}
	if len(compressed) >= len(payload) {
		t.Fatalf("repetitive payload did not shrink: %d -> %d", len(payload), len(compressed))
	}

	out, err := Unzstd(compressed)
	if err != nil {
		t.Fatalf("Unzstd: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatal("round trip corrupted the payload")
	}
}

func TestZstdEmpty(t *testing.T) {
	compressed, err := Zstd(nil)
	if err != nil {
		t.Fatalf("Zstd: %v", err)
	}
	out, err := Unzstd(compressed)
	if err != nil {
		t.Fatalf("Unzstd: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d bytes, want 0", len(out))
	}
}

func TestUnzstdRejectsGarbage(t *testing.T) {
	if _, err := Unzstd([]byte("not a zstd frame")); err == nil {
		t.Fatal("expected decode error")
	}
}
