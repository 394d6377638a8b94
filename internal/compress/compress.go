// Package compress wraps the zstd codec used for level artifacts.
package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses data into a zstd frame.
func Zstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("compress: create encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Unzstd decompresses a zstd frame.
func Unzstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("compress: create decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("compress: decode: %w", err)
	}
	return out, nil
}
