package objfile

import (
	"encoding/binary"
	"fmt"
)

// byteReader is a bounds-checked little-endian cursor over a raw member
// dump. Overruns leave the cursor at the end and flip truncated, checked
// once after the full parse.
type byteReader struct {
	data      []byte
	off       int
	truncated bool
}

func (r *byteReader) readU8() byte {
	if r.off >= len(r.data) {
		r.truncated = true
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *byteReader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *byteReader) readU32() uint32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *byteReader) readStr(n int) string {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.truncated = true
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

const (
	memberMagic   = "GOBJ"
	memberVersion = 1
)

// ParseMember decodes one dumped member file into its linked representation.
//
// Layout: "GOBJ", u16 version, u16 segment count; per segment a u32 word
// count followed by the words. Each word is a u8 kind tag, then either a u32
// data value (plain) or a u16 length-prefixed name (type/symbol pointer).
func ParseMember(name string, raw []byte) (*Data, error) {
	r := &byteReader{data: raw}
	if r.readStr(4) != memberMagic {
		return nil, fmt.Errorf("objfile: %s: bad magic", name)
	}
	if v := r.readU16(); v != memberVersion {
		return nil, fmt.Errorf("objfile: %s: unsupported dump version %d", name, v)
	}

	segCount := int(r.readU16())
	segs := make([][]Word, 0, segCount)
	for s := 0; s < segCount; s++ {
		wordCount := int(r.readU32())
		if r.truncated || wordCount < 0 || wordCount > len(raw) {
			return nil, fmt.Errorf("objfile: %s: corrupt segment %d header", name, s)
		}
		words := make([]Word, 0, wordCount)
		for w := 0; w < wordCount; w++ {
			kind := WordKind(r.readU8())
			switch kind {
			case WordPlain:
				words = append(words, Word{Kind: WordPlain, Data: r.readU32()})
			case WordTypePointer, WordSymbol:
				n := int(r.readU16())
				words = append(words, Word{Kind: kind, Symbol: r.readStr(n)})
			default:
				return nil, fmt.Errorf("objfile: %s: unknown word kind %d at segment %d word %d", name, kind, s, w)
			}
		}
		segs = append(segs, words)
	}
	if r.truncated {
		return nil, fmt.Errorf("objfile: %s: truncated member dump", name)
	}

	return &Data{
		Record:     Record{Name: name},
		LinkedData: File{Segments: segCount, WordsBySeg: segs},
	}, nil
}
