package level

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Flat artifact layout, little-endian. The field order is fixed and
// versioned: renderers parse exactly this sequence, so any layout change
// must bump serializeVersion.
const (
	serializeMagic   = 0x4C335246 // "FR3L"
	serializeVersion = 1
)

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}
func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}
func (w *writer) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("level: truncated buffer reading %s at offset %d", what, r.off)
	}
}

func (r *reader) u8(what string) uint8 {
	if r.err != nil || r.off+1 > len(r.data) {
		r.fail(what)
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) u16(what string) uint16 {
	if r.err != nil || r.off+2 > len(r.data) {
		r.fail(what)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32(what string) uint32 {
	if r.err != nil || r.off+4 > len(r.data) {
		r.fail(what)
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) f32(what string) float32 {
	return math.Float32frombits(r.u32(what))
}

func (r *reader) boolean(what string) bool {
	return r.u8(what) != 0
}

func (r *reader) str(what string) string {
	n := int(r.u32(what))
	if r.err != nil || r.off+n > len(r.data) {
		r.fail(what)
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

func (r *reader) bytesField(what string) []byte {
	n := int(r.u32(what))
	if r.err != nil || r.off+n > len(r.data) {
		r.fail(what)
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:])
	r.off += n
	return b
}

func (r *reader) count(what string) int {
	n := int(r.u32(what))
	if r.err == nil && n > len(r.data) {
		r.fail(what)
		return 0
	}
	return n
}

// MarshalBinary flattens the level into its versioned artifact layout.
func (l *Level) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.u32(serializeMagic)
	w.u16(serializeVersion)
	w.str(l.LevelName)

	w.u32(uint32(len(l.Textures)))
	for _, t := range l.Textures {
		w.u32(t.ComboID)
		w.u16(t.W)
		w.u16(t.H)
		w.str(t.DebugTpageName)
		w.str(t.DebugName)
		w.bytes(t.Data)
		w.boolean(t.LoadToPool)
	}

	w.u32(uint32(len(l.TfragTrees)))
	for _, t := range l.TfragTrees {
		w.str(t.Name)
		w.boolean(t.AlphaTestDisabled)
		writeU32s(w, t.TextureIDs)
		writeVertices(w, t.Vertices)
		writeU32s(w, t.Indices)
	}

	w.u32(uint32(len(l.TieTrees)))
	for _, t := range l.TieTrees {
		w.str(t.Name)
		w.u32(uint32(len(t.Instances)))
		for _, inst := range t.Instances {
			w.u32(inst.FragIndex)
			w.f32(inst.X)
			w.f32(inst.Y)
			w.f32(inst.Z)
		}
		writeU32s(w, t.TextureIDs)
		writeVertices(w, t.Vertices)
		writeU32s(w, t.Indices)
	}

	w.u32(uint32(len(l.ShrubTrees)))
	for _, t := range l.ShrubTrees {
		w.str(t.Name)
		writeU32s(w, t.TextureIDs)
		writeVertices(w, t.Vertices)
		writeU32s(w, t.Indices)
	}

	w.str(l.Collision.Name)
	w.u32(uint32(len(l.Collision.Vertices)))
	for _, v := range l.Collision.Vertices {
		w.f32(v.X)
		w.f32(v.Y)
		w.f32(v.Z)
		w.u32(v.Pat)
	}

	w.u32(uint32(len(l.MercModels)))
	for _, m := range l.MercModels {
		w.str(m.Name)
		w.u32(m.JointCount)
		writeU32s(w, m.TextureIDs)
		writeVertices(w, m.Vertices)
		writeU32s(w, m.Indices)
	}

	return w.buf, nil
}

// UnmarshalBinary parses a flattened level. A level unmarshalled from a
// valid buffer re-marshals to byte-identical output.
func (l *Level) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	if magic := r.u32("magic"); r.err == nil && magic != serializeMagic {
		return fmt.Errorf("level: bad magic %#x", magic)
	}
	if version := r.u16("version"); r.err == nil && version != serializeVersion {
		return fmt.Errorf("level: unsupported format version %d", version)
	}

	out := Level{}
	out.LevelName = r.str("level name")

	for i, n := 0, r.count("texture count"); i < n && r.err == nil; i++ {
		t := Texture{}
		t.ComboID = r.u32("texture combo id")
		t.W = r.u16("texture width")
		t.H = r.u16("texture height")
		t.DebugTpageName = r.str("texture tpage name")
		t.DebugName = r.str("texture name")
		t.Data = r.bytesField("texture data")
		t.LoadToPool = r.boolean("texture pool flag")
		out.Textures = append(out.Textures, t)
	}

	for i, n := 0, r.count("tfrag tree count"); i < n && r.err == nil; i++ {
		t := TfragTree{}
		t.Name = r.str("tfrag name")
		t.AlphaTestDisabled = r.boolean("tfrag atest flag")
		t.TextureIDs = readU32s(r, "tfrag texture ids")
		t.Vertices = readVertices(r, "tfrag vertices")
		t.Indices = readU32s(r, "tfrag indices")
		out.TfragTrees = append(out.TfragTrees, t)
	}

	for i, n := 0, r.count("tie tree count"); i < n && r.err == nil; i++ {
		t := TieTree{}
		t.Name = r.str("tie name")
		for j, m := 0, r.count("tie instance count"); j < m && r.err == nil; j++ {
			inst := TieInstance{}
			inst.FragIndex = r.u32("tie instance frag")
			inst.X = r.f32("tie instance x")
			inst.Y = r.f32("tie instance y")
			inst.Z = r.f32("tie instance z")
			t.Instances = append(t.Instances, inst)
		}
		t.TextureIDs = readU32s(r, "tie texture ids")
		t.Vertices = readVertices(r, "tie vertices")
		t.Indices = readU32s(r, "tie indices")
		out.TieTrees = append(out.TieTrees, t)
	}

	for i, n := 0, r.count("shrub tree count"); i < n && r.err == nil; i++ {
		t := ShrubTree{}
		t.Name = r.str("shrub name")
		t.TextureIDs = readU32s(r, "shrub texture ids")
		t.Vertices = readVertices(r, "shrub vertices")
		t.Indices = readU32s(r, "shrub indices")
		out.ShrubTrees = append(out.ShrubTrees, t)
	}

	out.Collision.Name = r.str("collision name")
	for i, n := 0, r.count("collision vertex count"); i < n && r.err == nil; i++ {
		v := CollideVertex{}
		v.X = r.f32("collision x")
		v.Y = r.f32("collision y")
		v.Z = r.f32("collision z")
		v.Pat = r.u32("collision pat")
		out.Collision.Vertices = append(out.Collision.Vertices, v)
	}

	for i, n := 0, r.count("merc model count"); i < n && r.err == nil; i++ {
		m := MercModel{}
		m.Name = r.str("merc name")
		m.JointCount = r.u32("merc joint count")
		m.TextureIDs = readU32s(r, "merc texture ids")
		m.Vertices = readVertices(r, "merc vertices")
		m.Indices = readU32s(r, "merc indices")
		out.MercModels = append(out.MercModels, m)
	}

	if r.err != nil {
		return r.err
	}
	if r.off != len(data) {
		return fmt.Errorf("level: %d trailing bytes after level data", len(data)-r.off)
	}
	*l = out
	return nil
}

func writeU32s(w *writer, vs []uint32) {
	w.u32(uint32(len(vs)))
	for _, v := range vs {
		w.u32(v)
	}
}

func readU32s(r *reader, what string) []uint32 {
	n := r.count(what)
	if n == 0 || r.err != nil {
		return nil
	}
	out := make([]uint32, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.u32(what))
	}
	return out
}

func writeVertices(w *writer, vs []Vertex) {
	w.u32(uint32(len(vs)))
	for _, v := range vs {
		w.f32(v.X)
		w.f32(v.Y)
		w.f32(v.Z)
		w.f32(v.S)
		w.f32(v.T)
	}
}

func readVertices(r *reader, what string) []Vertex {
	n := r.count(what)
	if n == 0 || r.err != nil {
		return nil
	}
	out := make([]Vertex, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		v := Vertex{}
		v.X = r.f32(what)
		v.Y = r.f32(what)
		v.Z = r.f32(what)
		v.S = r.f32(what)
		v.T = r.f32(what)
		out = append(out, v)
	}
	return out
}
