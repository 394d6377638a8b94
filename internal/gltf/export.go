package gltf

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"goal-level-extractor/internal/level"
)

// namedMesh is one exported mesh: positions plus triangle indices.
type namedMesh struct {
	name     string
	vertices []level.Vertex
	indices  []uint32
}

// SaveLevelForeground writes the foreground subsets (tie and merc geometry)
// of the level to path as a .glb file.
func SaveLevelForeground(lev *level.Level, path string) error {
	var meshes []namedMesh
	for _, t := range lev.TieTrees {
		meshes = append(meshes, namedMesh{t.Name, t.Vertices, t.Indices})
	}
	for _, m := range lev.MercModels {
		meshes = append(meshes, namedMesh{m.Name, m.Vertices, m.Indices})
	}
	return save(meshes, path)
}

// SaveLevelBackground writes the background subsets (tfrag and shrub
// geometry) of the level to path as a .glb file.
func SaveLevelBackground(lev *level.Level, path string) error {
	var meshes []namedMesh
	for _, t := range lev.TfragTrees {
		meshes = append(meshes, namedMesh{t.Name, t.Vertices, t.Indices})
	}
	for _, t := range lev.ShrubTrees {
		meshes = append(meshes, namedMesh{t.Name, t.Vertices, t.Indices})
	}
	return save(meshes, path)
}

func save(meshes []namedMesh, path string) error {
	doc := Document{
		Asset:  Asset{Version: "2.0", Generator: "goal-level-extractor"},
		Scene:  0,
		Scenes: []Scene{{}},
	}

	var bin []byte
	for _, m := range meshes {
		if len(m.vertices) == 0 {
			continue
		}

		posOffset := len(bin)
		minV := []float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
		maxV := []float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
		for _, v := range m.vertices {
			for c, f := range [3]float32{v.X, v.Y, v.Z} {
				bin = binary.LittleEndian.AppendUint32(bin, math.Float32bits(f))
				if f < minV[c] {
					minV[c] = f
				}
				if f > maxV[c] {
					maxV[c] = f
				}
			}
		}
		doc.BufferViews = append(doc.BufferViews, BufferView{
			ByteOffset: posOffset,
			ByteLength: len(bin) - posOffset,
			Target:     targetArrayBuffer,
		})
		posAccessor := len(doc.Accessors)
		doc.Accessors = append(doc.Accessors, Accessor{
			BufferView:    len(doc.BufferViews) - 1,
			ComponentType: componentFloat,
			Count:         len(m.vertices),
			Type:          "VEC3",
			Min:           minV,
			Max:           maxV,
		})

		idxOffset := len(bin)
		for _, idx := range m.indices {
			bin = binary.LittleEndian.AppendUint32(bin, idx)
		}
		doc.BufferViews = append(doc.BufferViews, BufferView{
			ByteOffset: idxOffset,
			ByteLength: len(bin) - idxOffset,
			Target:     targetElementArrayBuffer,
		})
		idxAccessor := len(doc.Accessors)
		doc.Accessors = append(doc.Accessors, Accessor{
			BufferView:    len(doc.BufferViews) - 1,
			ComponentType: componentU32,
			Count:         len(m.indices),
			Type:          "SCALAR",
		})

		meshIdx := len(doc.Meshes)
		doc.Meshes = append(doc.Meshes, Mesh{
			Name: m.name,
			Primitives: []Primitive{{
				Attributes: map[string]int{"POSITION": posAccessor},
				Indices:    &idxAccessor,
			}},
		})
		doc.Nodes = append(doc.Nodes, Node{Name: m.name, Mesh: &meshIdx})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	doc.Buffers = []Buffer{{ByteLength: len(bin)}}

	glb, err := encodeGLB(doc, bin)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, glb, 0644); err != nil {
		return fmt.Errorf("gltf: write %s: %w", path, err)
	}
	return nil
}

// encodeGLB packs the JSON document and binary payload into the glTF binary
// container: a 12-byte header followed by a JSON chunk (space padded) and a
// BIN chunk (zero padded), both aligned to 4 bytes.
func encodeGLB(doc Document, bin []byte) ([]byte, error) {
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf: marshal document: %w", err)
	}
	for len(jsonBytes)%4 != 0 {
		jsonBytes = append(jsonBytes, ' ')
	}
	binPadded := bin
	for len(binPadded)%4 != 0 {
		binPadded = append(binPadded, 0)
	}

	total := 12 + 8 + len(jsonBytes) + 8 + len(binPadded)
	out := make([]byte, 0, total)
	out = binary.LittleEndian.AppendUint32(out, 0x46546C67) // "glTF"
	out = binary.LittleEndian.AppendUint32(out, 2)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(jsonBytes)))
	out = binary.LittleEndian.AppendUint32(out, 0x4E4F534A) // "JSON"
	out = append(out, jsonBytes...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(binPadded)))
	out = binary.LittleEndian.AppendUint32(out, 0x004E4942) // "BIN"
	out = append(out, binPadded...)
	return out, nil
}
