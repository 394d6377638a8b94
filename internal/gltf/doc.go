// Package gltf exports level geometry as minimal glTF 2.0 binary (.glb)
// files for visual inspection. Only positions and triangle indices are
// written; this is a diagnostic path, not part of the persisted artifact.
package gltf

// Document is the glTF JSON root, restricted to the fields this exporter
// emits. Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       int          `json:"scene"`
	Scenes      []Scene      `json:"scenes"`
	Nodes       []Node       `json:"nodes"`
	Meshes      []Mesh       `json:"meshes"`
	Accessors   []Accessor   `json:"accessors"`
	BufferViews []BufferView `json:"bufferViews"`
	Buffers     []Buffer     `json:"buffers"`
}

type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type Scene struct {
	Nodes []int `json:"nodes"`
}

type Node struct {
	Name string `json:"name,omitempty"`
	Mesh *int   `json:"mesh,omitempty"`
}

type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
}

type Accessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type Buffer struct {
	ByteLength int `json:"byteLength"`
}

const (
	componentFloat = 5126
	componentU32   = 5125

	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963
)
