// Package bsp holds the typed scene-graph root ("bsp-header") of a level:
// the ordered drawable-tree array, the texture remap table, and the
// per-archive texture flag words. Trees are a tagged variant set; tags the
// pipeline does not recognize survive as UnknownTree so that new geometry
// kinds degrade to a logged skip instead of a failure.
package bsp

// RootTypeTag is the type name a valid scene-graph root must carry in its
// first word.
const RootTypeTag = "bsp-header"

// Recognized drawable-tree type tags.
const (
	TagInstanceTie     = "drawable-tree-instance-tie"
	TagInstanceShrub   = "drawable-tree-instance-shrub"
	TagCollideFragment = "drawable-tree-collide-fragment"
)

// tfragTags lists every terrain-fragment tree spelling. The passes differ
// (opaque, trans, dirt, water, ice, lowres) but all route to the same
// decoder.
var tfragTags = map[string]bool{
	"drawable-tree-tfrag":              true,
	"drawable-tree-trans-tfrag":        true,
	"drawable-tree-tfrag-trans":        true,
	"drawable-tree-dirt-tfrag":         true,
	"drawable-tree-tfrag-water":        true,
	"drawable-tree-ice-tfrag":          true,
	"drawable-tree-lowres-tfrag":       true,
	"drawable-tree-lowres-trans-tfrag": true,
}

// IsTfragTag reports whether tag is one of the terrain-fragment spellings.
func IsTfragTag(tag string) bool { return tfragTags[tag] }

// TextureRemap translates an original texture id to its deduplicated
// database id.
type TextureRemap struct {
	Original uint32
	Target   uint32
}

// Vertex is the raw vertex payload carried by tree fragments.
type Vertex struct {
	X, Y, Z float32
	S, T    float32
}

// Frag is one geometry fragment: a texture reference plus an indexed mesh.
type Frag struct {
	TextureID uint32
	Vertices  []Vertex
	Indices   []uint32
}

// Tree is one polymorphic node of the drawable-tree array.
type Tree interface {
	Tag() string
}

// TfragTree is a terrain-fragment tree. Kind preserves which of the eight
// tfrag spellings this tree carried.
type TfragTree struct {
	Kind  string
	Frags []Frag
}

func (t *TfragTree) Tag() string { return t.Kind }

// TieInstance places one fragment of an instanced-static-mesh tree.
type TieInstance struct {
	FragIndex uint32
	X, Y, Z   float32
}

// InstanceTieTree is an instanced-static-mesh tree.
type InstanceTieTree struct {
	Instances []TieInstance
	Frags     []Frag
}

func (t *InstanceTieTree) Tag() string { return TagInstanceTie }

// InstanceShrubTree is an instanced-foliage tree.
type InstanceShrubTree struct {
	Frags []Frag
}

func (t *InstanceShrubTree) Tag() string { return TagInstanceShrub }

// CollideFace is one collision triangle with its surface pattern word.
type CollideFace struct {
	Verts [3][3]float32
	Pat   uint32
}

// CollideFragmentTree is the level's collision tree. At most one may exist
// per scene graph.
type CollideFragmentTree struct {
	Faces []CollideFace
}

func (t *CollideFragmentTree) Tag() string { return TagCollideFragment }

// UnknownTree carries the raw tag of a structurally valid but unrecognized
// tree so callers can log and skip it.
type UnknownTree struct {
	RawTag string
}

func (t *UnknownTree) Tag() string { return t.RawTag }

// Header is the parsed scene-graph root. It is owned exclusively by the
// extraction call that parsed it.
type Header struct {
	TextureRemapTable []TextureRemap
	TextureFlags      [4]uint16
	Trees             []Tree
}
