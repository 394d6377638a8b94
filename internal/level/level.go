// Package level defines the aggregated output of one archive's extraction
// and its flat serialized form. A Level is owned by exactly one extraction
// run: the texture aggregator and each geometry decoder append into it in
// sequence, and it never outlives the run that built it.
package level

// Texture is a denormalized, renderer-ready copy of a database texture
// plus provenance strings for debugging.
type Texture struct {
	ComboID        uint32
	W, H           uint16
	DebugTpageName string
	DebugName      string
	Data           []byte
	LoadToPool     bool
}

// Vertex is the preloaded vertex format shared by the background and
// foreground geometry sections: position plus texture coordinates.
type Vertex struct {
	X, Y, Z float32
	S, T    float32
}

// TfragTree is one decoded terrain-fragment tree.
type TfragTree struct {
	Name              string
	AlphaTestDisabled bool
	TextureIDs        []uint32
	Vertices          []Vertex
	Indices           []uint32
}

// TieInstance places one instanced static mesh fragment in the world.
type TieInstance struct {
	FragIndex uint32
	X, Y, Z   float32
}

// TieTree is one decoded instanced-static-mesh tree.
type TieTree struct {
	Name       string
	Instances  []TieInstance
	TextureIDs []uint32
	Vertices   []Vertex
	Indices    []uint32
}

// ShrubTree is one decoded instanced-foliage tree.
type ShrubTree struct {
	Name       string
	TextureIDs []uint32
	Vertices   []Vertex
	Indices    []uint32
}

// CollideVertex is one collision mesh vertex with its surface pattern word.
type CollideVertex struct {
	X, Y, Z float32
	Pat     uint32
}

// Collision holds the level's collision mesh. At most one collide-fragment
// tree exists per level, so this is a single section, not a list.
type Collision struct {
	Name     string
	Vertices []CollideVertex
}

// MercModel is one decoded skinned art-group model.
type MercModel struct {
	Name       string
	JointCount uint32
	TextureIDs []uint32
	Vertices   []Vertex
	Indices    []uint32
}

// Level is the aggregation target for one archive.
type Level struct {
	LevelName  string
	Textures   []Texture
	TfragTrees []TfragTree
	TieTrees   []TieTree
	ShrubTrees []ShrubTree
	Collision  Collision
	MercModels []MercModel
}
