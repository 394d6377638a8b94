package extract

import (
	"fmt"

	"goal-level-extractor/internal/bsp"
	"goal-level-extractor/internal/level"
	"goal-level-extractor/internal/texture"
)

// remapTextureID translates an original texture id through the archive's
// remap table. Ids without a remap entry pass through unchanged.
func remapTextureID(id uint32, remap []bsp.TextureRemap) uint32 {
	for _, entry := range remap {
		if entry.Original == id {
			return entry.Target
		}
	}
	return id
}

// missingExpected reports whether the (page, index) slot is listed as
// intentionally absent for this level.
func missingExpected(expected [][2]int, page, index int) bool {
	for _, pair := range expected {
		if pair[0] == page && pair[1] == index {
			return true
		}
	}
	return false
}

// resolveFragTexture remaps a fragment's texture id and confirms the target
// exists in the database.
func resolveFragTexture(frag bsp.Frag, remap []bsp.TextureRemap, texDB *texture.Database, label string) (uint32, error) {
	id := remapTextureID(frag.TextureID, remap)
	if _, ok := texDB.Textures[id]; !ok {
		return 0, fmt.Errorf("extract: %s references texture %#x (page %d index %d) missing from the database",
			label, id, id>>16, id&0xffff)
	}
	return id, nil
}

// appendFrag folds one fragment's mesh into a section's flat arrays,
// offsetting indices past the vertices already present.
func appendFrag(texIDs *[]uint32, verts *[]level.Vertex, indices *[]uint32, frag bsp.Frag, id uint32) {
	*texIDs = append(*texIDs, id)
	base := uint32(len(*verts))
	for _, v := range frag.Vertices {
		*verts = append(*verts, level.Vertex{X: v.X, Y: v.Y, Z: v.Z, S: v.S, T: v.T})
	}
	for _, idx := range frag.Indices {
		*indices = append(*indices, base+idx)
	}
}

// extractTfrag decodes one terrain-fragment tree into the level. Fragments
// whose texture slot is listed in expectedMissing are dropped; any other
// unresolvable texture reference is fatal.
func extractTfrag(tree *bsp.TfragTree, label string, remap []bsp.TextureRemap, texDB *texture.Database,
	expectedMissing [][2]int, lev *level.Level, atestDisable bool) error {
	out := level.TfragTree{Name: label, AlphaTestDisabled: atestDisable}
	for _, frag := range tree.Frags {
		id := remapTextureID(frag.TextureID, remap)
		if _, ok := texDB.Textures[id]; !ok {
			page, index := int(id>>16), int(id&0xffff)
			if missingExpected(expectedMissing, page, index) {
				continue
			}
			return fmt.Errorf("extract: %s references texture %#x (page %d index %d) missing from the database",
				label, id, page, index)
		}
		appendFrag(&out.TextureIDs, &out.Vertices, &out.Indices, frag, id)
	}
	lev.TfragTrees = append(lev.TfragTrees, out)
	return nil
}

// extractTie decodes one instanced-static-mesh tree into the level.
func extractTie(tree *bsp.InstanceTieTree, label string, remap []bsp.TextureRemap, texDB *texture.Database, lev *level.Level) error {
	out := level.TieTree{Name: label}
	for _, inst := range tree.Instances {
		if int(inst.FragIndex) >= len(tree.Frags) {
			return fmt.Errorf("extract: %s instance references fragment %d of %d", label, inst.FragIndex, len(tree.Frags))
		}
		out.Instances = append(out.Instances, level.TieInstance{
			FragIndex: inst.FragIndex, X: inst.X, Y: inst.Y, Z: inst.Z,
		})
	}
	for _, frag := range tree.Frags {
		id, err := resolveFragTexture(frag, remap, texDB, label)
		if err != nil {
			return err
		}
		appendFrag(&out.TextureIDs, &out.Vertices, &out.Indices, frag, id)
	}
	lev.TieTrees = append(lev.TieTrees, out)
	return nil
}

// extractShrub decodes one instanced-foliage tree into the level.
func extractShrub(tree *bsp.InstanceShrubTree, label string, remap []bsp.TextureRemap, texDB *texture.Database, lev *level.Level) error {
	out := level.ShrubTree{Name: label}
	for _, frag := range tree.Frags {
		id, err := resolveFragTexture(frag, remap, texDB, label)
		if err != nil {
			return err
		}
		appendFrag(&out.TextureIDs, &out.Vertices, &out.Indices, frag, id)
	}
	lev.ShrubTrees = append(lev.ShrubTrees, out)
	return nil
}

// extractCollideFrags decodes the collision tree into the level. Collision
// geometry also covers instanced static meshes, so every tie instance's
// fragment is baked in at its placement with a zero pattern word.
func extractCollideFrags(tree *bsp.CollideFragmentTree, allTies []*bsp.InstanceTieTree, label string, lev *level.Level) error {
	out := level.Collision{Name: label}
	for _, face := range tree.Faces {
		for _, v := range face.Verts {
			out.Vertices = append(out.Vertices, level.CollideVertex{
				X: v[0], Y: v[1], Z: v[2], Pat: face.Pat,
			})
		}
	}
	for _, tie := range allTies {
		for _, inst := range tie.Instances {
			if int(inst.FragIndex) >= len(tie.Frags) {
				return fmt.Errorf("extract: %s tie instance references fragment %d of %d", label, inst.FragIndex, len(tie.Frags))
			}
			frag := tie.Frags[inst.FragIndex]
			for _, idx := range frag.Indices {
				if int(idx) >= len(frag.Vertices) {
					return fmt.Errorf("extract: %s tie fragment index %d out of range", label, idx)
				}
				v := frag.Vertices[idx]
				out.Vertices = append(out.Vertices, level.CollideVertex{
					X: v.X + inst.X, Y: v.Y + inst.Y, Z: v.Z + inst.Z,
				})
			}
		}
	}
	lev.Collision = out
	return nil
}
