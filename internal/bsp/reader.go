package bsp

import (
	"fmt"

	"goal-level-extractor/internal/objfile"
)

// ReadHeader parses a scene-graph root from a validated member's single
// segment.
//
// Word layout after the leading bsp-header type pointer:
//
//	remap count, then (original, target) pairs
//	two packed words holding the four u16 texture flags
//	stated tree count, then the trees until the segment ends
//
// Each tree starts with its type-pointer tag. Recognized payloads:
//
//	tfrag/shrub:  frag count, frags
//	tie:          instance count, instances (frag, x, y, z), frag count, frags
//	collide:      face count, faces (9 floats, pat word)
//	anything else: payload word count, payload (skipped)
//
// A frag is: texture id, vertex count, vertices (x y z s t), index count,
// indices. The stated tree count must match the number of trees actually
// present; a mismatch is a hard error.
func ReadHeader(f *objfile.File) (*Header, error) {
	c, err := objfile.NewCursor(f, 0)
	if err != nil {
		return nil, err
	}

	if tag := c.TypeTag(); c.Err() == nil && tag != RootTypeTag {
		return nil, fmt.Errorf("bsp: expected %s type tag, got %q", RootTypeTag, tag)
	}

	hdr := &Header{}
	remapCount := int(c.U32())
	for i := 0; i < remapCount && c.Err() == nil; i++ {
		hdr.TextureRemapTable = append(hdr.TextureRemapTable, TextureRemap{
			Original: c.U32(),
			Target:   c.U32(),
		})
	}

	lo := c.U32()
	hi := c.U32()
	hdr.TextureFlags = [4]uint16{
		uint16(lo), uint16(lo >> 16),
		uint16(hi), uint16(hi >> 16),
	}

	statedCount := int(c.U32())
	for c.Err() == nil && c.Remaining() > 0 {
		tree, err := readTree(c)
		if err != nil {
			return nil, err
		}
		hdr.Trees = append(hdr.Trees, tree)
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("bsp: malformed header: %w", err)
	}
	if len(hdr.Trees) != statedCount {
		return nil, fmt.Errorf("bsp: stated tree count %d but found %d trees", statedCount, len(hdr.Trees))
	}
	return hdr, nil
}

func readTree(c *objfile.Cursor) (Tree, error) {
	tag := c.TypeTag()
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("bsp: reading tree tag: %w", err)
	}

	switch {
	case IsTfragTag(tag):
		return &TfragTree{Kind: tag, Frags: ReadFrags(c)}, nil
	case tag == TagInstanceTie:
		tree := &InstanceTieTree{}
		instCount := int(c.U32())
		for i := 0; i < instCount && c.Err() == nil; i++ {
			tree.Instances = append(tree.Instances, TieInstance{
				FragIndex: c.U32(),
				X:         c.F32(),
				Y:         c.F32(),
				Z:         c.F32(),
			})
		}
		tree.Frags = ReadFrags(c)
		return tree, nil
	case tag == TagInstanceShrub:
		return &InstanceShrubTree{Frags: ReadFrags(c)}, nil
	case tag == TagCollideFragment:
		tree := &CollideFragmentTree{}
		faceCount := int(c.U32())
		for i := 0; i < faceCount && c.Err() == nil; i++ {
			face := CollideFace{}
			for v := 0; v < 3; v++ {
				face.Verts[v] = [3]float32{c.F32(), c.F32(), c.F32()}
			}
			face.Pat = c.U32()
			tree.Faces = append(tree.Faces, face)
		}
		return tree, nil
	default:
		// Unrecognized kind: the payload is length-prefixed so it can be
		// skipped without understanding it.
		c.Skip(int(c.U32()))
		return &UnknownTree{RawTag: tag}, nil
	}
}

// ReadFrags parses a length-prefixed fragment list. Art-group members share
// this layout with drawable trees, so the merc decoder uses it too.
func ReadFrags(c *objfile.Cursor) []Frag {
	var frags []Frag
	fragCount := int(c.U32())
	for i := 0; i < fragCount && c.Err() == nil; i++ {
		frag := Frag{TextureID: c.U32()}
		vertCount := int(c.U32())
		for v := 0; v < vertCount && c.Err() == nil; v++ {
			frag.Vertices = append(frag.Vertices, Vertex{
				X: c.F32(), Y: c.F32(), Z: c.F32(),
				S: c.F32(), T: c.F32(),
			})
		}
		idxCount := int(c.U32())
		for x := 0; x < idxCount && c.Err() == nil; x++ {
			frag.Indices = append(frag.Indices, c.U32())
		}
		frags = append(frags, frag)
	}
	return frags
}
