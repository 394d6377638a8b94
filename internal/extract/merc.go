package extract

import (
	"fmt"

	"goal-level-extractor/internal/bsp"
	"goal-level-extractor/internal/level"
	"goal-level-extractor/internal/objfile"
	"goal-level-extractor/internal/texture"
)

// artGroupTypeTag is the type name of a skinned art-group member.
const artGroupTypeTag = "art-group"

// artGroupSuffix marks archive members holding skinned art.
const artGroupSuffix = "-ag"

// extractMerc decodes one art-group member's skinned model into the level.
//
// Art-group layout: the art-group type pointer, a joint count word, then a
// fragment list in the shared drawable fragment format.
func extractMerc(data *objfile.Data, texDB *texture.Database, remap []bsp.TextureRemap, lev *level.Level) error {
	c, err := objfile.NewCursor(&data.LinkedData, 0)
	if err != nil {
		return fmt.Errorf("extract: art group %s: %w", data.Record.Name, err)
	}

	tag := c.TypeTag()
	if err := c.Err(); err != nil {
		return fmt.Errorf("extract: art group %s: %w", data.Record.Name, err)
	}
	if tag != artGroupTypeTag {
		return fmt.Errorf("extract: member %s: expected an %s, got %q", data.Record.Name, artGroupTypeTag, tag)
	}

	model := level.MercModel{
		Name:       data.Record.Name,
		JointCount: c.U32(),
	}
	for _, frag := range bsp.ReadFrags(c) {
		id, err := resolveFragTexture(frag, remap, texDB, data.Record.Name)
		if err != nil {
			return err
		}
		appendFrag(&model.TextureIDs, &model.Vertices, &model.Indices, frag, id)
	}
	if err := c.Err(); err != nil {
		return fmt.Errorf("extract: art group %s: %w", data.Record.Name, err)
	}

	lev.MercModels = append(lev.MercModels, model)
	return nil
}
