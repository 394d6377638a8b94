package level

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const vertexBytes = 20 // 5 float32 fields

type sectionUsage struct {
	name  string
	bytes int
}

// MemoryUsageTable renders a per-section byte usage table for the level,
// largest section first, with each section's share of the total buffer.
func MemoryUsageTable(l *Level, totalBytes int) string {
	sections := []sectionUsage{
		{"textures", textureBytes(l)},
		{"tfrag", tfragBytes(l)},
		{"tie", tieBytes(l)},
		{"shrub", shrubBytes(l)},
		{"collision", len(l.Collision.Vertices) * 16},
		{"merc", mercBytes(l)},
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].bytes > sections[j].bytes
	})

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"section", "bytes", "share"})
	for _, s := range sections {
		share := 0.0
		if totalBytes > 0 {
			share = 100 * float64(s.bytes) / float64(totalBytes)
		}
		tw.AppendRow(table.Row{s.name, s.bytes, fmt.Sprintf("%.1f%%", share)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}

func textureBytes(l *Level) int {
	n := 0
	for _, t := range l.Textures {
		n += len(t.Data) + len(t.DebugName) + len(t.DebugTpageName)
	}
	return n
}

func tfragBytes(l *Level) int {
	n := 0
	for _, t := range l.TfragTrees {
		n += len(t.Vertices)*vertexBytes + len(t.Indices)*4 + len(t.TextureIDs)*4
	}
	return n
}

func tieBytes(l *Level) int {
	n := 0
	for _, t := range l.TieTrees {
		n += len(t.Instances)*16 + len(t.Vertices)*vertexBytes + len(t.Indices)*4 + len(t.TextureIDs)*4
	}
	return n
}

func shrubBytes(l *Level) int {
	n := 0
	for _, t := range l.ShrubTrees {
		n += len(t.Vertices)*vertexBytes + len(t.Indices)*4 + len(t.TextureIDs)*4
	}
	return n
}

func mercBytes(l *Level) int {
	n := 0
	for _, m := range l.MercModels {
		n += len(m.Vertices)*vertexBytes + len(m.Indices)*4 + len(m.TextureIDs)*4
	}
	return n
}
