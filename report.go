package atlasbuilder

import (
	"fmt"
	"io"
	"strings"
)

// PrintReport writes the human-readable build summary: counts,
// dimensions, the full mapping table, warnings, and the copy-paste
// constant suggestions for wiring the atlas into the engine source.
// Purely informational; nothing parses this output.
func PrintReport(w io.Writer, r *Result, set BlockSet, full bool) {
	rule := strings.Repeat("=", 70)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ATLAS BUILT SUCCESSFULLY!")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Atlas dimensions: %dx%dpx\n", r.Grid.Cols*r.TileW, r.Grid.Rows*r.TileH)
	fmt.Fprintf(w, "Grid size: %dx%d\n", r.Grid.Cols, r.Grid.Rows)
	fmt.Fprintf(w, "Total textures: %d\n", r.Mapping.Len())
	fmt.Fprintf(w, "Texture size: %dx%dpx\n", r.TileW, r.TileH)
	fmt.Fprintf(w, "Tile luminance: mean %.3f, stddev %.3f\n", r.Stats.Mean, r.Stats.StdDev)

	if outliers := LuminanceOutliers(r.Colors, r.Stats); len(outliers) > 0 {
		fmt.Fprintln(w, "\nTiles with unusual brightness (check for placeholders/blanks):")
		for _, name := range outliers {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\n%d warning(s):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}

	if full {
		fmt.Fprintln(w, "\n"+rule)
		fmt.Fprintln(w, "TEXTURE INDICES FOR CURRENT BLOCKS:")
		fmt.Fprintln(w, rule)
		for _, entry := range set {
			if i, ok := r.Mapping.Index(entry.Name); ok {
				fmt.Fprintf(w, "%-20s = %4d  // %s\n", entry.ConstantName(), i, entry.Name)
			} else {
				fmt.Fprintf(w, "%-20s = NOT FOUND // %s\n", entry.ConstantName(), entry.Name)
			}
		}
	} else {
		fmt.Fprintln(w, "\nTexture indices:")
		for i, name := range r.Mapping.Names() {
			fmt.Fprintf(w, "  %d: %s\n", i, name)
		}
	}

	printNextSteps(w, r, set, full)

	if full {
		names := r.Mapping.Names()
		fmt.Fprintln(w, "\n"+rule)
		fmt.Fprintln(w, "FIRST 20 TEXTURES (for quick reference):")
		fmt.Fprintln(w, rule)
		for i, name := range names[:min(20, len(names))] {
			fmt.Fprintf(w, "  [%3d] %s\n", i, name)
		}
	}
}

func printNextSteps(w io.Writer, r *Result, set BlockSet, full bool) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "NEXT STEPS:")
	fmt.Fprintln(w, rule)
	step := 1
	if full {
		fmt.Fprintf(w, "%d. Open %s to see texture IDs\n", step, r.ReferencePath)
		step++
	}
	fmt.Fprintf(w, "%d. Copy %s to Unity: Assets/Textures/\n", step, r.AtlasPath)
	step++
	fmt.Fprintf(w, "%d. Set Filter Mode to 'Point (no filter)'\n", step)
	step++
	if full {
		fmt.Fprintf(w, "%d. Update VoxelData.cs:\n", step)
		fmt.Fprintf(w, "   public const int AtlasWidth = %d;\n", r.Grid.Cols)
		fmt.Fprintf(w, "   public const int AtlasHeight = %d;\n", r.Grid.Rows)
		step++
		fmt.Fprintf(w, "%d. Update BlockTextureData.cs with the indices shown above\n", step)
		return
	}
	fmt.Fprintf(w, "%d. Update VoxelData.cs: TextureAtlasSizeInBlocks = %d\n", step, r.Grid.Cols)
	step++
	fmt.Fprintf(w, "%d. Update BlockTextureData.cs with these indices:\n", step)
	for _, line := range ConstantSuggestions(set, r.Mapping) {
		fmt.Fprintf(w, "   %s\n", line)
	}
}

// ConstantSuggestions returns the selective build's copy-paste block,
// one `public const int` line per set entry in atlas order.
func ConstantSuggestions(set BlockSet, m *Mapping) []string {
	out := make([]string, 0, len(set))
	for _, entry := range set {
		i, ok := m.Index(entry.Name)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("public const int %s = %d;", entry.ConstantName(), i))
	}
	return out
}
