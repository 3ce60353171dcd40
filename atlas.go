// Package atlasbuilder assembles individual block textures into a
// single atlas image for a voxel engine, together with a JSON
// name→index mapping, per-tile color data, and an annotated reference
// grid for manual index lookup.
package atlasbuilder

import (
	"image"
	"image/draw"
	"log"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/blockforge/atlasbuilder/utils"
)

// BuildOptions configures one atlas build.
type BuildOptions struct {
	// TexturesDir is the directory holding <name>.png block textures.
	TexturesDir string
	// OutBase is the base path of all output files, e.g. "VoxelBlockAtlas"
	// produces VoxelBlockAtlas.png, VoxelBlockAtlas_Mapping.json, ...
	OutBase string
	// Blocks is the curated set for the selective build. Nil means
	// DefaultBlockSet.
	Blocks BlockSet
	// FontPath is the TrueType font for reference-image labels; a
	// builtin face is used when it cannot be loaded.
	FontPath string
	// PaletteSize is the number of colors in the extracted atlas
	// palette.
	PaletteSize int
	// PaletteMethod selects the palette extraction method.
	PaletteMethod PaletteMethod
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.OutBase == "" {
		o.OutBase = "VoxelBlockAtlas"
	}
	if o.Blocks == nil {
		o.Blocks = DefaultBlockSet()
	}
	if o.FontPath == "" {
		o.FontPath = "arial.ttf"
	}
	if o.PaletteSize <= 0 {
		o.PaletteSize = 8
	}
	return o
}

// Result collects everything one build produced.
type Result struct {
	AtlasPath     string
	ReferencePath string
	MappingPath   string
	ColorsPath    string
	PalettePath   string

	Grid         Grid
	TileW, TileH int
	Mapping      *Mapping
	Colors       []TileColor
	Palette      []colorful.Color
	Stats        LuminanceStats
	Warnings     []string
}

// BuildSelective packs the curated block set into a single-row atlas.
// Missing textures degrade to placeholders; only a missing directory
// aborts, and it does so before any output file is written.
func BuildSelective(opts BuildOptions) (*Result, error) {
	opts = opts.withDefaults()

	textures, warnings, err := LoadBlockSet(opts.TexturesDir, opts.Blocks)
	if err != nil {
		return nil, err
	}
	grid := SingleRow(len(textures))
	atlas, mapping, err := Compose(textures, grid)
	if err != nil {
		return nil, err
	}
	return persist(opts, textures, grid, atlas, nil, mapping, warnings)
}

// BuildFull packs every texture in the directory into a near-square
// atlas and additionally writes an index-annotated reference image.
// Unreadable textures degrade to warnings; a missing directory or zero
// loadable textures aborts before any output file is written.
func BuildFull(opts BuildOptions) (*Result, error) {
	opts = opts.withDefaults()

	textures, warnings, err := ScanDir(opts.TexturesDir)
	if err != nil {
		return nil, err
	}
	grid := SquareGrid(len(textures))
	atlas, mapping, err := Compose(textures, grid)
	if err != nil {
		return nil, err
	}

	labeler, warn := NewLabeler(opts.FontPath)
	if warn != "" {
		warnings = append(warnings, warn)
		log.Printf("WARNING: %s", warn)
	}
	reference, err := ComposeReference(textures, grid, labeler)
	if err != nil {
		return nil, err
	}
	return persist(opts, textures, grid, atlas, reference, mapping, warnings)
}

// Compose copies every texture into its grid cell of a fresh,
// fully-transparent canvas and records the name→index mapping. Source
// alpha is meaningful, so tiles are copied with draw.Src rather than
// blended. All textures must share one tile size.
func Compose(textures []Texture, grid Grid) (*image.NRGBA, *Mapping, error) {
	w, h, err := tileSize(textures)
	if err != nil {
		return nil, nil, err
	}
	size := grid.CanvasSize(w, h)
	canvas := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))

	mapping := NewMapping()
	for i, t := range textures {
		cell := grid.CellRect(i, w, h)
		draw.Draw(canvas, cell, t.Image, t.Image.Bounds().Min, draw.Src)
		mapping.Add(t.Name)
	}
	return canvas, mapping, nil
}

// ComposeReference renders the same tile placement as Compose with a
// per-cell index label overlaid, for eyeballing index assignment.
func ComposeReference(textures []Texture, grid Grid, labeler *Labeler) (*image.NRGBA, error) {
	w, h, err := tileSize(textures)
	if err != nil {
		return nil, err
	}
	size := grid.CanvasSize(w, h)
	canvas := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))

	for i, t := range textures {
		cell := grid.CellRect(i, w, h)
		draw.Draw(canvas, cell, t.Image, t.Image.Bounds().Min, draw.Src)
		labeler.Annotate(canvas, cell, i)
	}
	return canvas, nil
}

// tileSize verifies every texture shares one size and returns it. The
// original scripts silently assumed uniformity and would mis-tile on
// mixed inputs; failing fast with the offender's name is the explicit
// policy here.
func tileSize(textures []Texture) (int, int, error) {
	if len(textures) == 0 {
		return 0, 0, errors.New("no textures to compose")
	}
	w := textures[0].Image.Bounds().Dx()
	h := textures[0].Image.Bounds().Dy()
	for _, t := range textures[1:] {
		b := t.Image.Bounds()
		if b.Dx() != w || b.Dy() != h {
			return 0, 0, errors.Errorf(
				"texture %s is %dx%d, expected %dx%d like %s",
				t.Name, b.Dx(), b.Dy(), w, h, textures[0].Name)
		}
	}
	return w, h, nil
}

// persist runs the shared analysis and output stage: tile colors,
// atlas palette, then all files. Computation happens before the first
// write so fatal errors never leave partial outputs behind.
func persist(opts BuildOptions, textures []Texture, grid Grid, atlas, reference *image.NRGBA, mapping *Mapping, warnings []string) (*Result, error) {
	w, h, err := tileSize(textures)
	if err != nil {
		return nil, err
	}
	colors := TileColors(textures)
	stats := ComputeLuminanceStats(colors)
	palette := ExtractPalette(atlas, opts.PaletteSize, opts.PaletteMethod)

	r := &Result{
		AtlasPath:   opts.OutBase + ".png",
		MappingPath: opts.OutBase + "_Mapping.json",
		ColorsPath:  opts.OutBase + "_Colors.json",
		PalettePath: opts.OutBase + "_Palette.png",
		Grid:        grid,
		TileW:       w,
		TileH:       h,
		Mapping:     mapping,
		Colors:      colors,
		Palette:     palette,
		Stats:       stats,
		Warnings:    warnings,
	}

	if err := utils.SaveImage(atlas, r.AtlasPath); err != nil {
		return nil, err
	}
	log.Printf("atlas saved: %s", r.AtlasPath)

	if reference != nil {
		r.ReferencePath = opts.OutBase + "_Reference.png"
		if err := utils.SaveImage(reference, r.ReferencePath); err != nil {
			return nil, err
		}
		log.Printf("reference image saved: %s", r.ReferencePath)
	}
	if err := mapping.WriteFile(r.MappingPath); err != nil {
		return nil, err
	}
	log.Printf("mapping saved: %s", r.MappingPath)

	if err := WriteColorsFile(r.ColorsPath, colors); err != nil {
		return nil, err
	}
	log.Printf("tile colors saved: %s", r.ColorsPath)

	if err := utils.SavePalette(palette, h, r.PalettePath); err != nil {
		return nil, err
	}
	log.Printf("palette strip saved: %s", r.PalettePath)

	return r, nil
}
