package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/blockforge/atlasbuilder"
)

const desc = `Packs individual block textures into a single atlas image with a
JSON name->index mapping for the voxel engine.`

type buildCmd struct {
	Textures string `short:"t" default:"Minecraft_Textures/block" help:"Directory of block textures."`
	Out      string `short:"o" default:"VoxelBlockAtlas" help:"Base name of the output files."`
	Blocks   string `help:"Optional JSON file overriding the built-in block set."`
	Palette  int    `default:"8" help:"Number of colors in the extracted atlas palette."`
	Method   string `name:"palette-method" default:"dominantcolor" enum:"dominantcolor,kmeans" help:"Palette extraction method."`
}

func (c *buildCmd) Run() error {
	set := atlasbuilder.DefaultBlockSet()
	if c.Blocks != "" {
		var err error
		if set, err = atlasbuilder.LoadBlockSetFile(c.Blocks); err != nil {
			return err
		}
	}
	method, err := atlasbuilder.ParsePaletteMethod(c.Method)
	if err != nil {
		return err
	}
	result, err := atlasbuilder.BuildSelective(atlasbuilder.BuildOptions{
		TexturesDir:   c.Textures,
		OutBase:       c.Out,
		Blocks:        set,
		PaletteSize:   c.Palette,
		PaletteMethod: method,
	})
	if err != nil {
		return err
	}
	atlasbuilder.PrintReport(os.Stdout, result, set, false)
	return nil
}

type buildFullCmd struct {
	Textures string `short:"t" default:"Minecraft_Textures/block" help:"Directory of block textures."`
	Out      string `short:"o" default:"CompleteBlockAtlas" help:"Base name of the output files."`
	Font     string `default:"arial.ttf" help:"TrueType font for reference-image labels."`
	Palette  int    `default:"8" help:"Number of colors in the extracted atlas palette."`
	Method   string `name:"palette-method" default:"dominantcolor" enum:"dominantcolor,kmeans" help:"Palette extraction method."`
}

func (c *buildFullCmd) Run() error {
	method, err := atlasbuilder.ParsePaletteMethod(c.Method)
	if err != nil {
		return err
	}
	result, err := atlasbuilder.BuildFull(atlasbuilder.BuildOptions{
		TexturesDir:   c.Textures,
		OutBase:       c.Out,
		FontPath:      c.Font,
		PaletteSize:   c.Palette,
		PaletteMethod: method,
	})
	if err != nil {
		return err
	}
	atlasbuilder.PrintReport(os.Stdout, result, atlasbuilder.DefaultBlockSet(), true)
	return nil
}

var cli struct {
	Build     buildCmd     `cmd:"" help:"Pack the curated block set into a single-row atlas."`
	BuildFull buildFullCmd `cmd:"" name:"build-full" help:"Pack every texture in a directory into a near-square atlas with an annotated reference image."`
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("atlasbuilder"),
		kong.Description(desc),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
