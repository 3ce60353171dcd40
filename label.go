package atlasbuilder

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	labelFontSize = 10
	labelHeight   = 10
)

// labelBackground matches the semi-opaque box the reference image
// draws behind each index so it stays readable on busy tiles.
var labelBackground = color.NRGBA{A: 180}

// Labeler draws per-cell index labels onto the reference canvas.
type Labeler struct {
	face font.Face
}

// NewLabeler returns a labeler using the TrueType font at fontPath at
// 10pt. When the font is missing or unparseable it falls back to the
// builtin 7x13 face and returns the reason as a warning; label
// rendering itself is never fatal.
func NewLabeler(fontPath string) (*Labeler, string) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return &Labeler{face: basicfont.Face7x13},
			fmt.Sprintf("font %s unavailable, using builtin face: %v", fontPath, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return &Labeler{face: basicfont.Face7x13},
			fmt.Sprintf("font %s unreadable, using builtin face: %v", fontPath, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &Labeler{face: face}, ""
}

// Annotate draws index onto dst in the top-left corner of cell: a
// half-tile-wide dark box with the decimal index in white on top.
func (l *Labeler) Annotate(dst draw.Image, cell image.Rectangle, index int) {
	box := image.Rect(
		cell.Min.X, cell.Min.Y,
		cell.Min.X+cell.Dx()/2, min(cell.Min.Y+labelHeight, cell.Max.Y),
	)
	draw.Draw(dst, box, image.NewUniform(labelBackground), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: l.face,
		Dot: fixed.Point26_6{
			X: fixed.I(cell.Min.X + 2),
			Y: fixed.I(cell.Min.Y) + l.face.Metrics().Ascent,
		},
	}
	d.DrawString(strconv.Itoa(index))
}
