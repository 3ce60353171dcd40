package atlasbuilder

import (
	"image"
	"math"
)

// Grid describes the tile arrangement of an atlas: Cols*Rows cells,
// filled row by row in linear-index order. The last row may be
// partially filled.
type Grid struct {
	Cols int
	Rows int
}

// SingleRow lays n tiles out as one horizontal strip.
func SingleRow(n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	return Grid{Cols: n, Rows: 1}
}

// SquareGrid lays n tiles out as the smallest near-square rectangle
// that holds all of them: cols = ceil(sqrt(n)), rows = ceil(n/cols).
func SquareGrid(n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	return Grid{Cols: cols, Rows: rows}
}

// Cells returns the total cell count, including unused trailing cells.
func (g Grid) Cells() int { return g.Cols * g.Rows }

// CellRect returns the pixel bounds of the cell holding linear index i
// for tiles of the given size.
func (g Grid) CellRect(i, tileW, tileH int) image.Rectangle {
	col := i % g.Cols
	row := i / g.Cols
	x := col * tileW
	y := row * tileH
	return image.Rect(x, y, x+tileW, y+tileH)
}

// CanvasSize returns the pixel size of a canvas holding the full grid.
func (g Grid) CanvasSize(tileW, tileH int) image.Point {
	return image.Point{X: g.Cols * tileW, Y: g.Rows * tileH}
}
