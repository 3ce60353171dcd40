// Package utils holds the image I/O helpers shared by the atlas
// builder and its command-line front end.
package utils

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ReadImage decodes the PNG at path.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return img, nil
}

// SaveImage writes img to filename as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create image file")
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrapf(err, "encode %s", filename)
	}
	return nil
}

// SavePalette renders the palette as a horizontal strip of tileSize
// squares, one per color, and writes it to filename.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r := uint8(max(0, min(255, c.R*255)))
		g := uint8(max(0, min(255, c.G*255)))
		b := uint8(max(0, min(255, c.B*255)))
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := 0; y < h; y++ {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}

	return SaveImage(img, filename)
}
