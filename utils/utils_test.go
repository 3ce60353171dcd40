package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestSaveAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.SetNRGBA(3, 5, color.NRGBA{R: 255, G: 0, B: 255, A: 255})

	if err := SaveImage(img, path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := back.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("round-tripped image is %dx%d, expected 16x16", b.Dx(), b.Dy())
	}
	r, g, bl, a := back.At(3, 5).RGBA()
	if r != 0xffff || g != 0 || bl != 0xffff || a != 0xffff {
		t.Fatalf("pixel = %d,%d,%d,%d, expected opaque magenta", r, g, bl, a)
	}
}

func TestReadImageMissing(t *testing.T) {
	if _, err := ReadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSavePaletteDimensions(t *testing.T) {
	palette := []colorful.Color{
		{R: 0.1, G: 0.1, B: 0.1},
		{R: 0.5, G: 0.5, B: 0.5},
		{R: 0.9, G: 0.9, B: 0.9},
	}
	path := filepath.Join(t.TempDir(), "palette.png")
	if err := SavePalette(palette, 16, path); err != nil {
		t.Fatal(err)
	}
	img, err := ReadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 16 {
		t.Fatalf("palette strip is %dx%d, expected 48x16", b.Dx(), b.Dy())
	}
}

func TestSavePaletteEmpty(t *testing.T) {
	if err := SavePalette(nil, 16, filepath.Join(t.TempDir(), "palette.png")); err == nil {
		t.Fatal("expected error for empty palette")
	}
}
