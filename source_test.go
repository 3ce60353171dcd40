package atlasbuilder

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blockforge/atlasbuilder/utils"
)

// writeTile saves a solid-color size×size PNG named <name>.png in dir.
func writeTile(t *testing.T, dir, name string, c color.Color, size int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	if err := utils.SaveImage(img, filepath.Join(dir, name+".png")); err != nil {
		t.Fatal(err)
	}
}

func writeBlockSetTiles(t *testing.T, dir string, size int, names ...string) {
	t.Helper()
	shades := []color.NRGBA{
		{R: 120, G: 120, B: 120, A: 255}, // stone-ish gray
		{R: 134, G: 96, B: 67, A: 255},   // dirt brown
		{R: 94, G: 157, B: 52, A: 255},   // grass green
		{R: 110, G: 140, B: 60, A: 255},
		{R: 40, G: 40, B: 40, A: 255},
	}
	for i, name := range names {
		writeTile(t, dir, name, shades[i%len(shades)], size)
	}
}

func TestLoadBlockSetAllPresent(t *testing.T) {
	dir := t.TempDir()
	set := DefaultBlockSet()
	names := make([]string, len(set))
	for i, e := range set {
		names[i] = e.Name
	}
	writeBlockSetTiles(t, dir, 16, names...)

	textures, warnings, err := LoadBlockSet(dir, set)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(textures) != len(set) {
		t.Fatalf("loaded %d textures, expected %d", len(textures), len(set))
	}
	for i, tex := range textures {
		if tex.Name != set[i].Name {
			t.Fatalf("texture %d is %q, expected %q", i, tex.Name, set[i].Name)
		}
		if tex.Placeholder {
			t.Fatalf("texture %q unexpectedly a placeholder", tex.Name)
		}
	}
}

func TestLoadBlockSetMissingEntry(t *testing.T) {
	dir := t.TempDir()
	writeBlockSetTiles(t, dir, 16, "stone", "dirt", "grass_block_top", "grass_block_side")
	// bedrock.png deliberately absent.

	textures, warnings, err := LoadBlockSet(dir, DefaultBlockSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(textures) != 5 {
		t.Fatalf("loaded %d textures, expected 5 including placeholder", len(textures))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "bedrock") {
		t.Fatalf("warnings = %v, expected one naming bedrock", warnings)
	}

	ph := textures[4]
	if !ph.Placeholder || ph.Name != "bedrock" {
		t.Fatalf("texture 4 = %+v, expected bedrock placeholder", ph)
	}
	b := ph.Image.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("placeholder is %dx%d, expected 16x16 like the loaded tiles", b.Dx(), b.Dy())
	}
	r, g, bl, a := ph.Image.At(8, 8).RGBA()
	if r != 0xffff || g != 0 || bl != 0xffff || a != 0xffff {
		t.Fatalf("placeholder pixel = %d,%d,%d,%d, expected opaque magenta", r, g, bl, a)
	}
}

func TestLoadBlockSetNothingPresent(t *testing.T) {
	dir := t.TempDir()
	textures, warnings, err := LoadBlockSet(dir, DefaultBlockSet())
	if err != nil {
		t.Fatal(err)
	}
	if len(textures) != 5 || len(warnings) != 5 {
		t.Fatalf("got %d textures, %d warnings, expected 5 and 5", len(textures), len(warnings))
	}
	for _, tex := range textures {
		if !tex.Placeholder {
			t.Fatalf("texture %q should be a placeholder", tex.Name)
		}
		if b := tex.Image.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Fatalf("placeholder %q is %dx%d, expected default 16x16", tex.Name, b.Dx(), b.Dy())
		}
	}
}

func TestLoadBlockSetMissingDir(t *testing.T) {
	if _, _, err := LoadBlockSet(filepath.Join(t.TempDir(), "nope"), DefaultBlockSet()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestScanDirSortedOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of order on purpose.
	writeTile(t, dir, "sand", color.NRGBA{R: 220, G: 210, B: 160, A: 255}, 16)
	writeTile(t, dir, "andesite", color.NRGBA{R: 130, G: 130, B: 130, A: 255}, 16)
	writeTile(t, dir, "gravel", color.NRGBA{R: 150, G: 140, B: 140, A: 255}, 16)

	textures, warnings, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := []string{"andesite", "gravel", "sand"}
	if len(textures) != len(want) {
		t.Fatalf("loaded %d textures, expected %d", len(textures), len(want))
	}
	for i, name := range want {
		if textures[i].Name != name {
			t.Fatalf("texture %d = %q, expected %q", i, textures[i].Name, name)
		}
	}
}

func TestScanDirSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "stone", color.NRGBA{R: 120, G: 120, B: 120, A: 255}, 16)
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	textures, warnings, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(textures) != 1 || textures[0].Name != "stone" {
		t.Fatalf("textures = %v, expected just stone", textures)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "broken.png") {
		t.Fatalf("warnings = %v, expected one naming broken.png", warnings)
	}
}

func TestScanDirEmptyIsFatal(t *testing.T) {
	if _, _, err := ScanDir(t.TempDir()); err == nil {
		t.Fatal("expected error when no textures load")
	}
}

func TestScanDirMissingDir(t *testing.T) {
	if _, _, err := ScanDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestConstantName(t *testing.T) {
	cases := []struct {
		entry BlockEntry
		want  string
	}{
		{BlockEntry{Name: "stone", Constant: "TEX_STONE"}, "TEX_STONE"},
		{BlockEntry{Name: "grass_block_top"}, "TEX_GRASS_TOP"},
		{BlockEntry{Name: "bedrock"}, "TEX_BEDROCK"},
	}
	for _, c := range cases {
		if got := c.entry.ConstantName(); got != c.want {
			t.Errorf("ConstantName(%+v) = %q, expected %q", c.entry, got, c.want)
		}
	}
}

func TestLoadBlockSetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.json")
	body := `[{"name":"stone","constant":"TEX_STONE"},{"name":"sand"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := LoadBlockSetFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 || set[0].Name != "stone" || set[1].ConstantName() != "TEX_SAND" {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestLoadBlockSetFileRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.json")
	if err := os.WriteFile(path, []byte(`[{"name":"stone"},{"name":"stone"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlockSetFile(path); err == nil {
		t.Fatal("expected error for duplicate names")
	}
}

func TestLoadBlockSetFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlockSetFile(path); err == nil {
		t.Fatal("expected error for empty set")
	}
}
