package atlasbuilder

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// PaletteMethod selects how the atlas-wide palette is extracted.
type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod maps a CLI flag value to a PaletteMethod.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "", "dominantcolor":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, errors.Errorf("unknown palette method %q", s)
}

// TileColor is the dominant color of one atlas tile, used by the
// engine for minimap and distant-LOD tinting.
type TileColor struct {
	Name  string
	Color colorful.Color
}

// Hex returns the color as #rrggbb.
func (t TileColor) Hex() string { return t.Color.Clamped().Hex() }

// TileColors extracts the dominant color of every texture, in atlas
// order.
func TileColors(textures []Texture) []TileColor {
	out := make([]TileColor, 0, len(textures))
	for _, t := range textures {
		c, _ := colorful.MakeColor(dominantcolor.Find(t.Image))
		out = append(out, TileColor{Name: t.Name, Color: c.Clamped()})
	}
	return out
}

// WriteColorsFile persists tile colors as an ordered JSON object of
// name → hex string.
func WriteColorsFile(path string, tiles []TileColor) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range tiles {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteString(`:"` + t.Hex() + `"`)
	}
	buf.WriteByte('}')
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return errors.Wrap(err, "indent colors")
	}
	out.WriteByte('\n')
	return errors.Wrapf(os.WriteFile(path, out.Bytes(), 0o644), "write %s", path)
}

// ExtractPalette reduces img to at most k representative colors,
// sorted darkest to brightest. The kmeans method falls back to
// dominant-color extraction when clustering fails.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if k <= 0 {
		return nil
	}
	var palette []colorful.Color
	switch method {
	case PaletteMethodKMeans:
		palette = kmeansPalette(img, k)
		if len(palette) == 0 {
			log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
			palette = dominantPalette(img, k)
		}
	default:
		palette = dominantPalette(img, k)
	}
	sortPaletteByBrightness(palette)
	return palette
}

func dominantPalette(img image.Image, k int) []colorful.Color {
	candidates := dominantcolor.FindWeight(img, max(24, k*4))
	if len(candidates) == 0 {
		// Last resort: avoid an empty palette that would break the
		// strip rendering downstream.
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{col: col.Clamped(), weight: max(c.Weight, 1e-6)})
	}
	return selectDiverse(weighted, k)
}

func kmeansPalette(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large atlases.
	const maxSamples = 12000
	step := 1
	if n := b.Dx() * b.Dy(); n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, maxSamples)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				// Unused atlas cells stay transparent and would pull
				// clusters toward black.
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bl) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{col: col, weight: float64(max(len(c.Observations), 1))})
	}
	return selectDiverse(weighted, k)
}

type weightedColor struct {
	col    colorful.Color
	weight float64
}

// selectDiverse greedily picks k colors: seed with the heaviest
// candidate, then repeatedly take the candidate with the best
// weight-scaled Lab distance to everything picked so far.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	maxW := 0.0
	for _, c := range cands {
		maxW = max(maxW, c.weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := make([]colorful.Color, 0, k)
	used := make([]bool, len(cands))

	seed := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].weight > cands[seed].weight {
			seed = i
		}
	}
	picked = append(picked, cands[seed].col)
	used[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			minDist := math.MaxFloat64
			for _, p := range picked {
				minDist = min(minDist, c.col.DistanceLab(p))
			}
			score := minDist * (0.55 + 0.45*math.Sqrt(c.weight/maxW))
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, cands[best].col)
	}
	return picked
}

// sortPaletteByBrightness orders colors darkest first, so the palette
// strip reads dark → bright left to right.
func sortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := relativeLuminance(a), relativeLuminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// LuminanceStats summarizes tile brightness across the atlas.
type LuminanceStats struct {
	Mean   float64
	StdDev float64
}

// ComputeLuminanceStats returns mean and standard deviation of the
// tiles' dominant-color luminances.
func ComputeLuminanceStats(tiles []TileColor) LuminanceStats {
	if len(tiles) == 0 {
		return LuminanceStats{}
	}
	ys := make([]float64, len(tiles))
	for i, t := range tiles {
		ys[i] = relativeLuminance(t.Color)
	}
	s := LuminanceStats{Mean: stat.Mean(ys, nil)}
	if len(ys) > 1 {
		s.StdDev = stat.StdDev(ys, nil)
	}
	return s
}

// LuminanceOutliers names tiles whose dominant-color luminance is more
// than two standard deviations from the mean. These are usually
// placeholders, blanks, or textures that slipped into the wrong pack.
func LuminanceOutliers(tiles []TileColor, s LuminanceStats) []string {
	if s.StdDev == 0 {
		return nil
	}
	var out []string
	for _, t := range tiles {
		if math.Abs(relativeLuminance(t.Color)-s.Mean) > 2*s.StdDev {
			out = append(out, t.Name)
		}
	}
	return out
}
