package atlasbuilder

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"

	"github.com/blockforge/atlasbuilder/utils"
)

// Texture is one source tile: the file name with its extension
// stripped, plus the decoded pixels. Placeholder marks tiles that were
// substituted for a missing file.
type Texture struct {
	Name        string
	Image       image.Image
	Placeholder bool
}

// BlockEntry names one required texture and the source constant the
// report suggests for it. Constant may be empty, in which case a name
// is derived (TEX_ + upper-cased name with _BLOCK dropped).
type BlockEntry struct {
	Name     string `json:"name"`
	Constant string `json:"constant,omitempty"`
}

// ConstantName returns the constant suggestion for the entry.
func (e BlockEntry) ConstantName() string {
	if e.Constant != "" {
		return e.Constant
	}
	return "TEX_" + strings.ReplaceAll(strings.ToUpper(e.Name), "_BLOCK", "")
}

// BlockSet is the ordered, curated list of textures the selective
// builder packs. Order is atlas order.
type BlockSet []BlockEntry

// DefaultBlockSet returns the block set the voxel engine currently
// uses.
func DefaultBlockSet() BlockSet {
	return BlockSet{
		{Name: "stone", Constant: "TEX_STONE"},
		{Name: "dirt", Constant: "TEX_DIRT"},
		{Name: "grass_block_top", Constant: "TEX_GRASS_TOP"},
		{Name: "grass_block_side", Constant: "TEX_GRASS_SIDE"},
		{Name: "bedrock", Constant: "TEX_BEDROCK"},
	}
}

// LoadBlockSetFile reads a block set from a JSON array of
// {"name": ..., "constant": ...} objects.
func LoadBlockSetFile(path string) (BlockSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read block set")
	}
	var set BlockSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrapf(err, "parse block set %s", path)
	}
	if len(set) == 0 {
		return nil, errors.Errorf("block set %s is empty", path)
	}
	seen := make(map[string]bool, len(set))
	for _, e := range set {
		if e.Name == "" {
			return nil, errors.Errorf("block set %s has an entry without a name", path)
		}
		if seen[e.Name] {
			return nil, errors.Errorf("block set %s repeats %q", path, e.Name)
		}
		seen[e.Name] = true
	}
	return set, nil
}

const (
	textureExt = ".png"

	// Tile size assumed when a placeholder must be created before any
	// real texture has decoded.
	defaultTileSize = 16
)

// LoadBlockSet loads every entry of the set from dir, in set order.
// Missing files are substituted with a magenta placeholder sized like
// the first texture that did decode, so the result always has
// len(set) entries. Only a missing directory is an error.
func LoadBlockSet(dir string, set BlockSet) ([]Texture, []string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, errors.Wrapf(err, "textures directory %s", dir)
	}

	textures := make([]Texture, 0, len(set))
	var warnings []string
	for _, entry := range set {
		path := filepath.Join(dir, entry.Name+textureExt)
		img, err := utils.ReadImage(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("texture not found: %s%s", entry.Name, textureExt))
			log.Printf("WARNING: texture not found: %s%s", entry.Name, textureExt)
			textures = append(textures, Texture{Name: entry.Name, Placeholder: true})
			continue
		}
		b := img.Bounds()
		log.Printf("loaded %s (%dx%d)", entry.Name+textureExt, b.Dx(), b.Dy())
		textures = append(textures, Texture{Name: entry.Name, Image: img})
	}

	w, h := defaultTileSize, defaultTileSize
	for _, t := range textures {
		if !t.Placeholder {
			w, h = t.Image.Bounds().Dx(), t.Image.Bounds().Dy()
			break
		}
	}
	for i := range textures {
		if textures[i].Placeholder {
			textures[i].Image = placeholderTile(w, h)
		}
	}
	return textures, warnings, nil
}

// ScanDir loads every *.png in dir, sorted ascending by file name.
// Files that fail to decode are skipped with a warning. Fatal only if
// the directory is missing or nothing decodes.
func ScanDir(dir string) ([]Texture, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "textures directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), textureExt) {
			files = append(files, e.Name())
		}
	}
	log.Printf("found %d texture files in %s", len(files), dir)

	var textures []Texture
	var warnings []string
	for i, name := range files {
		img, err := utils.ReadImage(filepath.Join(dir, name))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not load %s: %v", name, err))
			log.Printf("WARNING: could not load %s: %v", name, err)
			continue
		}
		textures = append(textures, Texture{
			Name:  strings.TrimSuffix(name, textureExt),
			Image: img,
		})
		if (i+1)%100 == 0 {
			log.Printf("loaded %d/%d textures", i+1, len(files))
		}
	}
	if len(textures) == 0 {
		return nil, warnings, errors.Errorf("no textures loaded from %s", dir)
	}
	return textures, warnings, nil
}

func placeholderTile(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colornames.Magenta), image.Point{}, draw.Src)
	return img
}
