package assets

import (
	"bytes"
	"image"
	"path/filepath"
	"sort"
	"strings"

	// Raster decoders for the media types found in presentation packages.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/kpaulsen/brandlens/model"
)

// MediaColors extracts up to max dominant colors from a media entry,
// dispatching on the filename extension. SVG entries are scraped for
// painted colors; everything else is decoded as a raster image. Returns
// nil when the content cannot be decoded: color extraction is a
// best-effort signal, never an error.
func MediaColors(filename string, data []byte, max int) []string {
	if strings.EqualFold(filepath.Ext(filename), ".svg") {
		return SVGColors(data, max)
	}
	return DominantColors(data, max)
}

// DominantColors decodes a raster image and returns up to max dominant
// colors as lowercase hex, most frequent first. Near-white and near-black
// pixels are skipped: they are backgrounds and outlines, not brand
// colors.
func DominantColors(data []byte, max int) []string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Sample at most ~64x64 pixels; decks embed photos too.
	stepX, stepY := w/64, h/64
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	counts := make(map[model.Color]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			c := quantize(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			if c.NearWhiteOrBlack() {
				continue
			}
			counts[c]++
		}
	}

	return topColors(counts, max)
}

// quantize buckets each channel to 4 bits so anti-aliased shades collapse
// into one color.
func quantize(r, g, b uint8) model.Color {
	q := func(v uint8) uint8 { return (v >> 4) * 17 }
	return model.Color{R: q(r), G: q(g), B: q(b)}
}

func topColors(counts map[model.Color]int, max int) []string {
	type entry struct {
		c model.Color
		n int
	}
	ranked := make([]entry, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, entry{c, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].c.Hex() < ranked[j].c.Hex()
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]string, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, e.c.Hex())
	}
	return out
}
