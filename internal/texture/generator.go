// Package texture generates procedural fabric textures and memoizes them,
// keyed by dimensions, color and kind. Entries are pure functions of their
// key, so racing regeneration is harmless.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/mazznoer/csscolorparser"
)

// Kind names a procedural texture family.
type Kind string

// KindFabric is a woven warp/weft pattern approximating canvas cloth.
const KindFabric Kind = "fabric"

// Key identifies one generated texture.
type Key struct {
	Width  int
	Height int
	Color  string
	Kind   Kind
}

// String renders the key in the form used for cache lookups.
func (k Key) String() string {
	return fmt.Sprintf("%s:%dx%d:%s", k.Kind, k.Width, k.Height, k.Color)
}

// Weave geometry. The thread pitch is in pixels; depth is how far the
// shading dips below full brightness at a thread valley.
const (
	threadPitch = 6.0
	weaveDepth  = 0.18
)

// Fabric renders the woven-fabric pattern for key. Deterministic: the same
// key always produces the same pixels.
func Fabric(key Key) *image.NRGBA {
	base := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if c, err := csscolorparser.Parse(key.Color); err == nil {
		r, g, b, a := c.RGBA255()
		base = color.NRGBA{R: r, G: g, B: b, A: a}
	}

	out := image.NewNRGBA(image.Rect(0, 0, key.Width, key.Height))
	for y := 0; y < key.Height; y++ {
		weft := math.Sin(float64(y) * 2 * math.Pi / threadPitch)
		for x := 0; x < key.Width; x++ {
			warp := math.Sin(float64(x) * 2 * math.Pi / threadPitch)
			// Thread crossings darken where both waves are in a valley.
			shade := 1 - weaveDepth*(2-warp-weft)/2
			out.SetNRGBA(x, y, color.NRGBA{
				R: scaleChannel(base.R, shade),
				G: scaleChannel(base.G, shade),
				B: scaleChannel(base.B, shade),
				A: base.A,
			})
		}
	}

	return out
}

// FabricPNG renders the fabric pattern and encodes it as PNG for cache
// storage.
func FabricPNG(key Key) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Fabric(key), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode fabric texture: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleChannel(v uint8, factor float64) uint8 {
	scaled := math.Round(float64(v) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 0xff {
		return 0xff
	}
	return uint8(scaled)
}
