// Package rasterops provides the compositing primitives the mockup
// pipeline needs beyond plain resizing: alpha stencils and the multiply
// and screen blend modes. Blend math is delegated to bild so the output
// matches what a standard 2D imaging library produces for these modes.
package rasterops

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
)

// AlphaStencil composites src with destination-in semantics: the result
// keeps src wherever mask is opaque and is fully transparent elsewhere.
// The mask's alpha channel is the stencil; its color channels are ignored.
// The result shares src's dimensions and is anchored at (0, 0).
func AlphaStencil(src, mask image.Image) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(out, out.Bounds(), src, b.Min, mask, mask.Bounds().Min, draw.Over)
	return out
}

// ThresholdAlpha builds a binary alpha mask from img: pixels whose alpha
// is at least cutoff become fully opaque, the rest fully transparent.
// invert flips the polarity, which the handles mask needs because the art
// asset marks the handle silhouette with the opposite alpha convention to
// what destination-in expects.
func ThresholdAlpha(img image.Image, cutoff uint8, invert bool) *image.Alpha {
	b := img.Bounds()
	out := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			opaque := uint8(a>>8) >= cutoff
			if invert {
				opaque = !opaque
			}
			if opaque {
				out.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: 0xff})
			}
		}
	}

	return out
}

// Multiply composites fg over bg with the multiply blend mode. Transparent
// fg pixels leave bg unchanged.
func Multiply(bg, fg image.Image) *image.RGBA {
	return blend.Multiply(bg, fg)
}

// Screen composites fg over bg with the screen blend mode.
func Screen(bg, fg image.Image) *image.RGBA {
	return blend.Screen(bg, fg)
}
