package mockup

import "math"

// logoPlacement computes the top-left corner for the resized logo: centered
// on the canvas, shifted by the requested signed offsets scaled by the tier
// factor. Inputs are post-resize dimensions. Offsets may push the logo
// partially or fully off-canvas; that is accepted, not an error.
func logoPlacement(canvasW, canvasH, logoW, logoH int, offsetX, offsetY, scale float64) (left, top int) {
	left = int(math.Round(float64(canvasW)/2-float64(logoW)/2)) + int(math.Round(offsetX*scale))
	top = int(math.Round(float64(canvasH)/2-float64(logoH)/2)) + int(math.Round(offsetY*scale))
	return left, top
}
