// Package mockup renders tote-bag product mockups: a user logo composited
// onto layered bag art tinted to a requested color, encoded as JPEG at one
// of two quality tiers.
package mockup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/mazznoer/csscolorparser"
	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/internal/assets"
	"github.com/toteworks/mockup-renderer/internal/rasterops"
	"github.com/toteworks/mockup-renderer/internal/texture"
	"github.com/toteworks/mockup-renderer/pkg/models"
)

// ErrInvalidLogo indicates the uploaded logo bytes could not be decoded.
var ErrInvalidLogo = errors.New("invalid logo image")

// handleAlphaCutoff is the binary threshold applied to the handles mask
// before its polarity is flipped. The flip is tied to the shipped art
// asset's alpha convention; re-verify it if the assets are regenerated.
const handleAlphaCutoff = 128

// Compositor turns (logo bytes, color, placement parameters) into an
// encoded mockup image. Stateless aside from the read-only asset store
// and the texture cache; safe for concurrent use.
type Compositor struct {
	store         *assets.Store
	textures      texture.Cache
	fabricTexture bool
	logger        *zap.Logger
}

// NewCompositor creates a compositor. textures may be nil when
// fabricTexture is false.
func NewCompositor(store *assets.Store, textures texture.Cache, fabricTexture bool, logger *zap.Logger) *Compositor {
	return &Compositor{
		store:         store,
		textures:      textures,
		fabricTexture: fabricTexture,
		logger:        logger,
	}
}

// Compose runs the full pipeline for one request at the given tier.
//
// The flatten order is load-bearing: background, tinted bag, logo, then
// shadow (multiply) and highlight (screen). The overlays come after the
// logo so lighting affects it too.
func (c *Compositor) Compose(ctx context.Context, req *models.RenderRequest, tier models.Tier) (*models.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := c.store.LoadSet()
	if err != nil {
		return nil, err
	}

	// Canvas dimensions preserve the background's native aspect ratio.
	canvasW := tier.CanvasWidth()
	bgBounds := set.Background.Bounds()
	canvasH := int(math.Round(float64(bgBounds.Dy()) * float64(canvasW) / float64(bgBounds.Dx())))

	background := imaging.Resize(set.Background, canvasW, canvasH, imaging.Lanczos)
	colorCanvas := imaging.New(canvasW, canvasH, parseFillColor(req.Color))

	// Tint the bag body: the body mask is a destination-in stencil over
	// the solid color canvas.
	bodyMask := imaging.Resize(set.BodyMask, canvasW, canvasH, imaging.Lanczos)
	coloredBody := rasterops.AlphaStencil(colorCanvas, bodyMask)

	// Tint the handles: same stencil, but the mask needs a threshold and
	// a polarity flip first (see handleAlphaCutoff).
	handlesMask := imaging.Resize(set.HandlesMask, canvasW, canvasH, imaging.Lanczos)
	handleStencil := rasterops.ThresholdAlpha(handlesMask, handleAlphaCutoff, true)
	coloredHandles := rasterops.AlphaStencil(colorCanvas, handleStencil)

	coloredBag := imaging.Overlay(coloredBody, coloredHandles, image.Pt(0, 0), 1.0)

	if c.fabricTexture {
		coloredBag, err = c.applyFabric(ctx, coloredBag, req.Color, canvasW, canvasH)
		if err != nil {
			return nil, err
		}
	}

	// Logo resize happens before placement math; the offsets are computed
	// from post-resize dimensions or the placement drifts between tiers.
	scale := tier.Scale()
	logoSrc, err := imaging.Decode(bytes.NewReader(req.LogoImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}
	logoW := int(math.Round(float64(req.LogoWidth) * scale))
	logo := imaging.Resize(logoSrc, logoW, 0, imaging.Lanczos)

	left, top := logoPlacement(canvasW, canvasH, logo.Bounds().Dx(), logo.Bounds().Dy(), req.LogoX, req.LogoY, scale)

	shadow := imaging.Resize(set.Shadow, canvasW, canvasH, imaging.Lanczos)
	highlight := imaging.Resize(set.Highlight, canvasW, canvasH, imaging.Lanczos)

	out := imaging.Overlay(background, coloredBag, image.Pt(0, 0), 1.0)
	out = imaging.Overlay(out, logo, image.Pt(left, top), 1.0)
	shaded := rasterops.Multiply(out, shadow)
	lit := rasterops.Screen(shaded, highlight)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, lit, imaging.JPEG, imaging.JPEGQuality(tier.JPEGQuality())); err != nil {
		return nil, fmt.Errorf("failed to encode mockup: %w", err)
	}

	c.logger.Debug("Composited mockup",
		zap.String("tier", tier.String()),
		zap.Int("canvas_width", canvasW),
		zap.Int("canvas_height", canvasH),
		zap.Int("logo_left", left),
		zap.Int("logo_top", top),
		zap.Int("output_size", buf.Len()))

	return &models.RenderResult{
		Image:  buf.Bytes(),
		Width:  canvasW,
		Height: canvasH,
	}, nil
}

// applyFabric multiplies the procedural fabric pattern into the tinted
// bag, then re-applies the bag's own alpha so the weave stays inside the
// silhouette.
func (c *Compositor) applyFabric(ctx context.Context, bag *image.NRGBA, fill string, w, h int) (*image.NRGBA, error) {
	key := texture.Key{Width: w, Height: h, Color: fill, Kind: texture.KindFabric}

	data, err := c.textures.GetOrCreate(ctx, key, func() ([]byte, error) {
		return texture.FabricPNG(key)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate fabric texture: %w", err)
	}

	tex, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached fabric texture: %w", err)
	}

	woven := rasterops.Multiply(bag, tex)
	return rasterops.AlphaStencil(woven, bag), nil
}

// parseFillColor resolves the requested fill color, falling back to opaque
// white when the value does not parse. The request layer applies the same
// default, so this only fires for callers constructing requests by hand.
func parseFillColor(value string) color.NRGBA {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
