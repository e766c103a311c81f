package models

import (
	"strconv"

	"github.com/mazznoer/csscolorparser"
)

// Tier selects the canvas resolution, JPEG quality and parameter scale
// factor for a render.
type Tier int

const (
	// TierFull is the full-resolution tier used by generate and finalize.
	TierFull Tier = iota
	// TierPreview is the cheap tier used for live previews in the editor.
	TierPreview
)

// Defaults applied when a request omits a parameter or supplies one that
// does not parse. They are tier-unscaled base values; the tier scale
// factor is applied afterwards by the compositor.
const (
	DefaultColor     = "#FFFFFF"
	DefaultLogoX     = 0
	DefaultLogoY     = 175
	DefaultLogoWidth = 450
)

// CanvasWidth returns the target width of the composited canvas in pixels.
func (t Tier) CanvasWidth() int {
	if t == TierPreview {
		return 800
	}
	return 2000
}

// JPEGQuality returns the encoder quality for the tier.
func (t Tier) JPEGQuality() int {
	if t == TierPreview {
		return 70
	}
	return 95
}

// Scale returns the factor applied to the logo width and the X/Y offsets.
func (t Tier) Scale() float64 {
	if t == TierPreview {
		return 0.4
	}
	return 1.0
}

func (t Tier) String() string {
	if t == TierPreview {
		return "preview"
	}
	return "full"
}

// RenderRequest is the immutable input to one mockup render. Construct it
// with NewRenderRequest so the documented parameter defaults are applied;
// the struct is never mutated after that.
type RenderRequest struct {
	LogoImage    []byte
	LogoFilename string
	Color        string
	LogoX        float64
	LogoY        float64
	LogoWidth    int
}

// MockupConfig echoes the accepted (defaulted or explicit) parameters back
// to the caller so it can reconcile them with its own state.
type MockupConfig struct {
	Color     string  `json:"color"`
	LogoX     float64 `json:"logoX"`
	LogoY     float64 `json:"logoY"`
	LogoWidth int     `json:"logoWidth"`
}

// RenderResult is an encoded mockup image.
type RenderResult struct {
	Image  []byte
	Width  int
	Height int
}

// PublishResult is the outcome of a finalize call: both uploads succeeded.
type PublishResult struct {
	MockupURL string       `json:"mockupUrl"`
	LogoURL   string       `json:"originalLogoUrl"`
	Config    MockupConfig `json:"config"`
}

// NewRenderRequest builds a RenderRequest from raw form parameters,
// coercing anything missing or unparseable to the documented defaults.
// The logo bytes themselves are not inspected here; an undecodable logo
// is reported by the compositor.
func NewRenderRequest(logo []byte, filename string, params map[string]string) *RenderRequest {
	return &RenderRequest{
		LogoImage:    logo,
		LogoFilename: filename,
		Color:        coerceColor(params["color"]),
		LogoX:        coerceFloat(params["logoX"], DefaultLogoX),
		LogoY:        coerceFloat(params["logoY"], DefaultLogoY),
		LogoWidth:    coercePositiveInt(params["logoWidth"], DefaultLogoWidth),
	}
}

// Config returns the echo of the accepted parameters.
func (r *RenderRequest) Config() MockupConfig {
	return MockupConfig{
		Color:     r.Color,
		LogoX:     r.LogoX,
		LogoY:     r.LogoY,
		LogoWidth: r.LogoWidth,
	}
}

func coerceColor(value string) string {
	if value == "" {
		return DefaultColor
	}
	if _, err := csscolorparser.Parse(value); err != nil {
		return DefaultColor
	}
	return value
}

func coerceFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

func coercePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}
