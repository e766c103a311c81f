package mockup

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/internal/assets"
	"github.com/toteworks/mockup-renderer/internal/texture"
	"github.com/toteworks/mockup-renderer/pkg/models"
)

const testManifest = `background: background.png
body_mask: body_mask.png
handles_mask: handles_mask.png
shadow: shadow.png
highlight: highlight.png
`

// newTestStore builds an asset directory with a 50x40 background and the
// four overlay layers, then opens a store over it.
func newTestStore(t *testing.T) *assets.Store {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(testManifest), 0644); err != nil {
		t.Fatal(err)
	}

	background := imaging.New(50, 40, color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff})

	// Body mask: opaque rectangle in the middle, transparent border.
	bodyMask := image.NewNRGBA(image.Rect(0, 0, 50, 40))
	for y := 10; y < 35; y++ {
		for x := 10; x < 40; x++ {
			bodyMask.SetNRGBA(x, y, color.NRGBA{A: 0xff})
		}
	}

	// Handles mask: the asset convention is inverted, the handle region is
	// the transparent part.
	handlesMask := imaging.New(50, 40, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	for y := 2; y < 8; y++ {
		for x := 15; x < 35; x++ {
			handlesMask.SetNRGBA(x, y, color.NRGBA{})
		}
	}

	// Neutral overlays: transparent shadow/highlight leave pixels alone.
	neutral := image.NewNRGBA(image.Rect(0, 0, 50, 40))

	for file, img := range map[string]image.Image{
		"background.png":   background,
		"body_mask.png":    bodyMask,
		"handles_mask.png": handlesMask,
		"shadow.png":       neutral,
		"highlight.png":    neutral,
	} {
		if err := imaging.Save(img, filepath.Join(dir, file)); err != nil {
			t.Fatalf("Failed to write %s: %v", file, err)
		}
	}

	store, err := assets.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

// testLogo returns an encoded PNG of a small solid square.
func testLogo(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	logo := imaging.New(20, 10, color.NRGBA{R: 0x20, G: 0x40, B: 0x80, A: 0xff})
	if err := imaging.Encode(&buf, logo, imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	return NewCompositor(newTestStore(t), nil, false, zap.NewNop())
}

func defaultRequest(t *testing.T) *models.RenderRequest {
	t.Helper()
	return models.NewRenderRequest(testLogo(t), "logo.png", map[string]string{})
}

func TestComposeOutputDimensions(t *testing.T) {
	comp := newTestCompositor(t)
	ctx := context.Background()

	tests := []struct {
		tier       models.Tier
		wantWidth  int
		wantHeight int // 50x40 background scaled to the tier width
	}{
		{models.TierFull, 2000, 1600},
		{models.TierPreview, 800, 640},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			res, err := comp.Compose(ctx, defaultRequest(t), tt.tier)
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Image))
			if err != nil {
				t.Fatalf("output is not a valid JPEG: %v", err)
			}
			if cfg.Width != tt.wantWidth || cfg.Height != tt.wantHeight {
				t.Errorf("JPEG size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantWidth, tt.wantHeight)
			}
			if res.Width != tt.wantWidth || res.Height != tt.wantHeight {
				t.Errorf("result size = %dx%d, want %dx%d", res.Width, res.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestComposeIdempotent(t *testing.T) {
	comp := newTestCompositor(t)
	ctx := context.Background()
	req := models.NewRenderRequest(testLogo(t), "logo.png", map[string]string{
		"color": "#2255AA",
		"logoX": "-30",
		"logoY": "12",
	})

	first, err := comp.Compose(ctx, req, models.TierFull)
	if err != nil {
		t.Fatalf("first Compose failed: %v", err)
	}
	second, err := comp.Compose(ctx, req, models.TierFull)
	if err != nil {
		t.Fatalf("second Compose failed: %v", err)
	}

	if !bytes.Equal(first.Image, second.Image) {
		t.Error("identical requests produced different bytes")
	}
}

func TestComposeColorAffectsOutput(t *testing.T) {
	comp := newTestCompositor(t)
	ctx := context.Background()
	logo := testLogo(t)

	red, err := comp.Compose(ctx, models.NewRenderRequest(logo, "logo.png", map[string]string{"color": "#FF0000"}), models.TierPreview)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	blue, err := comp.Compose(ctx, models.NewRenderRequest(logo, "logo.png", map[string]string{"color": "#0000FF"}), models.TierPreview)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if bytes.Equal(red.Image, blue.Image) {
		t.Error("different bag colors produced identical output")
	}
}

func TestComposeInvalidLogo(t *testing.T) {
	comp := newTestCompositor(t)

	req := models.NewRenderRequest([]byte("definitely not an image"), "logo.png", map[string]string{})
	_, err := comp.Compose(context.Background(), req, models.TierFull)
	if !errors.Is(err, ErrInvalidLogo) {
		t.Errorf("err = %v, want ErrInvalidLogo", err)
	}
}

func TestComposeMissingAsset(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(testManifest), 0644); err != nil {
		t.Fatal(err)
	}
	// Manifest is complete but no asset files exist.
	store, err := assets.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	comp := NewCompositor(store, nil, false, zap.NewNop())

	_, err = comp.Compose(context.Background(), defaultRequest(t), models.TierFull)
	if !errors.Is(err, assets.ErrAssetMissing) {
		t.Errorf("err = %v, want ErrAssetMissing", err)
	}
}

func TestComposeOffCanvasLogoAccepted(t *testing.T) {
	comp := newTestCompositor(t)

	req := models.NewRenderRequest(testLogo(t), "logo.png", map[string]string{
		"logoX": "-99999",
		"logoY": "99999",
	})
	if _, err := comp.Compose(context.Background(), req, models.TierPreview); err != nil {
		t.Errorf("off-canvas placement should not error, got %v", err)
	}
}

func TestComposeWithFabricTexture(t *testing.T) {
	cache, err := texture.NewMemoryCache(4)
	if err != nil {
		t.Fatal(err)
	}
	plain := NewCompositor(newTestStore(t), nil, false, zap.NewNop())
	woven := NewCompositor(newTestStore(t), cache, true, zap.NewNop())
	ctx := context.Background()
	logo := testLogo(t)

	a, err := plain.Compose(ctx, models.NewRenderRequest(logo, "logo.png", map[string]string{"color": "#AA5522"}), models.TierPreview)
	if err != nil {
		t.Fatalf("plain Compose failed: %v", err)
	}
	b, err := woven.Compose(ctx, models.NewRenderRequest(logo, "logo.png", map[string]string{"color": "#AA5522"}), models.TierPreview)
	if err != nil {
		t.Fatalf("textured Compose failed: %v", err)
	}

	if bytes.Equal(a.Image, b.Image) {
		t.Error("fabric texture had no effect on the output")
	}
}
