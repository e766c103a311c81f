package mockup

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toteworks/mockup-renderer/internal/storage"
	"github.com/toteworks/mockup-renderer/pkg/models"
)

// ErrPublishFailed indicates rendering succeeded but at least one of the
// two publish uploads did not. No partial URLs are ever returned, and a
// completed upload is not rolled back when the other fails.
var ErrPublishFailed = errors.New("publish failed")

// Renderer runs one composite. Satisfied by *WorkerPool; tests substitute
// their own.
type Renderer interface {
	Submit(ctx context.Context, req *models.RenderRequest, tier models.Tier) (*models.RenderResult, error)
}

// Service is the facade over the three render use-cases.
type Service struct {
	renderer Renderer
	uploader storage.Uploader
	logger   *zap.Logger
}

// NewService creates the render service facade.
func NewService(renderer Renderer, uploader storage.Uploader, logger *zap.Logger) *Service {
	return &Service{
		renderer: renderer,
		uploader: uploader,
		logger:   logger,
	}
}

// RenderMockup renders the request at full resolution and returns the
// encoded JPEG.
func (s *Service) RenderMockup(ctx context.Context, req *models.RenderRequest) (*models.RenderResult, error) {
	return s.renderer.Submit(ctx, req, models.TierFull)
}

// RenderPreview renders the request at the cheap preview tier.
func (s *Service) RenderPreview(ctx context.Context, req *models.RenderRequest) (*models.RenderResult, error) {
	return s.renderer.Submit(ctx, req, models.TierPreview)
}

// RenderAndPublish renders at full resolution, then uploads the mockup and
// the untouched original logo concurrently. Both uploads must succeed; the
// operation waits for both rather than racing them, since the response
// needs both URLs.
func (s *Service) RenderAndPublish(ctx context.Context, req *models.RenderRequest) (*models.PublishResult, error) {
	res, err := s.renderer.Submit(ctx, req, models.TierFull)
	if err != nil {
		return nil, err
	}

	var mockupURL, logoURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.uploader.Upload(gctx, res.Image, mockupName(req.LogoFilename))
		if err != nil {
			return err
		}
		mockupURL = url
		return nil
	})
	g.Go(func() error {
		url, err := s.uploader.Upload(gctx, req.LogoImage, logoName(req.LogoFilename))
		if err != nil {
			return err
		}
		logoURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Publish upload failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	s.logger.Info("Published mockup",
		zap.String("mockup_url", mockupURL),
		zap.String("logo_url", logoURL))

	return &models.PublishResult{
		MockupURL: mockupURL,
		LogoURL:   logoURL,
		Config:    req.Config(),
	}, nil
}

// mockupName derives the suggested upload name for the rendered JPEG from
// the logo's filename.
func mockupName(logoFilename string) string {
	base := filepath.Base(logoFilename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "mockup"
	}
	return stem + "-mockup.jpg"
}

// logoName returns the original filename, falling back to a generic one
// when the upload carried none.
func logoName(logoFilename string) string {
	if strings.TrimSpace(logoFilename) == "" {
		return "logo.png"
	}
	return logoFilename
}
