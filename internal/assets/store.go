package assets

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

// ErrAssetMissing indicates a required raster asset is absent or cannot be
// decoded. This is a deployment problem, not a client error.
var ErrAssetMissing = errors.New("asset missing")

// Logical asset names resolved through the manifest.
const (
	NameBackground  = "background"
	NameBodyMask    = "body_mask"
	NameHandlesMask = "handles_mask"
	NameShadow      = "shadow"
	NameHighlight   = "highlight"
)

// Manifest maps the five logical asset names to files relative to the
// assets directory. All five entries are required.
type Manifest struct {
	Background  string `yaml:"background"`
	BodyMask    string `yaml:"body_mask"`
	HandlesMask string `yaml:"handles_mask"`
	Shadow      string `yaml:"shadow"`
	Highlight   string `yaml:"highlight"`
}

// Set holds the five decoded assets for one render call. Read-only once
// loaded.
type Set struct {
	Background  image.Image
	BodyMask    image.Image
	HandlesMask image.Image
	Shadow      image.Image
	Highlight   image.Image
}

// Store resolves logical asset names to decoded images. Assets are fixed
// at deployment time; the store re-reads them on every Load so a process
// never serves half-updated art after a redeploy. Safe for concurrent use.
type Store struct {
	dir   string
	files map[string]string
}

// NewStore reads manifest.yaml from dir and validates that every logical
// name has an entry.
func NewStore(dir string) (*Store, error) {
	manifestPath := filepath.Join(dir, "manifest.yaml")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest: %w", err)
	}

	files := map[string]string{
		NameBackground:  manifest.Background,
		NameBodyMask:    manifest.BodyMask,
		NameHandlesMask: manifest.HandlesMask,
		NameShadow:      manifest.Shadow,
		NameHighlight:   manifest.Highlight,
	}
	for name, file := range files {
		if file == "" {
			return nil, fmt.Errorf("asset manifest is missing an entry for %q", name)
		}
	}

	return &Store{dir: dir, files: files}, nil
}

// Load decodes the asset registered under the given logical name.
func (s *Store) Load(name string) (image.Image, error) {
	file, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown asset %q", ErrAssetMissing, name)
	}

	img, err := imaging.Open(filepath.Join(s.dir, file))
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", ErrAssetMissing, name, file, err)
	}

	return img, nil
}

// LoadSet loads all five assets for one render call, failing on the first
// one that is absent or undecodable.
func (s *Store) LoadSet() (*Set, error) {
	background, err := s.Load(NameBackground)
	if err != nil {
		return nil, err
	}
	bodyMask, err := s.Load(NameBodyMask)
	if err != nil {
		return nil, err
	}
	handlesMask, err := s.Load(NameHandlesMask)
	if err != nil {
		return nil, err
	}
	shadow, err := s.Load(NameShadow)
	if err != nil {
		return nil, err
	}
	highlight, err := s.Load(NameHighlight)
	if err != nil {
		return nil, err
	}

	return &Set{
		Background:  background,
		BodyMask:    bodyMask,
		HandlesMask: handlesMask,
		Shadow:      shadow,
		Highlight:   highlight,
	}, nil
}
