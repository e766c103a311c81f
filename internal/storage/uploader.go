// Package storage uploads rendered mockups and original logos to an
// S3-compatible object store and hands back publicly resolvable URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrUploadFailed indicates the object store rejected or never received an
// upload. The bytes are discarded; retrying is the caller's decision.
var ErrUploadFailed = errors.New("upload failed")

// uploadNamespace is the fixed key prefix all uploads live under.
const uploadNamespace = "mockups"

// Uploader stores a byte buffer under a name of the caller's choosing and
// returns the public URL of the stored object. Implementations must make
// the actual storage key collision-resistant: two uploads with the same
// suggested name must not overwrite each other.
type Uploader interface {
	Upload(ctx context.Context, data []byte, suggestedName string) (string, error)
}

// Disabled is an Uploader for deployments without object storage
// configured; every call fails.
type Disabled struct{}

// Upload always reports the store as unconfigured.
func (Disabled) Upload(context.Context, []byte, string) (string, error) {
	return "", fmt.Errorf("%w: object storage is not configured", ErrUploadFailed)
}

// objectKey builds the storage key for one upload: the fixed namespace, a
// millisecond timestamp for collision resistance, and the suggested name's
// base with its extension preserved.
func objectKey(suggestedName string, now time.Time) string {
	base := filepath.Base(strings.TrimSpace(suggestedName))
	if base == "." || base == string(filepath.Separator) {
		// filepath.Base maps an empty or root name to "." / "/", which
		// would otherwise leak into the extension.
		base = ""
	}
	ext := filepath.Ext(base)
	stem := sanitizeStem(strings.TrimSuffix(base, ext))
	return fmt.Sprintf("%s/%d-%s%s", uploadNamespace, now.UnixMilli(), stem, ext)
}

// sanitizeStem keeps the name portable across stores and URLs.
func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
