// Package partial mounts shared HTML fragments (header, footer) into a page.
package partial

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"karya.dev/internal/assets"
	"karya.dev/internal/dom"
)

// Loader fetches fragments and injects them verbatim. Fragments are trusted
// site content and are not sanitised.
type Loader struct {
	fetcher assets.Fetcher
	logger  *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(fetcher assets.Fetcher, logger *zap.Logger) *Loader {
	return &Loader{fetcher: fetcher, logger: logger.Named("partial")}
}

// Load replaces the content of the element matching mount with the fragment
// at path. A missing mount point is a no-op; a failed fetch is logged and
// leaves the mount point untouched. It reports whether the mount was updated.
func (l *Loader) Load(ctx context.Context, doc *dom.Document, mount, path string) bool {
	target := findMount(doc, mount)
	if target == nil {
		return false
	}

	data, err := l.fetcher.Fetch(ctx, path)
	if err != nil {
		l.logger.Warn("failed to load partial", zap.String("path", path), zap.Error(err))
		return false
	}
	if err := target.SetInnerHTML(string(data)); err != nil {
		l.logger.Warn("failed to mount partial", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

func findMount(doc *dom.Document, mount string) *dom.Element {
	mount = strings.TrimSpace(mount)
	if mount == "" || dom.ValidSelector(mount) != nil {
		return nil
	}
	return doc.Select(mount)
}
