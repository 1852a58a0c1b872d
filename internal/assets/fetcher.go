// Package assets fetches the static resources a page pulls in at load time:
// header/footer partials and the project catalog.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = errors.New("asset not found")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Fetcher loads a resource by site-relative path. Implementations do not
// cache between calls.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FSFetcher reads resources from a file system rooted at the site directory.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher creates a FSFetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// Fetch reads the file at p.
func (f *FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := cleanPath(p)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("fetch %s: invalid path", p)
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fetch %s: %w", p, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	return data, nil
}

// HTTPFetcher requests resources relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for resources under baseURL. A nil client
// uses http.DefaultClient.
func NewHTTPFetcher(baseURL string, client *http.Client) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{base: base, client: client}, nil
}

// Fetch issues a GET that asks intermediaries not to serve a cached copy.
func (f *HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	ref, err := url.Parse(cleanPath(p))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: p, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}
