// Package build renders the site to static files, one hydrated copy of each
// page per language.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"karya.dev/internal/assets"
	"karya.dev/internal/config"
	"karya.dev/internal/i18n"
	"karya.dev/internal/site"
)

// parallelPages bounds how many pages render at once.
const parallelPages = 4

// Builder writes the static site.
type Builder struct {
	siteDir string
	outDir  string
	site    *config.SiteConfig
	boot    *site.Bootstrapper
	base    *zap.Logger
	logger  *zap.Logger
}

// NewBuilder creates a Builder reading from siteDir and writing to outDir.
func NewBuilder(siteDir, outDir string, siteCfg *config.SiteConfig, logger *zap.Logger) *Builder {
	fetcher := assets.NewFSFetcher(os.DirFS(siteDir))
	return &Builder{
		siteDir: siteDir,
		outDir:  outDir,
		site:    siteCfg,
		boot:    site.NewBootstrapper(fetcher, siteCfg.Settings(), logger),
		base:    logger,
		logger:  logger.Named("build"),
	}
}

// WithSource reads page shells, partials and the catalog through fetcher
// instead of the site directory. Assets are still copied from the site
// directory when it exists.
func (b *Builder) WithSource(fetcher assets.Fetcher) *Builder {
	b.boot = site.NewBootstrapper(fetcher, b.site.Settings(), b.base)
	return b
}

// Result summarises a build.
type Result struct {
	Pages  int
	Assets int
}

// Run cleans the output directory, renders every page in both languages and
// copies the assets directory. The default language goes to <out>/<page>.html
// and English to <out>/en/<page>.html.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	var res Result
	if err := os.RemoveAll(b.outDir); err != nil {
		return res, fmt.Errorf("failed to clean %s: %w", b.outDir, err)
	}
	if err := os.MkdirAll(filepath.Join(b.outDir, i18n.English), 0o755); err != nil {
		return res, fmt.Errorf("failed to create %s: %w", b.outDir, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelPages)
	rendered := make([]int, len(b.site.Pages))
	for i, name := range b.site.Pages {
		g.Go(func() error {
			n, err := b.renderPage(gctx, name)
			rendered[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	for _, n := range rendered {
		res.Pages += n
	}

	copied, err := b.copyAssets()
	if err != nil {
		return res, err
	}
	res.Assets = copied

	b.logger.Info("site built",
		zap.String("out", b.outDir),
		zap.Int("pages", res.Pages),
		zap.Int("assets", res.Assets),
	)
	return res, nil
}

// renderPage writes both language variants of one page. A page without a
// shell is skipped with a warning.
func (b *Builder) renderPage(ctx context.Context, name string) (int, error) {
	shell := name + ".html"
	written := 0
	for _, lang := range []string{i18n.Default, i18n.English} {
		store := i18n.NewMemoryStorage()
		store.Set(i18n.StorageKey, lang)

		page, err := b.boot.BootShell(ctx, shell, "/"+shell, store)
		if errors.Is(err, assets.ErrNotFound) {
			b.logger.Warn("page shell missing, skipped", zap.String("page", name))
			return 0, nil
		}
		if err != nil {
			return written, err
		}
		page.Link(staticLinks{page: shell, lang: lang})
		if lang == i18n.English {
			relocate(page.Doc, "../")
		}
		var buf bytes.Buffer
		if err := page.Render(&buf); err != nil {
			return written, fmt.Errorf("failed to render %s: %w", shell, err)
		}

		dst := filepath.Join(b.outDir, shell)
		if lang == i18n.English {
			dst = filepath.Join(b.outDir, i18n.English, shell)
		}
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", dst, err)
		}
		written++
	}
	return written, nil
}

func (b *Builder) copyAssets() (int, error) {
	src := filepath.Join(b.siteDir, b.site.AssetsDir)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.siteDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(b.outDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if err := copyFile(path, dst); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to copy assets: %w", err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
