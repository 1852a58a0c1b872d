// Package site assembles a page: it mounts the shared partials and starts the
// navigation, localization and project components in order.
package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"karya.dev/internal/assets"
	"karya.dev/internal/dom"
	"karya.dev/internal/i18n"
	"karya.dev/internal/nav"
	"karya.dev/internal/partial"
	"karya.dev/internal/projects"
	"karya.dev/internal/services"
)

// Mount points in every page shell.
const (
	HeaderMount = "#siteHeader"
	FooterMount = "#siteFooter"
	YearID      = "year"
)

// Settings are the site-wide paths and timings a Bootstrapper needs.
type Settings struct {
	HeaderPartial string
	FooterPartial string
	CatalogPath   string
	ImageBase     string
	CloseDelay    time.Duration
}

// Page is a booted document and its components. Nav is nil on pages
// without the mobile menu.
type Page struct {
	Doc       *dom.Document
	Nav       *nav.Menu
	Localizer *i18n.Localizer
	Projects  *projects.Renderer
}

// Render flushes pending frames and timers and writes the document.
func (p *Page) Render(w io.Writer) error {
	p.Doc.Scheduler().Drain()
	return p.Doc.Render(w)
}

// Bootstrapper boots page shells against one set of site resources.
type Bootstrapper struct {
	fetcher  assets.Fetcher
	settings Settings
	widgets  projects.Options
	partials *partial.Loader
	now      func() time.Time
	logger   *zap.Logger
}

// NewBootstrapper creates a Bootstrapper. Modal and carousel widgets default
// to the static renditions.
func NewBootstrapper(fetcher assets.Fetcher, settings Settings, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		fetcher:  fetcher,
		settings: settings,
		widgets: projects.Options{
			ImageBase: settings.ImageBase,
			Modal:     projects.StaticModal{},
			Carousel:  projects.StaticCarousel{},
		},
		partials: partial.NewLoader(fetcher, logger),
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the clock used for the footer year.
func (b *Bootstrapper) WithClock(now func() time.Time) *Bootstrapper {
	b.now = now
	return b
}

// WithWidgets overrides the modal and carousel widgets; nil disables them.
func (b *Bootstrapper) WithWidgets(modal projects.Modal, carousel projects.Carousel) *Bootstrapper {
	b.widgets.Modal = modal
	b.widgets.Carousel = carousel
	return b
}

// Boot runs the page start-up sequence on doc. pagePath is the request path
// used for active-link marking; store holds the language preference.
// Each component skips itself when its anchors are missing, and no component
// failure stops the ones after it.
func (b *Bootstrapper) Boot(ctx context.Context, doc *dom.Document, pagePath string, store i18n.Storage) *Page {
	b.partials.Load(ctx, doc, HeaderMount, b.settings.HeaderPartial)
	b.partials.Load(ctx, doc, FooterMount, b.settings.FooterPartial)

	page := &Page{Doc: doc}
	page.Nav = nav.Init(doc, pagePath, b.settings.CloseDelay, b.logger)

	page.Localizer = i18n.NewLocalizer(doc, store, b.logger)
	page.Localizer.Initialize()

	catalog := services.NewProjectService(b.fetcher, b.settings.CatalogPath)
	page.Projects = projects.NewRenderer(doc, catalog, page.Localizer, b.widgets, b.logger)
	page.Projects.Init(ctx)

	if y := doc.ByID(YearID); y != nil {
		y.SetText(strconv.Itoa(b.now().Year()))
	}
	return page
}

// BootShell fetches the page shell at shellPath, parses it and boots it.
func (b *Bootstrapper) BootShell(ctx context.Context, shellPath, pagePath string, store i18n.Storage) (*Page, error) {
	data, err := b.fetcher.Fetch(ctx, shellPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", shellPath, err)
	}
	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", shellPath, err)
	}
	return b.Boot(ctx, doc, pagePath, store), nil
}
