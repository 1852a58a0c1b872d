// Package projects renders the portfolio grid, the project counter and the
// project detail modal from the catalog.
package projects

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"karya.dev/internal/dom"
	"karya.dev/internal/i18n"
	"karya.dev/internal/models"
	"karya.dev/internal/services"
)

// DefaultImageBase is where catalog image filenames live.
const DefaultImageBase = "assets/img/"

// Element ids shared with the page markup.
const (
	GridID       = "workGrid"
	CountID      = "projectCount"
	ModalID      = "projectModal"
	TitleID      = "pmTitle"
	IndicatorsID = "pmIndicators"
	SlidesID     = "pmSlides"
	SkillsID     = "pmSkills"
	DescID       = "pmDesc"
	CarouselID   = "pmCarousel"
)

const (
	detailSelector = "[data-project-id], [data-proyek-id]"
	boundMarker    = "data-bound"
)

// Options configures a Renderer.
type Options struct {
	ImageBase string
	// Modal and Carousel may be nil; the detail view then stays static.
	Modal    Modal
	Carousel Carousel
}

// Renderer owns the project views of one document.
type Renderer struct {
	doc       *dom.Document
	catalog   *services.ProjectService
	localizer *i18n.Localizer
	opts      Options
	logger    *zap.Logger

	projects []models.Project
}

// NewRenderer creates a Renderer. The localizer hydrates content the renderer
// inserts.
func NewRenderer(doc *dom.Document, catalog *services.ProjectService, localizer *i18n.Localizer, opts Options, logger *zap.Logger) *Renderer {
	if opts.ImageBase == "" {
		opts.ImageBase = DefaultImageBase
	}
	return &Renderer{
		doc:       doc,
		catalog:   catalog,
		localizer: localizer,
		opts:      opts,
		logger:    logger.Named("projects"),
	}
}

// Init loads the catalog and renders every project view present on the page.
// Pages without the grid, the counter and the modal are left alone. Catalog
// failures are logged and leave the page unchanged. It reports whether the
// views were rendered.
func (r *Renderer) Init(ctx context.Context) bool {
	if r.doc.ByID(GridID) == nil && r.doc.ByID(CountID) == nil && r.doc.ByID(ModalID) == nil {
		return false
	}

	projects, err := r.Load(ctx)
	if err != nil {
		r.logger.Error("failed to initialize projects", zap.Error(err))
		return false
	}

	r.RenderCount(projects)
	r.RenderGrid(projects)
	r.bindModal()
	r.localizer.Initialize()
	return true
}

// Load returns the catalog, fetching it on first use.
func (r *Renderer) Load(ctx context.Context) ([]models.Project, error) {
	projects, err := r.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.projects = projects
	return projects, nil
}

// RenderCount writes the number of projects into the counter.
func (r *Renderer) RenderCount(projects []models.Project) {
	if el := r.doc.ByID(CountID); el != nil {
		el.SetText(strconv.Itoa(len(projects)))
	}
}

// RenderGrid replaces the grid with one card per project, in catalog order.
func (r *Renderer) RenderGrid(projects []models.Project) {
	grid := r.doc.ByID(GridID)
	if grid == nil {
		return
	}

	var sb strings.Builder
	for i := range projects {
		p := &projects[i]
		card, err := execute("card", cardData{Project: p, Thumb: imageURL(r.opts.ImageBase, p.Thumbnail())})
		if err != nil {
			r.logger.Error("failed to render project card", zap.Int("id", p.ID), zap.Error(err))
			return
		}
		sb.WriteString(card)
	}
	if err := grid.SetInnerHTML(sb.String()); err != nil {
		r.logger.Error("failed to mount project grid", zap.Error(err))
	}
}

// Find looks a project up by id in the loaded catalog.
func (r *Renderer) Find(id int) (*models.Project, bool) {
	for i := range r.projects {
		if r.projects[i].Is(id) {
			return &r.projects[i], true
		}
	}
	return nil, false
}

// OpenDetail fills the modal with the project and shows it. Unknown ids are
// ignored. It reports whether a project was shown.
func (r *Renderer) OpenDetail(id int) bool {
	p, ok := r.Find(id)
	if !ok {
		r.logger.Debug("project not found", zap.Int("id", id))
		return false
	}

	r.fillDetail(p)

	modal := r.doc.ByID(ModalID)
	if modal != nil {
		r.localizer.Hydrate(modal)
		r.localizer.ApplyAttributeTranslations()
		if r.opts.Modal != nil {
			r.opts.Modal.Show(modal)
		}
	}
	return true
}

func (r *Renderer) fillDetail(p *models.Project) {
	r.setFragment(TitleID, "title", p)
	r.setFragment(SkillsID, "skills", p)
	r.setFragment(DescID, "description", p)
	r.RenderCarousel(p)
}

func (r *Renderer) setFragment(id, name string, p *models.Project) {
	el := r.doc.ByID(id)
	if el == nil {
		return
	}
	markup, err := execute(name, p)
	if err != nil {
		r.logger.Error("failed to render detail", zap.String("part", name), zap.Error(err))
		return
	}
	if err := el.SetInnerHTML(markup); err != nil {
		r.logger.Error("failed to mount detail", zap.String("part", name), zap.Error(err))
	}
}

// RenderCarousel emits one indicator and one slide per image, the first one
// active, and rewinds the carousel widget when there is one. A project
// without images gets a single placeholder slide.
func (r *Renderer) RenderCarousel(p *models.Project) {
	indicators, slides := r.doc.ByID(IndicatorsID), r.doc.ByID(SlidesID)
	if indicators == nil || slides == nil {
		return
	}

	images := make([]string, 0, len(p.Image))
	for _, file := range p.Image {
		images = append(images, imageURL(r.opts.ImageBase, file))
	}
	data := carouselData{Project: p, Images: images}

	indMarkup, err := execute("indicators", data)
	if err != nil {
		r.logger.Error("failed to render carousel", zap.Error(err))
		return
	}
	slideMarkup, err := execute("slides", data)
	if err != nil {
		r.logger.Error("failed to render carousel", zap.Error(err))
		return
	}
	if err := indicators.SetInnerHTML(indMarkup); err != nil {
		r.logger.Error("failed to mount carousel", zap.Error(err))
		return
	}
	if err := slides.SetInnerHTML(slideMarkup); err != nil {
		r.logger.Error("failed to mount carousel", zap.Error(err))
		return
	}

	carousel := r.doc.ByID(CarouselID)
	if carousel == nil {
		return
	}
	for _, sel := range []string{".carousel-control-prev", ".carousel-control-next"} {
		for _, ctl := range carousel.SelectAll(sel) {
			if len(images) > 1 {
				ctl.RemoveAttr("style")
			} else {
				ctl.SetAttr("style", "display:none")
			}
		}
	}
	if r.opts.Carousel != nil {
		r.opts.Carousel.To(carousel, 0)
	}
}

// ResetDetail clears the injected carousel, skills and description so a
// stale project never shows when the modal reopens.
func (r *Renderer) ResetDetail() {
	for _, id := range []string{IndicatorsID, SlidesID, SkillsID, DescID} {
		if el := r.doc.ByID(id); el != nil {
			_ = el.SetInnerHTML("")
		}
	}
}

func (r *Renderer) bindModal() {
	modal := r.doc.ByID(ModalID)
	if modal == nil {
		return
	}
	if r.opts.Modal == nil {
		r.logger.Warn("modal widget unavailable, project details disabled")
		return
	}
	if modal.GetAttr(boundMarker) == "1" {
		return
	}
	modal.SetAttr(boundMarker, "1")

	r.doc.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		btn := ev.Target.Closest(detailSelector)
		if btn == nil {
			return
		}
		raw, ok := btn.Attr("data-project-id")
		if !ok {
			raw = btn.GetAttr("data-proyek-id")
		}
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return
		}
		ev.PreventDefault()
		r.OpenDetail(id)
	})
	modal.AddEventListener(EventModalHidden, func(*dom.Event) { r.ResetDetail() })
}
