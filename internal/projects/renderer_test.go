package projects

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"karya.dev/internal/assets"
	"karya.dev/internal/dom"
	"karya.dev/internal/i18n"
	"karya.dev/internal/services"
)

const workPage = `<html lang="id"><body>
<span id="projectCount">0</span>
<section id="workGrid"><p class="placeholder">loading</p></section>
<div id="projectModal" class="modal" aria-hidden="true">
  <h5 id="pmTitle"></h5>
  <div id="pmCarousel" class="carousel">
    <div id="pmIndicators" class="carousel-indicators"></div>
    <div id="pmSlides" class="carousel-inner"></div>
    <button class="carousel-control-prev"></button>
    <button class="carousel-control-next"></button>
  </div>
  <div id="pmSkills"></div>
  <div id="pmDesc"></div>
</div>
</body></html>`

const twoProjects = `{"proyek":[
  {"PJK-1": {"id": 1, "title": {"id": "Satu", "en": "One"}, "slug": {"id": "<p>s1</p>", "en": "<p>e1</p>"},
             "description": {"id": "d1", "en": "e1"}, "skill": ["Go"], "image": ["one.png"]}},
  {"PJK-2": {"id": 2, "title": {"id": "Dua <2>", "en": "Two"}, "slug": {"id": "s2", "en": "e2"},
             "description": {"id": "<p>Deskripsi</p>", "en": "<p>Description</p>"},
             "skill": ["Go", "HTML & CSS", "<script>"], "image": ["a.png", "b c.png", "c.png"]}}
]}`

type fixture struct {
	doc      *dom.Document
	renderer *Renderer
	loc      *i18n.Localizer
}

func newFixture(t *testing.T, catalog string, opts Options, logger *zap.Logger) fixture {
	t.Helper()
	doc, err := dom.ParseString(workPage)
	require.NoError(t, err)

	files := fstest.MapFS{}
	if catalog != "" {
		files["assets/js/data/proyek.json"] = &fstest.MapFile{Data: []byte(catalog)}
	}
	svc := services.NewProjectService(assets.NewFSFetcher(files), "assets/js/data/proyek.json")
	loc := i18n.NewLocalizer(doc, i18n.NewMemoryStorage(), logger)
	return fixture{doc: doc, renderer: NewRenderer(doc, svc, loc, opts, logger), loc: loc}
}

func widgets() Options {
	return Options{Modal: StaticModal{}, Carousel: StaticCarousel{}}
}

func TestInitRendersGridAndCount(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))

	assert.Equal(t, "2", f.doc.ByID(CountID).Text())

	cards := f.doc.SelectAll("#workGrid article.work-card")
	require.Len(t, cards, 2)
	assert.Nil(t, f.doc.Select("#workGrid .placeholder"))

	first := cards[0]
	assert.Equal(t, "assets/img/one.png", first.Select("img.thumb").GetAttr("src"))
	assert.Equal(t, "lazy", first.Select("img.thumb").GetAttr("loading"))
	assert.Equal(t, "1", first.Select("[data-project-id]").GetAttr("data-project-id"))
	assert.Equal(t, "SatuOne", first.Select(".work-title").Text(), "hydrated after render")
	assert.NotNil(t, first.Select(".work-meta .i18n-en p"), "slug markup is raw")

	tags := cards[1].SelectAll(".tags .tag")
	require.Len(t, tags, 3)
	assert.Equal(t, "<script>", tags[2].Text())
	assert.Nil(t, cards[1].Select(".tags script"))
}

func TestOpenDetail(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))

	require.True(t, f.renderer.OpenDetail(2))

	assert.Equal(t, "Dua <2>Two", f.doc.ByID(TitleID).Text())

	badges := f.doc.SelectAll("#pmSkills .badge")
	require.Len(t, badges, 3)
	assert.Equal(t, "HTML & CSS", badges[1].Text())

	assert.Equal(t, "Description", f.doc.Select("#pmDesc .i18n-en p").Text())

	indicators := f.doc.SelectAll("#pmIndicators [data-bs-slide-to]")
	slides := f.doc.SelectAll("#pmSlides .carousel-item")
	assert.Len(t, indicators, 3)
	assert.Len(t, slides, 3)
	assert.True(t, slides[0].HasClass("active"))
	assert.False(t, slides[1].HasClass("active"))
	assert.Equal(t, "assets/img/b%20c.png", slides[1].Select("img").GetAttr("src"))
	assert.Empty(t, f.doc.Select(".carousel-control-next").GetAttr("style"))

	modal := f.doc.ByID(ModalID)
	assert.True(t, modal.HasClass("show"))
	assert.False(t, modal.HasAttr("aria-hidden"))
}

func TestOpenDetailUnknownID(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))
	before := f.doc.String()

	assert.False(t, f.renderer.OpenDetail(99))
	assert.Equal(t, before, f.doc.String())
}

func TestProjectWithoutIDIsNotAddressable(t *testing.T) {
	f := newFixture(t, `{"proyek":[{"X":{"title":{"id":"Tanpa","en":"None"}}},{"Y":{"id":2.5}}]}`, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))

	require.Len(t, f.doc.SelectAll("#workGrid article.work-card"), 2)
	assert.Nil(t, f.doc.Select("#workGrid [data-project-id]"))

	assert.False(t, f.renderer.OpenDetail(0))
	assert.False(t, f.renderer.OpenDetail(2))
	assert.False(t, f.doc.ByID(ModalID).HasClass("show"))
}

func TestDetailButtonClick(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))

	ev := f.doc.Select(`#workGrid [data-project-id="1"]`).Click()
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "SatuOne", f.doc.ByID(TitleID).Text())
	assert.Len(t, f.doc.SelectAll("#pmSlides .carousel-item"), 1)
	assert.Equal(t, "display:none", f.doc.Select(".carousel-control-prev").GetAttr("style"))

	require.NoError(t, f.doc.Body().AppendHTML(`<a href="#" id="legacy" data-proyek-id="2">Details</a>`))
	f.doc.ByID("legacy").Click()
	assert.Equal(t, "Dua <2>Two", f.doc.ByID(TitleID).Text())
}

func TestModalHiddenResetsDetail(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))
	require.True(t, f.renderer.OpenDetail(2))

	StaticModal{}.Hide(f.doc.ByID(ModalID))

	for _, id := range []string{IndicatorsID, SlidesID, SkillsID, DescID} {
		assert.False(t, f.doc.ByID(id).HasChildNodes(), id)
	}
	assert.False(t, f.doc.ByID(ModalID).HasClass("show"))
}

func TestProjectWithoutImages(t *testing.T) {
	f := newFixture(t, `{"proyek":[{"X":{"id":3,"title":{"id":"T","en":"T"}}}]}`, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))

	assert.Nil(t, f.doc.Select("#workGrid img"))
	require.True(t, f.renderer.OpenDetail(3))
	assert.Empty(t, f.doc.SelectAll("#pmIndicators button"))
	slides := f.doc.SelectAll("#pmSlides .carousel-item")
	require.Len(t, slides, 1)
	assert.NotNil(t, slides[0].Select(".carousel-empty .i18n-en"))
}

func TestInitWithoutWidgets(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(t, twoProjects, Options{}, zap.New(core))
	require.True(t, f.renderer.Init(context.Background()))

	assert.Len(t, f.doc.SelectAll("#workGrid article"), 2)
	assert.Equal(t, 1, logs.FilterMessage("modal widget unavailable, project details disabled").Len())

	f.doc.Select(`[data-project-id="2"]`).Click()
	assert.False(t, f.doc.ByID(TitleID).HasChildNodes())

	require.True(t, f.renderer.OpenDetail(2), "direct calls still fill the modal")
	assert.Len(t, f.doc.SelectAll("#pmSlides .carousel-item"), 3)
	assert.False(t, f.doc.ByID(ModalID).HasClass("show"))
}

func TestInitCatalogFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	f := newFixture(t, "", widgets(), zap.New(core))
	before := f.doc.String()

	assert.False(t, f.renderer.Init(context.Background()))
	assert.Equal(t, before, f.doc.String())
	assert.Equal(t, 1, logs.Len())
}

func TestInitSkipsPagesWithoutAnchors(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><p>about</p></body></html>`)
	require.NoError(t, err)
	svc := services.NewProjectService(assets.NewFSFetcher(fstest.MapFS{}), "missing.json")
	r := NewRenderer(doc, svc, i18n.NewLocalizer(doc, i18n.NewMemoryStorage(), zap.NewNop()), widgets(), zap.NewNop())

	assert.False(t, r.Init(context.Background()))
}

func TestModalBindsOnce(t *testing.T) {
	f := newFixture(t, twoProjects, widgets(), zap.NewNop())
	require.True(t, f.renderer.Init(context.Background()))
	require.True(t, f.renderer.Init(context.Background()))

	assert.Equal(t, 1, f.doc.ListenerCount(f.doc.ByID(ModalID), EventModalHidden))
	assert.Len(t, f.doc.SelectAll("#workGrid article"), 2)
}
