package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"karya.dev/internal/config"
	"karya.dev/internal/dom"
	"karya.dev/internal/i18n"
	"karya.dev/internal/models"
)

var siteFiles = map[string]string{
	"index.html": `<html lang="id"><body><div id="siteHeader"></div><h1 data-i18n-id="Beranda" data-i18n-en="Home"></h1></body></html>`,
	"work.html": `<html lang="id"><body><div id="siteHeader"></div>
<span id="projectCount">0</span><section id="workGrid"></section>
<div id="projectModal"><h5 id="pmTitle"></h5><div id="pmCarousel"><div id="pmIndicators"></div><div id="pmSlides"></div></div><div id="pmSkills"></div><div id="pmDesc"></div></div>
</body></html>`,
	"assets/partials/header.html": `<header><nav><a href="index.html">Home</a><a href="work.html">Work</a></nav>` +
		`<div id="langToggle"><button type="button" data-lang="id">ID</button><button type="button" data-lang="en">EN</button></div></header>`,
	"assets/partials/footer.html": `<footer></footer>`,
	"assets/css/site.css":         `body{}`,
	"assets/js/data/proyek.json": `{"proyek":[
  {"A":{"id":1,"title":{"id":"Satu","en":"One"},"image":["1.png"]}},
  {"B":{"id":2,"title":{"id":"Dua","en":"Two"},"skill":["Go"],"image":["2a.png","2b.png"]}}
]}`,
}

func newServer(t *testing.T, files map[string]string) http.Handler {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	siteCfg := config.DefaultSite()
	siteCfg.Pages = []string{"index", "work", "about"}
	return SetupRoutes(&config.Config{SiteDir: dir, Site: siteCfg}, zap.NewNop())
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "id", rec.Header().Get("Content-Language"))
	assert.Contains(t, rec.Body.String(), `<span class="i18n-id">Beranda</span>`)
	assert.Contains(t, rec.Body.String(), `<a href="index.html" class="active">`)

	rec = get(t, h, "/work")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="work.html" class="active">`)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `class="work-card"`))

	assert.Equal(t, http.StatusOK, get(t, h, "/work.html").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/about.html").Code, "configured but no shell")
	assert.Equal(t, http.StatusNotFound, get(t, h, "/secret.html").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/favicon.ico").Code)
}

func TestPageLanguageFromCookie(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/", &http.Cookie{Name: i18n.StorageKey, Value: "en"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Contains(t, rec.Body.String(), `<html lang="en">`)
}

func TestPageLanguageFromQuery(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/?lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en">`)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "en", cookies[0].Value)

	rec = get(t, h, "/?lang=fr")
	assert.Contains(t, rec.Body.String(), `<html lang="id">`)
	assert.Empty(t, rec.Result().Cookies())
}

func TestPageWithProjectDetail(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/work.html?project=2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-bs-slide-to="1"`)
	assert.Contains(t, body, `<span class="badge">Go</span>`)
	assert.Contains(t, body, `aria-modal="true"`)

	rec = get(t, h, "/work.html?project=42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `aria-modal="true"`)
}

func TestPageControlsLinkToRoutes(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/work.html")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := dom.ParseString(rec.Body.String())
	require.NoError(t, err)

	assert.Nil(t, doc.Select("#langToggle button"))
	assert.Equal(t, "/lang/en?next=%2Fwork.html", doc.Select(`#langToggle a[data-lang="en"]`).GetAttr("href"))
	assert.Equal(t, "/lang/id?next=%2Fwork.html", doc.Select(`#langToggle a[data-lang="id"]`).GetAttr("href"))

	detail := doc.Select(`.js-project-detail[data-project-id="2"]`)
	require.NotNil(t, detail)
	assert.Equal(t, "a", detail.Tag())
	assert.Equal(t, "/work.html?project=2", detail.GetAttr("href"))
	assert.False(t, detail.HasAttr("type"))

	// Following the links round-trips through the language route.
	rec = get(t, h, doc.Select(`#langToggle a[data-lang="en"]`).GetAttr("href"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/work.html", rec.Header().Get("Location"))

	rec = get(t, h, detail.GetAttr("href"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aria-modal="true"`)
}

func TestLanguageLinkKeepsProjectAndDropsOverride(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/work.html?project=1&lang=en")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := dom.ParseString(rec.Body.String())
	require.NoError(t, err)

	href := doc.Select(`#langToggle a[data-lang="id"]`).GetAttr("href")
	assert.Equal(t, "/lang/id?next=%2Fwork.html%3Fproject%3D1", href)
	assert.True(t, doc.Select(`#langToggle a[data-lang="en"]`).HasClass(i18n.ActiveClass))

	rec = get(t, h, href)
	assert.Equal(t, "/work.html?project=1", rec.Header().Get("Location"))
}

func TestSetLanguage(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/lang/en-US?next=/work.html")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/work.html", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, i18n.StorageKey, cookies[0].Name)
	assert.Equal(t, "en", cookies[0].Value)

	rec = get(t, h, "/lang/id?next=//evil.example")
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = get(t, h, "/lang/fr")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestProjectsAPI(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/api/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Code)

	rec = get(t, h, "/api/projects/2")
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Two", p.Title.EN)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/projects/9").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/projects/abc").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/health").Code)
}

func TestProjectsAPICatalogMissing(t *testing.T) {
	files := map[string]string{"index.html": siteFiles["index.html"]}
	h := newServer(t, files)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/projects").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/").Code, "pages survive a missing catalog")
}

func TestStaticAssets(t *testing.T) {
	h := newServer(t, siteFiles)

	rec := get(t, h, "/assets/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestRespondJSONLogsThroughInjectedLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	rec := httptest.NewRecorder()
	respondJSON(rec, zap.New(core), http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, logs.FilterMessage("failed to encode JSON").Len())
}
