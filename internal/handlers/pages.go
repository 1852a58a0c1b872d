package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"karya.dev/internal/assets"
	"karya.dev/internal/config"
	"karya.dev/internal/i18n"
	"karya.dev/internal/nav"
	"karya.dev/internal/site"
)

// ProjectParam opens a project's detail on page load
const ProjectParam = "project"

// PageHandler renders page shells with their partials and components booted
type PageHandler struct {
	boot   *site.Bootstrapper
	site   *config.SiteConfig
	logger *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(boot *site.Bootstrapper, siteCfg *config.SiteConfig, logger *zap.Logger) *PageHandler {
	return &PageHandler{boot: boot, site: siteCfg, logger: logger.Named("pages")}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index")
}

// Page handles GET /{page} for both "/work" and "/work.html"
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if !strings.HasSuffix(name, ".html") && strings.Contains(name, ".") {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, nav.PageName(name))
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string) {
	if !h.site.HasPage(name) {
		http.NotFound(w, r)
		return
	}

	store := i18n.NewCookieStorage(w, r)
	page, err := h.boot.BootShell(r.Context(), name+".html", r.URL.Path, store)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to boot page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	if code := query.Get(i18n.QueryParam); code != "" {
		page.Localizer.Select(code)
	}
	if raw := query.Get(ProjectParam); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			page.Projects.OpenDetail(id)
		}
	}
	page.Link(requestLinks{path: r.URL.Path, query: query})

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", i18n.Tag(page.Localizer.Lang()).String())
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("failed to write page", zap.Error(err))
	}
}

// requestLinks points page controls at the server's routes
type requestLinks struct {
	path  string
	query url.Values
}

// LanguageURL goes through /lang/{code} and comes back to the same page,
// dropping any ?lang= override
func (l requestLinks) LanguageURL(code string) string {
	next := l.path
	q := url.Values{}
	for k, v := range l.query {
		if k != i18n.QueryParam {
			q[k] = v
		}
	}
	if len(q) > 0 {
		next += "?" + q.Encode()
	}
	return "/lang/" + code + "?next=" + url.QueryEscape(next)
}

// ProjectURL reopens the current page with the project detail shown
func (l requestLinks) ProjectURL(id int) string {
	return l.path + "?" + ProjectParam + "=" + strconv.Itoa(id)
}

// SetLanguage handles GET /lang/{code}: it persists the choice and sends the
// visitor back to the local path in ?next=
func (h *PageHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	code, ok := i18n.ParseTag(chi.URLParam(r, "code"))
	if !ok {
		respondError(w, h.logger, http.StatusBadRequest, "Unsupported language")
		return
	}

	i18n.NewCookieStorage(w, r).Set(i18n.StorageKey, code)
	http.Redirect(w, r, localPath(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// localPath keeps redirects on this site
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
