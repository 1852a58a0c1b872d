package nav

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"karya.dev/internal/dom"
)

// ActiveClass marks the header link for the current page.
const ActiveClass = "active"

const headerLinks = "header a[href]"

// PageName derives a logical page name from a URL path or href:
// "/work.html" and "/work" give "work", "/" gives "index".
func PageName(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	last := strings.ToLower(p[strings.LastIndex(p, "/")+1:])
	last = strings.TrimSuffix(last, ".html")
	if last == "" {
		return "index"
	}
	return last
}

// MarkActiveLinks toggles ActiveClass on header links whose .html target
// names the current page. It returns the number of links marked active.
func MarkActiveLinks(doc *dom.Document, currentPath string) int {
	current := PageName(currentPath)
	marked := 0
	for _, a := range doc.SelectAll(headerLinks) {
		href := strings.ToLower(strings.TrimSpace(a.GetAttr("href")))
		if !strings.HasSuffix(href, ".html") {
			continue
		}
		on := PageName(href) == current
		a.ToggleClass(ActiveClass, on)
		if on {
			marked++
		}
	}
	return marked
}

// Init wires the menu if present and marks the active link. The returned
// menu is nil on pages without the mobile menu.
func Init(doc *dom.Document, currentPath string, closeDelay time.Duration, logger *zap.Logger) *Menu {
	logger = logger.Named("nav")
	menu := NewMenu(doc, closeDelay, logger)
	if menu != nil {
		menu.Bind()
	}
	marked := MarkActiveLinks(doc, currentPath)
	logger.Debug("active links marked", zap.String("page", PageName(currentPath)), zap.Int("active", marked))
	return menu
}
