package site

import (
	"strconv"
	"strings"

	"karya.dev/internal/i18n"
)

const (
	langControls   = "#" + i18n.ToggleID + " [" + i18n.AttrLang + "]"
	detailControls = ".js-project-detail[data-project-id]"
)

// Linker maps the page's interactive controls onto URLs, so a visitor
// without scripts can still switch language and open a project.
type Linker interface {
	// LanguageURL returns the URL that shows the current page in code.
	LanguageURL(code string) string
	// ProjectURL returns the URL that opens project id, or "" when details
	// have no URL of their own.
	ProjectURL(id int) string
}

// Link turns the language buttons and the project detail buttons into
// anchors pointing at l's URLs. It returns the number of controls linked.
func (p *Page) Link(l Linker) int {
	linked := 0
	for _, el := range p.Doc.SelectAll(langControls) {
		code, ok := i18n.ParseCode(el.GetAttr(i18n.AttrLang))
		if !ok {
			continue
		}
		href := l.LanguageURL(code)
		if href == "" {
			continue
		}
		el.SetTag("a")
		el.RemoveAttr("type")
		el.SetAttr("href", href)
		el.SetAttr("hreflang", code)
		linked++
	}
	for _, el := range p.Doc.SelectAll(detailControls) {
		id, err := strconv.Atoi(strings.TrimSpace(el.GetAttr("data-project-id")))
		if err != nil {
			continue
		}
		href := l.ProjectURL(id)
		if href == "" {
			continue
		}
		el.SetTag("a")
		el.RemoveAttr("type")
		el.SetAttr("href", href)
		el.SetAttr("role", "button")
		linked++
	}
	return linked
}
