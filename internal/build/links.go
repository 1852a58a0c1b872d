package build

import (
	"net/url"
	"path"
	"strings"

	"karya.dev/internal/dom"
	"karya.dev/internal/i18n"
)

// staticLinks points the language toggle at the sibling file of the other
// language. Project details have no page of their own in a static build.
type staticLinks struct {
	page string
	lang string
}

func (l staticLinks) LanguageURL(code string) string {
	switch {
	case code == l.lang:
		return l.page
	case code == i18n.English:
		return i18n.English + "/" + l.page
	default:
		return "../" + l.page
	}
}

func (l staticLinks) ProjectURL(int) string {
	return ""
}

// urlAttrs are the attributes relocate rewrites.
var urlAttrs = []string{"href", "src"}

// relocate prefixes every relative resource URL in doc so it still resolves
// when the page is written prefix levels below the site root. Links to other
// pages are left alone: the language directory holds its own copies.
func relocate(doc *dom.Document, prefix string) int {
	changed := 0
	for _, key := range urlAttrs {
		for _, el := range doc.SelectAll("[" + key + "]") {
			raw := el.GetAttr(key)
			if !relativeResource(el.Tag(), key, raw) {
				continue
			}
			el.SetAttr(key, prefix+raw)
			changed++
		}
	}
	return changed
}

func relativeResource(tag, key, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "?") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	if key == "href" && tag == "a" && path.Ext(u.Path) == ".html" {
		return false
	}
	return true
}
