// Package i18n hydrates bilingual (Indonesian/English) page content and keeps
// the visitor's language preference.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported language codes.
const (
	Indonesian = "id"
	English    = "en"
	// Default is used when neither storage nor the document names a language.
	Default = Indonesian
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "site_lang"

// QueryParam switches the language from a page URL.
const QueryParam = "lang"

// Tag returns the BCP 47 tag for a supported code.
func Tag(code string) language.Tag {
	if code == English {
		return language.English
	}
	return language.Indonesian
}

// ParseCode accepts exactly "id" or "en", ignoring case and surrounding space.
func ParseCode(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Indonesian:
		return Indonesian, true
	case English:
		return English, true
	}
	return "", false
}

// ParseTag maps a BCP 47 tag such as "en-US" or "id-ID" onto a supported
// code by its base language.
func ParseTag(s string) (string, bool) {
	if code, ok := ParseCode(s); ok {
		return code, true
	}
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	return ParseCode(base.String())
}

// Coerce maps anything other than English onto the default language.
func Coerce(s string) string {
	if code, _ := ParseCode(s); code == English {
		return English
	}
	return Default
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces the five HTML-significant characters with entities. The
// replacement is a single pass, so entities it emits are never re-escaped.
func Escape(s string) string {
	return escaper.Replace(s)
}
