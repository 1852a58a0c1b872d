package i18n

import (
	"strings"

	"go.uber.org/zap"

	"karya.dev/internal/dom"
)

// Data attributes understood by the hydrator.
const (
	AttrID       = "data-i18n-id"
	AttrEN       = "data-i18n-en"
	AttrTarget   = "data-i18n-attr"
	AttrRaw      = "data-i18n-html"
	AttrHydrated = "data-i18n-hydrated"
	AttrLang     = "data-lang"
)

// ToggleID is the container of the language buttons.
const ToggleID = "langToggle"

// ActiveClass marks the button of the active language.
const ActiveClass = "is-active"

const (
	bilingualSelector = "[data-i18n-id][data-i18n-en]"
	attributeSelector = "[data-i18n-attr][data-i18n-id][data-i18n-en]"
	boundMarker       = "data-bound"
)

// Localizer owns the language state of one document.
type Localizer struct {
	doc    *dom.Document
	store  Storage
	logger *zap.Logger
	lang   string
}

// NewLocalizer creates a Localizer. The language stays at Default until
// Initialize resolves it.
func NewLocalizer(doc *dom.Document, store Storage, logger *zap.Logger) *Localizer {
	return &Localizer{
		doc:    doc,
		store:  store,
		logger: logger.Named("i18n"),
		lang:   Default,
	}
}

// Lang returns the active language code.
func (l *Localizer) Lang() string {
	return l.lang
}

// Initialize resolves the language, hydrates every bilingual node, applies
// attribute translations and wires the toggle. Safe to call again after new
// bilingual content is inserted.
func (l *Localizer) Initialize() {
	l.lang = l.resolve()
	l.reflectDocumentLang()
	l.Hydrate(nil)
	l.ApplyAttributeTranslations()
	l.wireToggle()
	l.reflectToggle()
}

// resolve prefers the stored code, then <html lang>, then Default.
func (l *Localizer) resolve() string {
	if code, ok := ParseCode(l.store.Get(StorageKey)); ok {
		return code
	}
	if root := l.doc.DocumentElement(); root != nil {
		return Coerce(root.GetAttr("lang"))
	}
	return Default
}

// SetLanguage switches to English for "en" and to the default language for
// anything else, persisting the choice. Node content is not re-hydrated;
// both languages are already present and CSS picks one.
func (l *Localizer) SetLanguage(next string) {
	l.lang = Coerce(next)
	l.store.Set(StorageKey, l.lang)
	l.reflectDocumentLang()
	l.ApplyAttributeTranslations()
	l.reflectToggle()
	l.logger.Debug("language set", zap.String("lang", l.lang))
}

// Select is the user-facing switch: unknown codes are rejected and leave the
// language unchanged. It reports whether the code was accepted.
func (l *Localizer) Select(code string) bool {
	next, ok := ParseCode(code)
	if !ok {
		l.logger.Debug("rejected language", zap.String("code", code))
		return false
	}
	if next != l.lang {
		l.SetLanguage(next)
	}
	return true
}

// Hydrate expands bilingual nodes under root (the whole document when root
// is nil) into one child per language. Nodes carrying the hydrated marker
// are skipped, so repeated calls never duplicate content.
func (l *Localizer) Hydrate(root *dom.Element) int {
	var nodes []*dom.Element
	if root == nil {
		nodes = l.doc.SelectAll(bilingualSelector)
	} else {
		nodes = root.SelectAll(bilingualSelector)
		if root.Matches(bilingualSelector) {
			nodes = append([]*dom.Element{root}, nodes...)
		}
	}

	hydrated := 0
	for _, el := range nodes {
		if el.GetAttr(AttrHydrated) == "1" {
			continue
		}
		if el.GetAttr(AttrTarget) != "" {
			el.SetAttr(AttrHydrated, "1")
			continue
		}
		if !hasMeaningfulContent(el) {
			if err := el.SetInnerHTML(bilingualMarkup(el)); err != nil {
				l.logger.Warn("failed to hydrate node", zap.Error(err))
				continue
			}
		}
		el.SetAttr(AttrHydrated, "1")
		hydrated++
	}
	return hydrated
}

// ApplyAttributeTranslations writes the active language's text into the
// attribute each attribute-target node names.
func (l *Localizer) ApplyAttributeTranslations() {
	for _, el := range l.doc.SelectAll(attributeSelector) {
		target := el.GetAttr(AttrTarget)
		if target == "" {
			continue
		}
		if l.lang == English {
			el.SetAttr(target, el.GetAttr(AttrEN))
		} else {
			el.SetAttr(target, el.GetAttr(AttrID))
		}
	}
}

func (l *Localizer) wireToggle() {
	wrap := l.doc.ByID(ToggleID)
	if wrap == nil || wrap.GetAttr(boundMarker) == "1" {
		return
	}
	wrap.SetAttr(boundMarker, "1")
	wrap.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		btn := ev.Target.Closest("[data-lang]")
		if btn == nil || !wrap.Contains(btn) {
			return
		}
		ev.PreventDefault()
		l.Select(btn.GetAttr(AttrLang))
	})
}

func (l *Localizer) reflectToggle() {
	wrap := l.doc.ByID(ToggleID)
	if wrap == nil {
		return
	}
	btnID := wrap.Select(`[data-lang="id"]`)
	btnEN := wrap.Select(`[data-lang="en"]`)
	if btnID == nil || btnEN == nil {
		return
	}
	btnID.ToggleClass(ActiveClass, l.lang == Indonesian)
	btnEN.ToggleClass(ActiveClass, l.lang == English)
}

func (l *Localizer) reflectDocumentLang() {
	if root := l.doc.DocumentElement(); root != nil {
		root.SetAttr("lang", l.lang)
	}
}

func hasMeaningfulContent(el *dom.Element) bool {
	return el.HasChildNodes() && strings.TrimSpace(el.Text()) != ""
}

func bilingualMarkup(el *dom.Element) string {
	idText, enText := el.GetAttr(AttrID), el.GetAttr(AttrEN)
	if el.GetAttr(AttrRaw) != "true" {
		idText, enText = Escape(idText), Escape(enText)
	}
	return `<span class="i18n-id">` + idText + `</span><span class="i18n-en">` + enText + `</span>`
}
