// Package nav wires the mobile menu and marks the active header link.
package nav

import (
	"time"

	"go.uber.org/zap"

	"karya.dev/internal/dom"
)

// DefaultCloseDelay matches the CSS transition on #mobileMenu.
const DefaultCloseDelay = 200 * time.Millisecond

// Element ids and classes shared with the header partial and stylesheet.
const (
	ToggleID    = "btnMenu"
	MenuID      = "mobileMenu"
	OverlayID   = "navOverlay"
	OpenClass   = "is-open"
	BodyClass   = "nav-open"
	boundMarker = "data-bound"
)

// State is the mobile menu's position in its open/close animation.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Menu drives the mobile menu of one document.
type Menu struct {
	doc        *dom.Document
	toggle     *dom.Element
	menu       *dom.Element
	overlay    *dom.Element
	closeDelay time.Duration
	logger     *zap.Logger

	state      State
	cancelHide func()
}

// NewMenu returns nil when the page lacks the menu anchors.
func NewMenu(doc *dom.Document, closeDelay time.Duration, logger *zap.Logger) *Menu {
	toggle, menu, overlay := doc.ByID(ToggleID), doc.ByID(MenuID), doc.ByID(OverlayID)
	if toggle == nil || menu == nil || overlay == nil {
		return nil
	}
	if closeDelay <= 0 {
		closeDelay = DefaultCloseDelay
	}
	m := &Menu{
		doc:        doc,
		toggle:     toggle,
		menu:       menu,
		overlay:    overlay,
		closeDelay: closeDelay,
		logger:     logger,
	}
	if m.expanded() {
		m.state = Open
	}
	return m
}

// State returns the current animation state.
func (m *Menu) State() State {
	return m.state
}

// Bind attaches the listeners once. Later calls on the same document find the
// marker on the toggle button and return false.
func (m *Menu) Bind() bool {
	if m.toggle.GetAttr(boundMarker) == "1" {
		return false
	}
	m.toggle.SetAttr(boundMarker, "1")

	m.toggle.AddEventListener(dom.EventClick, func(*dom.Event) { m.Toggle() })
	m.overlay.AddEventListener(dom.EventClick, func(*dom.Event) { m.Close() })
	m.menu.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		if ev.Target.Closest("a") != nil {
			m.Close()
		}
	})
	m.doc.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key == "Escape" && m.expanded() {
			m.Close()
		}
	})
	return true
}

// Toggle opens a closed menu and closes an open one, keyed off aria-expanded.
func (m *Menu) Toggle() {
	if m.expanded() {
		m.Close()
		return
	}
	m.Open()
}

// Open shows the menu and overlay and adds the open class on the next frame.
func (m *Menu) Open() {
	if m.expanded() {
		return
	}
	if m.cancelHide != nil {
		m.cancelHide()
		m.cancelHide = nil
	}
	m.state = Opening
	m.toggle.SetAttr("aria-expanded", "true")
	m.menu.SetHidden(false)
	m.overlay.SetHidden(false)
	if body := m.doc.Body(); body != nil {
		body.AddClass(BodyClass)
	}
	m.doc.Scheduler().RequestAnimationFrame(func() {
		if m.state != Opening {
			return
		}
		m.menu.AddClass(OpenClass)
		m.state = Open
	})
	m.logger.Debug("menu opening")
}

// Close removes the open class now and hides the elements after the
// transition delay.
func (m *Menu) Close() {
	if !m.expanded() {
		return
	}
	m.state = Closing
	m.toggle.SetAttr("aria-expanded", "false")
	m.menu.RemoveClass(OpenClass)
	if body := m.doc.Body(); body != nil {
		body.RemoveClass(BodyClass)
	}
	m.cancelHide = m.doc.Scheduler().SetTimeout(m.closeDelay, func() {
		m.cancelHide = nil
		m.menu.SetHidden(true)
		m.overlay.SetHidden(true)
		m.state = Closed
	})
	m.logger.Debug("menu closing")
}

func (m *Menu) expanded() bool {
	return m.toggle.GetAttr("aria-expanded") == "true"
}
