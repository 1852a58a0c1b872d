package projects

import (
	"strconv"

	"karya.dev/internal/dom"
)

// EventModalHidden fires on the modal element once it has been closed.
const EventModalHidden = "hidden.bs.modal"

// Modal shows a dialog element.
type Modal interface {
	Show(el *dom.Element)
}

// Carousel moves a carousel element to a slide.
type Carousel interface {
	To(el *dom.Element, index int)
}

// StaticModal renders a dialog in its open state, the way the browser widget
// leaves it after showing.
type StaticModal struct{}

// Show marks the dialog open.
func (StaticModal) Show(el *dom.Element) {
	el.AddClass("show")
	el.SetAttr("style", "display: block;")
	el.SetAttr("role", "dialog")
	el.SetAttr("aria-modal", "true")
	el.RemoveAttr("aria-hidden")
}

// Hide reverts Show and dispatches EventModalHidden.
func (StaticModal) Hide(el *dom.Element) {
	el.RemoveClass("show")
	el.SetAttr("style", "display: none;")
	el.SetAttr("aria-hidden", "true")
	el.RemoveAttr("aria-modal")
	el.Dispatch(&dom.Event{Type: EventModalHidden})
}

// StaticCarousel activates a slide by toggling classes.
type StaticCarousel struct{}

// To marks slide index and its indicator active.
func (StaticCarousel) To(el *dom.Element, index int) {
	for i, item := range el.SelectAll(".carousel-item") {
		item.ToggleClass("active", i == index)
	}
	for _, ind := range el.SelectAll("[data-bs-slide-to]") {
		active := ind.GetAttr("data-bs-slide-to") == strconv.Itoa(index)
		ind.ToggleClass("active", active)
		if active {
			ind.SetAttr("aria-current", "true")
		} else {
			ind.RemoveAttr("aria-current")
		}
	}
}
