package dom

import "golang.org/x/net/html"

// Event types dispatched by the page components.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
)

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Event is a minimal bubbling DOM event.
type Event struct {
	Type string
	// Key is set for keyboard events.
	Key string

	Target        *Element
	CurrentTarget *Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event as handled.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation prevents further bubbling.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

func (d *Document) addListener(n *html.Node, typ string, fn Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], fn)
}

// ListenerCount returns how many listeners of typ are registered on the
// element, or on the document when el is nil.
func (d *Document) ListenerCount(el *Element, typ string) int {
	n := d.root
	if el != nil {
		n = el.node
	}
	return len(d.listeners[n][typ])
}

func (d *Document) dispatch(target *Element, ev *Event) {
	ev.Target = target
	for n := target.node; n != nil && !ev.stopped; n = n.Parent {
		fns := d.listeners[n][ev.Type]
		if len(fns) == 0 {
			continue
		}
		if n.Type == html.ElementNode {
			ev.CurrentTarget = d.wrap(n)
		} else {
			ev.CurrentTarget = nil
		}
		// Listeners added during dispatch do not run for this event.
		snapshot := append([]Listener(nil), fns...)
		for _, fn := range snapshot {
			fn(ev)
		}
	}
}
