// Package dom is the rendering target the page components write to.
//
// A Document wraps a parsed golang.org/x/net/html tree and adds the small
// slice of browser behaviour the components rely on: selector lookup,
// attribute and class edits, fragment injection, event bubbling and a
// virtual-time scheduler for animation frames and timeouts. A Document is
// owned by a single goroutine.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
	sched     *Scheduler
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]Listener),
		sched:     NewScheduler(),
	}
}

// Scheduler returns the document's frame and timer queue.
func (d *Document) Scheduler() *Scheduler {
	return d.sched
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	return d.wrap(findAtom(d.root, atom.Html))
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.wrap(findAtom(d.root, atom.Body))
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return d.wrap(found)
}

// Select returns the first element matching sel, or nil.
func (d *Document) Select(sel string) *Element {
	return d.wrap(selectFirst(d.root, mustCompile(sel)))
}

// SelectAll returns every element matching sel in document order.
func (d *Document) SelectAll(sel string) []*Element {
	return d.wrapAll(selectAll(d.root, mustCompile(sel)))
}

// AddEventListener registers a document-level listener. Events dispatched to
// any element reach it after bubbling through the element's ancestors.
func (d *Document) AddEventListener(typ string, fn Listener) {
	d.addListener(d.root, typ, fn)
}

// Render serialises the document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// String renders the document to a string. Render errors yield "".
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// walk visits n and its descendants depth-first. fn returning false stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findAtom(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
