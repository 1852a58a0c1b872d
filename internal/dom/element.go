package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a handle on an element node. Two handles on the same node are
// interchangeable.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Is reports whether both handles point at the same node.
func (e *Element) Is(other *Element) bool {
	return other != nil && e.node == other.node
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// SetTag renames the element, keeping its attributes, children and listeners.
func (e *Element) SetTag(name string) {
	name = strings.ToLower(name)
	e.node.Data = name
	e.node.DataAtom = atom.Lookup([]byte(name))
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	return lookupAttr(e.node, key)
}

// GetAttr returns the attribute value or "".
func (e *Element) GetAttr(key string) string {
	return attr(e.node, key)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := lookupAttr(e.node, key)
	return ok
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// Classes returns the class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.GetAttr("class"))
}

// HasClass reports class membership.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds a class if missing.
func (e *Element) AddClass(name string) {
	e.ToggleClass(name, true)
}

// RemoveClass removes a class if present.
func (e *Element) RemoveClass(name string) {
	e.ToggleClass(name, false)
}

// ToggleClass forces the class on or off.
func (e *Element) ToggleClass(name string, on bool) {
	classes := e.Classes()
	out := classes[:0]
	present := false
	for _, c := range classes {
		if c == name {
			if !on || present {
				continue
			}
			present = true
		}
		out = append(out, c)
	}
	if on && !present {
		out = append(out, name)
	}
	if len(out) == 0 {
		if e.HasAttr("class") {
			e.SetAttr("class", "")
		}
		return
	}
	e.SetAttr("class", strings.Join(out, " "))
}

// Hidden reports the hidden attribute.
func (e *Element) Hidden() bool {
	return e.HasAttr("hidden")
}

// SetHidden toggles the hidden attribute.
func (e *Element) SetHidden(hidden bool) {
	if hidden {
		e.SetAttr("hidden", "")
		return
	}
	e.RemoveAttr("hidden")
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(s string) {
	e.clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// HasChildNodes reports whether the element has any child node.
func (e *Element) HasChildNodes() bool {
	return e.node.FirstChild != nil
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Parent returns the parent element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// InnerHTML serialises the children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// SetInnerHTML parses markup in the context of the element and replaces its
// children with the result. On a parse error the element is left unchanged.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	e.clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendHTML parses markup and appends it after the existing children.
func (e *Element) AppendHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// Select returns the first descendant matching sel, or nil.
func (e *Element) Select(sel string) *Element {
	return e.doc.wrap(selectFirst(e.node, mustCompile(sel)))
}

// SelectAll returns descendants matching sel in document order.
func (e *Element) SelectAll(sel string) []*Element {
	return e.doc.wrapAll(selectAll(e.node, mustCompile(sel)))
}

// Matches reports whether the element matches sel.
func (e *Element) Matches(sel string) bool {
	return e.node.Type == html.ElementNode && mustCompile(sel).Match(e.node)
}

// Closest returns the element itself or its nearest ancestor matching sel.
func (e *Element) Closest(sel string) *Element {
	s := mustCompile(sel)
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Contains reports whether other is the element or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// AddEventListener registers a listener on the element.
func (e *Element) AddEventListener(typ string, fn Listener) {
	e.doc.addListener(e.node, typ, fn)
}

// Dispatch sends ev to the element and bubbles it up to the document.
func (e *Element) Dispatch(ev *Event) {
	e.doc.dispatch(e, ev)
}

// Click dispatches a click event.
func (e *Element) Click() *Event {
	ev := &Event{Type: EventClick}
	e.Dispatch(ev)
	return ev
}

func (e *Element) clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}
