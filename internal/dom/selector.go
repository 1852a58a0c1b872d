package dom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	selectorCacheMu sync.Mutex
	selectorCache   = map[string]cascadia.SelectorGroup{}
)

// mustCompile parses sel, caching the result. Selectors in this module are
// constants, so an invalid one is a programming error.
func mustCompile(sel string) cascadia.SelectorGroup {
	selectorCacheMu.Lock()
	defer selectorCacheMu.Unlock()
	if s, ok := selectorCache[sel]; ok {
		return s
	}
	s, err := cascadia.ParseGroup(sel)
	if err != nil {
		panic(err)
	}
	selectorCache[sel] = s
	return s
}

// ValidSelector reports whether sel parses as a selector group.
func ValidSelector(sel string) error {
	_, err := cascadia.ParseGroup(sel)
	return err
}

// selectFirst searches descendants of root, excluding root itself.
func selectFirst(root *html.Node, m cascadia.Matcher) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && m.Match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func selectAll(root *html.Node, m cascadia.Matcher) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && m.Match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
