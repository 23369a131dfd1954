package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// HTMLDocument is a Document backed by a parsed HTML tree.
type HTMLDocument struct {
	doc *goquery.Document
	url string
}

// Parse reads HTML from r. pageURL is reported by URL and used as the
// canonical URL fallback.
func Parse(r io.Reader, pageURL string) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: goquery.NewDocumentFromNode(root), url: pageURL}, nil
}

// URL implements Document.
func (d *HTMLDocument) URL() string { return d.url }

// Query implements Node.
func (d *HTMLDocument) Query(expr string) ([]Element, error) {
	return query(d.doc.Selection, expr)
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Query(expr string) ([]Element, error) {
	return query(e.sel, expr)
}

func (e htmlElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e htmlElement) Text() string {
	var b strings.Builder
	for _, n := range e.sel.Nodes {
		visibleText(&b, n)
	}
	return b.String()
}

func query(scope *goquery.Selection, expr string) ([]Element, error) {
	m, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, expr, err)
	}
	found := scope.FindMatcher(m)
	out := make([]Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlElement{sel: s})
	})
	return out, nil
}

// visibleText collects text nodes under n, skipping scripts and the
// screen-reader copies the site renders next to every visible label.
func visibleText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		case "br", "p", "li", "div":
			b.WriteString(" ")
		}
		if hasClass(n, "visually-hidden") {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(b, c)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
