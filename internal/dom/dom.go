// Package dom is the read-only view of a profile page the extraction engine
// works against. The engine only needs to run query expressions and read text
// and attributes, so tests can swap in in-memory fixtures.
package dom

import (
	"errors"
)

// ErrInvalidSelector wraps a query expression the engine cannot parse.
var ErrInvalidSelector = errors.New("invalid selector")

// Node is anything that can be queried: the whole document or one element.
// Query returns matches in document order, or an error wrapping
// ErrInvalidSelector when expr does not parse.
type Node interface {
	Query(expr string) ([]Element, error)
}

// Element is a matched element. Queries on an element are scoped to its
// descendants.
type Element interface {
	Node
	// Text returns the visible text content, unnormalized.
	Text() string
	Attr(name string) (string, bool)
}

// Document is the page being extracted.
type Document interface {
	Node
	// URL is the address the document was loaded from.
	URL() string
}
