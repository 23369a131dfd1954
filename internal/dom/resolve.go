package dom

import (
	"github.com/rs/zerolog"

	"github.com/hyperifyio/profilecapture/internal/selectors"
)

// Resolver picks the first expression of a selector set that matches.
type Resolver struct {
	Log zerolog.Logger
}

// One returns the first element matched by the first matching expression in
// set, queried under scope.
func (r Resolver) One(scope Node, set selectors.Set) (Element, bool) {
	els := r.All(scope, set)
	if len(els) == 0 {
		return nil, false
	}
	return els[0], true
}

// All returns every match of the first expression in set that matches at
// least once. Matches from later expressions are never merged in: two
// layouts on one page would duplicate entities.
func (r Resolver) All(scope Node, set selectors.Set) []Element {
	if scope == nil {
		return nil
	}
	for _, expr := range set {
		els, err := scope.Query(expr)
		if err != nil {
			r.Log.Debug().Err(err).Str("selector", expr).Msg("selector skipped")
			continue
		}
		if len(els) > 0 {
			return els
		}
	}
	return nil
}
