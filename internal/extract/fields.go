package extract

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/pageurl"
	"github.com/hyperifyio/profilecapture/internal/profile"
	"github.com/hyperifyio/profilecapture/internal/selectors"
)

type personName struct {
	full, first, last string
}

// name splits on the first space only when there are at least two tokens.
func (e *Engine) name(doc dom.Document) personName {
	full := e.text(doc, selectors.Name)
	if full == "" {
		return personName{full: profile.UnknownName}
	}
	first, rest, ok := strings.Cut(full, " ")
	if !ok {
		return personName{full: full}
	}
	return personName{full: full, first: first, last: rest}
}

func (e *Engine) avatar(doc dom.Document) string {
	el, ok := e.res.One(doc, e.table.Get(selectors.Avatar))
	if !ok {
		return ""
	}
	var src string
	for _, attr := range []string{"src", "data-delayed-url", "data-src"} {
		if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			break
		}
	}
	if src == "" {
		return ""
	}
	lower := strings.ToLower(src)
	for _, marker := range e.limits.AvatarPlaceholders {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			e.log.Debug().Str("src", src).Msg("placeholder avatar ignored")
			return ""
		}
	}
	return src
}

// canonicalURL prefers the page-declared canonical link over the document URL.
func (e *Engine) canonicalURL(doc dom.Document) string {
	raw := doc.URL()
	if el, ok := e.res.One(doc, e.table.Get(selectors.Canonical)); ok {
		if href, ok := el.Attr("href"); ok && strings.TrimSpace(href) != "" {
			raw = resolveAgainst(raw, strings.TrimSpace(href))
		}
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return pageurl.Canonicalize(raw)
}

func publicIdentifier(canonical string) (string, bool) {
	if canonical == "" {
		return "", false
	}
	return pageurl.Identifier(canonical)
}

func resolveAgainst(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return href
	}
	return b.ResolveReference(ref).String()
}
