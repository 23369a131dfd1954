package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/selectors"
)

// pageBuilder assembles profile HTML in the current site layout.
type pageBuilder struct {
	head       strings.Builder
	top        strings.Builder
	about      string
	experience []string
	education  []string
	skills     []string
}

func (p *pageBuilder) canonical(href string) *pageBuilder {
	fmt.Fprintf(&p.head, `<link rel="canonical" href="%s">`, href)
	return p
}

func (p *pageBuilder) name(s string) *pageBuilder {
	fmt.Fprintf(&p.top, `<h1 class="text-heading-xlarge inline t-24">%s</h1>`, s)
	return p
}

func (p *pageBuilder) headline(s string) *pageBuilder {
	fmt.Fprintf(&p.top, `<div class="text-body-medium break-words">%s</div>`, s)
	return p
}

func (p *pageBuilder) location(s string) *pageBuilder {
	fmt.Fprintf(&p.top, `<div class="pv-text-details__left-panel"><span class="text-body-small inline t-black--light break-words">%s</span></div>`, s)
	return p
}

func (p *pageBuilder) avatar(src string) *pageBuilder {
	fmt.Fprintf(&p.top, `<img class="pv-top-card-profile-picture__image--show" src="%s">`, src)
	return p
}

func (p *pageBuilder) setAbout(s string) *pageBuilder {
	p.about = s
	return p
}

func label(s string) string {
	return fmt.Sprintf(`<span aria-hidden="true">%s</span><span class="visually-hidden">%s</span>`, s, s)
}

func (p *pageBuilder) job(title, company, caption, location, desc string) *pageBuilder {
	var b strings.Builder
	b.WriteString(`<li class="artdeco-list__item">`)
	if title != "" {
		b.WriteString(`<div class="display-flex t-bold mr1">` + label(title) + `</div>`)
	}
	if company != "" {
		b.WriteString(`<span class="t-14 t-normal">` + label(company) + `</span>`)
	}
	if caption != "" {
		b.WriteString(`<span class="t-14 t-normal t-black--light"><span class="pvs-entity__caption-wrapper" aria-hidden="true">` + caption + `</span></span>`)
	}
	if location != "" {
		b.WriteString(`<span class="t-14 t-normal t-black--light">` + label(location) + `</span>`)
	}
	if desc != "" {
		b.WriteString(`<div class="pvs-list__outer-container"><div class="inline-show-more-text">` + label(desc) + `</div></div>`)
	}
	b.WriteString(`</li>`)
	p.experience = append(p.experience, b.String())
	return p
}

func (p *pageBuilder) school(school, degree, caption string) *pageBuilder {
	var b strings.Builder
	b.WriteString(`<li class="artdeco-list__item">`)
	if school != "" {
		b.WriteString(`<div class="t-bold">` + label(school) + `</div>`)
	}
	if degree != "" {
		b.WriteString(`<span class="t-14 t-normal">` + label(degree) + `</span>`)
	}
	if caption != "" {
		b.WriteString(`<span class="t-14 t-normal t-black--light"><span class="pvs-entity__caption-wrapper" aria-hidden="true">` + caption + `</span></span>`)
	}
	b.WriteString(`</li>`)
	p.education = append(p.education, b.String())
	return p
}

func (p *pageBuilder) skill(names ...string) *pageBuilder {
	for _, n := range names {
		p.skills = append(p.skills, `<li class="artdeco-list__item"><div class="t-bold">`+label(n)+`</div></li>`)
	}
	return p
}

func section(anchor string, items []string) string {
	if items == nil {
		return ""
	}
	return `<section class="artdeco-card"><div id="` + anchor + `"></div><ul>` + strings.Join(items, "") + `</ul></section>`
}

func (p *pageBuilder) html() string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head>" + p.head.String() + "</head><body><main>")
	b.WriteString(`<section class="artdeco-card">` + p.top.String() + `</section>`)
	if p.about != "" {
		b.WriteString(`<section class="artdeco-card"><div id="about"></div><div class="display-flex ph5"><div class="inline-show-more-text">` + label(p.about) + `</div></div></section>`)
	}
	b.WriteString(section("experience", p.experience))
	b.WriteString(section("education", p.education))
	b.WriteString(section("skills", p.skills))
	b.WriteString("</main></body></html>")
	return b.String()
}

func (p *pageBuilder) doc(t testing.TB, pageURL string) *dom.HTMLDocument {
	t.Helper()
	d, err := dom.Parse(strings.NewReader(p.html()), pageURL)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return d
}

func newTestEngine() *Engine {
	return New(selectors.Default(), WithLogger(zerolog.Nop()))
}

// fakeNode is an in-memory element whose children are keyed by the exact
// query expression. A node with panics set blows up on any query.
type fakeNode struct {
	text     string
	attrs    map[string]string
	children map[string][]dom.Element
	panics   bool
}

func (n *fakeNode) Query(expr string) ([]dom.Element, error) {
	if n.panics {
		panic("query on detached node")
	}
	return n.children[expr], nil
}

func (n *fakeNode) Text() string { return n.text }

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

type fakeDoc struct {
	fakeNode
	url string
}

func (d *fakeDoc) URL() string { return d.url }

func textNode(s string) *fakeNode { return &fakeNode{text: s} }
