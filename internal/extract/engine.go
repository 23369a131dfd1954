// Package extract recovers a structured candidate profile from a profile
// page. Each field has its own extractor resolving a selector set and then
// normalizing the matched text; the Engine assembles them into a Snapshot.
package extract

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/normalize"
	"github.com/hyperifyio/profilecapture/internal/profile"
	"github.com/hyperifyio/profilecapture/internal/selectors"
)

// Limits bounds list output and tunes heuristics that were fitted to the
// site's current markup and are expected to drift.
type Limits struct {
	MaxExperience int
	MaxEducation  int
	MaxSkills     int
	// CompanySeparators are runes after which a company cell carries
	// secondary metadata ("Acme · Full-time").
	CompanySeparators string
	// AvatarPlaceholders are substrings marking the site's default image.
	AvatarPlaceholders []string
}

// DefaultLimits returns the limits tuned for the built-in selector table.
func DefaultLimits() Limits {
	return Limits{
		MaxExperience:      10,
		MaxEducation:       5,
		MaxSkills:          20,
		CompanySeparators:  "·•|",
		AvatarPlaceholders: []string{"ghost", "data:image", "static.licdn.com/aero"},
	}
}

// Engine runs every field extractor against a document. It holds only
// read-only configuration, so one Engine may be shared and re-run freely.
type Engine struct {
	table  selectors.Table
	limits Limits
	log    zerolog.Logger
	res    dom.Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimits replaces DefaultLimits.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		l.AvatarPlaceholders = append([]string(nil), l.AvatarPlaceholders...)
		e.limits = l
	}
}

// WithLogger sets the logger used for skipped items and selectors.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New builds an Engine over table.
func New(table selectors.Table, opts ...Option) *Engine {
	e := &Engine{table: table, limits: DefaultLimits(), log: log.Logger}
	for _, opt := range opts {
		opt(e)
	}
	e.res = dom.Resolver{Log: e.log}
	return e
}

var _ Extractor = (*Engine)(nil)

// Extract runs the full pipeline. It always returns a value: fields that
// cannot be recovered are absent and the name falls back to
// profile.UnknownName.
func (e *Engine) Extract(doc dom.Document) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("extraction aborted; returning empty snapshot")
			snap := emptySnapshot()
			res = Result{Snapshot: snap, FlattenedText: Flatten(snap)}
		}
	}()

	snap := emptySnapshot()
	n := e.name(doc)
	snap.FullName, snap.FirstName, snap.LastName = n.full, n.first, n.last
	snap.Headline = e.text(doc, selectors.Headline)
	snap.Location = e.text(doc, selectors.Location)
	snap.About = e.text(doc, selectors.About)
	snap.Experience = e.experience(doc)
	snap.Education = e.education(doc)
	snap.Skills = e.skills(doc)
	snap.AvatarURL = e.avatar(doc)
	snap.JobTitle, snap.CompanyName = currentJob(snap)

	canonical := e.canonicalURL(doc)
	res = Result{
		Snapshot:      snap,
		CanonicalURL:  canonical,
		FlattenedText: Flatten(snap),
	}
	res.PublicIdentifier, _ = publicIdentifier(canonical)
	return res
}

func emptySnapshot() profile.Snapshot {
	return profile.Snapshot{
		FullName:   profile.UnknownName,
		Experience: []profile.ExperienceEntry{},
		Education:  []profile.EducationEntry{},
		Skills:     []string{},
	}
}

// currentJob prefers the headline split. A headline without a company
// yields to the first experience entry as a whole, so title and company
// always come from the same role.
func currentJob(s profile.Snapshot) (title, company string) {
	job := normalize.ParseHeadlineJob(s.Headline)
	if job.Company == "" && len(s.Experience) > 0 {
		return s.Experience[0].Title, s.Experience[0].Company
	}
	return job.Title, job.Company
}

// text resolves f under scope and returns its collapsed text, or "".
func (e *Engine) text(scope dom.Node, f selectors.Field) string {
	el, ok := e.res.One(scope, e.table.Get(f))
	if !ok {
		return ""
	}
	return normalize.CollapseSpace(el.Text())
}
