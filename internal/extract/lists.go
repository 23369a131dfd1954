package extract

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/normalize"
	"github.com/hyperifyio/profilecapture/internal/profile"
	"github.com/hyperifyio/profilecapture/internal/selectors"
)

// itemResult is the outcome of parsing one list item: either an entry or
// the reason it was skipped.
type itemResult[T any] struct {
	entry T
	skip  string
}

func keep[T any](entry T) itemResult[T] { return itemResult[T]{entry: entry} }
func skipItem[T any](reason string) itemResult[T] { return itemResult[T]{skip: reason} }

// parseSafely turns a panic inside parse into a skip so a malformed item
// never takes its siblings down with it.
func parseSafely[T any](el dom.Element, parse func(dom.Element) itemResult[T]) (r itemResult[T]) {
	defer func() {
		if p := recover(); p != nil {
			r = skipItem[T](fmt.Sprintf("malformed item: %v", p))
		}
	}()
	return parse(el)
}

// collect parses items in page order until limit entries are kept.
func collect[T any](e *Engine, kind string, items []dom.Element, limit int, parse func(dom.Element) itemResult[T]) []T {
	out := make([]T, 0, min(len(items), max(limit, 0)))
	for i, el := range items {
		if len(out) >= limit {
			break
		}
		r := parseSafely(el, parse)
		if r.skip != "" {
			e.log.Debug().Str("list", kind).Int("index", i).Str("reason", r.skip).Msg("item skipped")
			continue
		}
		out = append(out, r.entry)
	}
	return out
}

// sectionItems resolves the section and then the items within it. A missing
// section yields nil without any item-level query.
func (e *Engine) sectionItems(doc dom.Document, section, item selectors.Field) []dom.Element {
	sec, ok := e.res.One(doc, e.table.Get(section))
	if !ok {
		return nil
	}
	return e.res.All(sec, e.table.Get(item))
}

func (e *Engine) experience(doc dom.Document) []profile.ExperienceEntry {
	items := e.sectionItems(doc, selectors.ExperienceSection, selectors.ExperienceItem)
	return collect(e, "experience", items, e.limits.MaxExperience, e.experienceItem)
}

func (e *Engine) experienceItem(el dom.Element) itemResult[profile.ExperienceEntry] {
	title := e.text(el, selectors.ExperienceTitle)
	company := normalize.TruncateAtSeparator(e.text(el, selectors.ExperienceCompany), e.limits.CompanySeparators)
	if title == "" && company == "" {
		return skipItem[profile.ExperienceEntry]("no title or company")
	}
	dates := normalize.ParseDateRange(e.text(el, selectors.ExperienceCaption))
	return keep(profile.ExperienceEntry{
		Title:       title,
		Company:     company,
		Start:       dates.Start,
		End:         dates.End,
		Description: e.text(el, selectors.ExperienceDescription),
		Location:    e.text(el, selectors.ExperienceLocation),
	})
}

func (e *Engine) education(doc dom.Document) []profile.EducationEntry {
	items := e.sectionItems(doc, selectors.EducationSection, selectors.EducationItem)
	return collect(e, "education", items, e.limits.MaxEducation, e.educationItem)
}

func (e *Engine) educationItem(el dom.Element) itemResult[profile.EducationEntry] {
	school := e.text(el, selectors.EducationSchool)
	if school == "" {
		return skipItem[profile.EducationEntry]("no school")
	}
	deg := normalize.ParseDegree(e.text(el, selectors.EducationDegree))
	dates := normalize.ParseDateRange(e.text(el, selectors.EducationCaption))
	return keep(profile.EducationEntry{
		School: school,
		Degree: deg.Degree,
		Field:  deg.Field,
		Start:  dates.Start,
		End:    dates.End,
	})
}

// skills deduplicates case-insensitively, keeping the first-seen spelling.
func (e *Engine) skills(doc dom.Document) []string {
	items := e.sectionItems(doc, selectors.SkillsSection, selectors.SkillsItem)
	fold := cases.Fold()
	seen := make(map[string]bool, len(items))
	return collect(e, "skills", items, e.limits.MaxSkills, func(el dom.Element) itemResult[string] {
		s := normalize.CollapseSpace(el.Text())
		if s == "" {
			return skipItem[string]("empty skill")
		}
		key := fold.String(s)
		if seen[key] {
			return skipItem[string]("duplicate skill")
		}
		seen[key] = true
		return keep(s)
	})
}
