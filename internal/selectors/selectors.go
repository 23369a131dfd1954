// Package selectors holds the versioned tables of CSS query expressions used
// to locate profile fields across known markup revisions of the target site.
package selectors

import (
	"github.com/andybalholm/cascadia"
)

// Set is an ordered list of alternative query expressions for one logical
// field. Earlier entries are tried first and correspond to the newest layout.
type Set []string

// Clone returns a copy so callers cannot mutate a table's backing array.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Field names a logical field in a Table.
type Field string

const (
	Name      Field = "name"
	Headline  Field = "headline"
	Location  Field = "location"
	About     Field = "about"
	Avatar    Field = "avatar"
	Canonical Field = "canonical"

	ExperienceSection     Field = "experience.section"
	ExperienceItem        Field = "experience.item"
	ExperienceTitle       Field = "experience.title"
	ExperienceCompany     Field = "experience.company"
	ExperienceCaption     Field = "experience.caption"
	ExperienceDescription Field = "experience.description"
	ExperienceLocation    Field = "experience.location"

	EducationSection Field = "education.section"
	EducationItem    Field = "education.item"
	EducationSchool  Field = "education.school"
	EducationDegree  Field = "education.degree"
	EducationCaption Field = "education.caption"

	SkillsSection Field = "skills.section"
	SkillsItem    Field = "skills.item"
)

// Fields lists every field a complete table carries, in a stable order.
var Fields = []Field{
	Name, Headline, Location, About, Avatar, Canonical,
	ExperienceSection, ExperienceItem, ExperienceTitle, ExperienceCompany,
	ExperienceCaption, ExperienceDescription, ExperienceLocation,
	EducationSection, EducationItem, EducationSchool, EducationDegree, EducationCaption,
	SkillsSection, SkillsItem,
}

// Table is an immutable mapping of fields to selector sets. Build one with
// NewTable, Default or LoadFile; the zero value resolves nothing.
type Table struct {
	version string
	sets    map[Field]Set
}

// NewTable copies sets into a new Table.
func NewTable(version string, sets map[Field]Set) Table {
	t := Table{version: version, sets: make(map[Field]Set, len(sets))}
	for f, s := range sets {
		t.sets[f] = s.Clone()
	}
	return t
}

// Version identifies the markup revision the table was written against.
func (t Table) Version() string { return t.version }

// Get returns a copy of the set for f, or nil when the table has none.
func (t Table) Get(f Field) Set {
	return t.sets[f].Clone()
}

// Merge returns a new table where every field present in override replaces
// the receiver's set. Fields absent from override are inherited.
func (t Table) Merge(override Table) Table {
	out := NewTable(t.version, t.sets)
	if override.version != "" {
		out.version = override.version
	}
	for f, s := range override.sets {
		if len(s) == 0 {
			continue
		}
		out.sets[f] = s.Clone()
	}
	return out
}

// InvalidSelector describes an expression that does not compile.
type InvalidSelector struct {
	Field      Field
	Expression string
	Err        error
}

// Validate compiles every expression and reports those that fail. An invalid
// expression never breaks extraction; it just never matches.
func (t Table) Validate() []InvalidSelector {
	var bad []InvalidSelector
	for _, f := range Fields {
		for _, expr := range t.sets[f] {
			if _, err := cascadia.Compile(expr); err != nil {
				bad = append(bad, InvalidSelector{Field: f, Expression: expr, Err: err})
			}
		}
	}
	return bad
}
