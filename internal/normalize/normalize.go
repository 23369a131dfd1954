// Package normalize turns loosely structured label text from profile pages
// into structured sub-fields. Every parser here is conservative: when the
// input does not have the expected shape it returns absent fields (empty
// strings) or the whole input as a single field, never a guess.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CollapseSpace composes s to NFC, collapses whitespace runs (including
// non-breaking and other Unicode spaces) to a single space and trims the
// ends. Characters themselves are never rewritten.
func CollapseSpace(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// TruncateAtSeparator cuts s at the first rune found in seps and trims the
// result. Company cells often carry "Acme · Full-time".
func TruncateAtSeparator(s string, seps string) string {
	if seps != "" {
		if i := strings.IndexAny(s, seps); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// DateRange is a start/end period pair; either may be empty.
type DateRange struct {
	Start string
	End   string
}

// PresentMarker is the end token used for ongoing positions.
const PresentMarker = "Present"

var (
	dateRangeRe = regexp.MustCompile(`^((?:(\pL+)\.?\s+)?\d{4})\s*[-–—]\s*((?:(\pL+)\.?\s+)?\d{4}|(?i:present))$`)
	months      = map[string]bool{}
)

func init() {
	for _, m := range []string{
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
	} {
		months[m] = true
		months[m[:3]] = true
	}
	months["sept"] = true
}

// ParseDateRange accepts "<period> - <period>" where a period is a bare year
// or a month and year, and the end may be "Present". A trailing duration
// after a middle dot ("· 2 yrs") is ignored. Anything else yields both fields
// empty.
func ParseDateRange(text string) DateRange {
	s := CollapseSpace(text)
	if i := strings.Index(s, "·"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	m := dateRangeRe.FindStringSubmatch(s)
	if m == nil {
		return DateRange{}
	}
	if !isMonth(m[2]) || !isMonth(m[4]) {
		return DateRange{}
	}
	end := m[3]
	if strings.EqualFold(end, PresentMarker) {
		end = PresentMarker
	}
	return DateRange{Start: m[1], End: end}
}

func isMonth(tok string) bool {
	if tok == "" {
		return true
	}
	return months[strings.ToLower(tok)]
}

// Job is a title/company split of a headline.
type Job struct {
	Title   string
	Company string
}

var atRe = regexp.MustCompile(`^(.+?)\s+at\s+(.+?)(?:\s*[|·]\s*.*)?$`)

// ParseHeadlineJob tries "<title> at <company>" (optionally followed by a
// pipe or middle-dot and anything), then "<title> | <company> | ...". When
// neither matches the whole headline is the title.
func ParseHeadlineJob(headline string) Job {
	s := CollapseSpace(headline)
	if s == "" {
		return Job{}
	}
	if m := atRe.FindStringSubmatch(s); m != nil {
		title, company := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if title != "" && company != "" {
			return Job{Title: title, Company: company}
		}
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == '·' })
	if len(parts) >= 2 {
		title, company := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if title != "" && company != "" {
			return Job{Title: title, Company: company}
		}
	}
	return Job{Title: s}
}

// Degree is a degree/field-of-study split.
type Degree struct {
	Degree string
	Field  string
}

var (
	degreeCommaRe = regexp.MustCompile(`^([^,]+?)\s*,\s*(.+)$`)
	degreeInRe    = regexp.MustCompile(`^(.+?)\s+in\s+(.+)$`)
)

// ParseDegree tries "<degree>, <field>" then "<degree> in <field>". When
// neither matches the whole text is the degree.
func ParseDegree(text string) Degree {
	s := CollapseSpace(text)
	if s == "" {
		return Degree{}
	}
	for _, re := range []*regexp.Regexp{degreeCommaRe, degreeInRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			return Degree{Degree: strings.TrimSpace(m[1]), Field: strings.TrimSpace(m[2])}
		}
	}
	return Degree{Degree: s}
}
