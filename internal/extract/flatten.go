package extract

import (
	"strings"

	"github.com/hyperifyio/profilecapture/internal/profile"
)

// Flatten renders s as newline-joined plain text for unstructured scoring.
// Order is fixed: name, headline, location, about, skills, experience
// entries, education entries. Absent parts produce no line.
func Flatten(s profile.Snapshot) string {
	lines := make([]string, 0, 8+2*len(s.Experience)+len(s.Education))
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, v)
		}
	}
	add(s.FullName)
	add(s.Headline)
	add(s.Location)
	add(s.About)
	if len(s.Skills) > 0 {
		add("Skills: " + strings.Join(s.Skills, ", "))
	}
	if len(s.Experience) > 0 {
		add("Experience:")
		for _, x := range s.Experience {
			add(experienceLine(x))
			add(x.Description)
		}
	}
	if len(s.Education) > 0 {
		add("Education:")
		for _, x := range s.Education {
			add(educationLine(x))
		}
	}
	return strings.Join(lines, "\n")
}

func experienceLine(x profile.ExperienceEntry) string {
	var b strings.Builder
	switch {
	case x.Title != "" && x.Company != "":
		b.WriteString(x.Title + " at " + x.Company)
	default:
		b.WriteString(x.Title + x.Company)
	}
	b.WriteString(period(x.Start, x.End))
	if x.Location != "" {
		b.WriteString(", " + x.Location)
	}
	return b.String()
}

func educationLine(x profile.EducationEntry) string {
	var b strings.Builder
	switch {
	case x.Degree != "" && x.Field != "":
		b.WriteString(x.Degree + " in " + x.Field + ", ")
	case x.Degree != "":
		b.WriteString(x.Degree + ", ")
	}
	b.WriteString(x.School)
	b.WriteString(period(x.Start, x.End))
	return b.String()
}

func period(start, end string) string {
	switch {
	case start != "" && end != "":
		return " (" + start + " - " + end + ")"
	case start != "" || end != "":
		return " (" + start + end + ")"
	}
	return ""
}
