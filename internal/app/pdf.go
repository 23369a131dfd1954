package app

import (
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/profilecapture/internal/extract"
	"github.com/hyperifyio/profilecapture/internal/profile"
)

// writeCandidatePDF renders a one-page candidate card: name, headline and
// location up top, then experience, education and skills.
func writeCandidatePDF(res extract.Result, outPath string) error {
	s := res.Snapshot
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(s.FullName, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(s.FullName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{s.Headline, s.Location} {
		if line != "" {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}
	if res.CanonicalURL != "" {
		pdf.SetTextColor(0, 0, 180)
		pdf.WriteLinkString(5, res.CanonicalURL, res.CanonicalURL)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	heading := func(text string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
	}
	if s.About != "" {
		heading("About")
		pdf.MultiCell(0, 5, tr(s.About), "", "L", false)
	}
	if len(s.Experience) > 0 {
		heading("Experience")
		for _, x := range s.Experience {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 5, tr(joinNonEmpty(" at ", x.Title, x.Company)), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			if meta := joinNonEmpty(" | ", dates(x.Start, x.End), x.Location); meta != "" {
				pdf.MultiCell(0, 5, tr(meta), "", "L", false)
			}
			if x.Description != "" {
				pdf.MultiCell(0, 5, tr(x.Description), "", "L", false)
			}
			pdf.Ln(2)
		}
	}
	if len(s.Education) > 0 {
		heading("Education")
		for _, x := range s.Education {
			pdf.MultiCell(0, 5, tr(educationCardLine(x)), "", "L", false)
		}
	}
	if len(s.Skills) > 0 {
		heading("Skills")
		pdf.MultiCell(0, 5, tr(strings.Join(s.Skills, ", ")), "", "L", false)
	}
	return pdf.OutputFileAndClose(outPath)
}

func educationCardLine(x profile.EducationEntry) string {
	deg := joinNonEmpty(" in ", x.Degree, x.Field)
	return joinNonEmpty(", ", x.School, deg, dates(x.Start, x.End))
}

func dates(start, end string) string {
	return joinNonEmpty(" - ", start, end)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
