// Package profile defines the candidate snapshot produced by one extraction
// pass and the import payload sent to the recruiting backend.
package profile

import "time"

// UnknownName labels a snapshot whose name could not be recovered.
const UnknownName = "Unknown"

// ExperienceEntry is one position. At least one of Title or Company is set.
type ExperienceEntry struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// EducationEntry is one school. School is always set.
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field_of_study,omitempty"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
}

// Snapshot is the structured result of one extraction pass. Optional string
// fields are either non-empty or empty meaning absent.
type Snapshot struct {
	FullName    string            `json:"full_name"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	Headline    string            `json:"headline,omitempty"`
	Location    string            `json:"location,omitempty"`
	About       string            `json:"about,omitempty"`
	JobTitle    string            `json:"job_title,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
	Experience  []ExperienceEntry `json:"experience"`
	Education   []EducationEntry  `json:"education"`
	Skills      []string          `json:"skills"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
}

// HasName reports whether a real name was recovered.
func (s Snapshot) HasName() bool {
	return s.FullName != "" && s.FullName != UnknownName
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Experience = append([]ExperienceEntry{}, s.Experience...)
	out.Education = append([]EducationEntry{}, s.Education...)
	out.Skills = append([]string{}, s.Skills...)
	return out
}

// Consent records that the operator captured the profile deliberately.
type Consent struct {
	Captured   bool      `json:"captured"`
	CapturedAt time.Time `json:"captured_at"`
}

// ImportRequest is the payload handed to the backend import endpoint.
type ImportRequest struct {
	ProfileURL       string   `json:"profile_url"`
	PublicIdentifier string   `json:"public_identifier,omitempty"`
	Profile          Snapshot `json:"profile"`
	RawText          string   `json:"raw_text"`
	Consent          Consent  `json:"consent"`
	JobID            string   `json:"job_id,omitempty"`
}

// NewImportRequest stamps a consent marker at capturedAt.
func NewImportRequest(profileURL, publicID string, snap Snapshot, rawText string, capturedAt time.Time) ImportRequest {
	return ImportRequest{
		ProfileURL:       profileURL,
		PublicIdentifier: publicID,
		Profile:          snap.Clone(),
		RawText:          rawText,
		Consent:          Consent{Captured: true, CapturedAt: capturedAt.UTC()},
	}
}
