package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/hyperifyio/profilecapture/internal/profile"
)

// Job is an open position candidates can be imported against.
type Job struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ListJobs returns the recruiter's jobs.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var r struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.call(ctx, http.MethodGet, "/jobs", nil, nil, &r, true, nil); err != nil {
		return nil, err
	}
	return r.Jobs, nil
}

// ImportResult is the backend's answer to an import.
type ImportResult struct {
	CandidateID string `json:"candidate_id"`
	Created     bool   `json:"created"`
}

// ImportProfile sends a captured profile. Each call carries a fresh
// Idempotency-Key so a retried request is not imported twice.
func (c *Client) ImportProfile(ctx context.Context, req profile.ImportRequest) (ImportResult, error) {
	var r ImportResult
	hdr := http.Header{}
	hdr.Set("Idempotency-Key", uuid.NewString())
	if err := c.call(ctx, http.MethodPost, "/candidates/import", nil, req, &r, true, hdr); err != nil {
		return ImportResult{}, err
	}
	return r, nil
}

// Candidate is a previously imported profile.
type Candidate struct {
	ID         string   `json:"id"`
	FullName   string   `json:"full_name"`
	ProfileURL string   `json:"profile_url"`
	JobIDs     []string `json:"job_ids,omitempty"`
}

// ResolveCandidate looks up a candidate by profile URL or public identifier.
// found is false when the backend has no match.
func (c *Client) ResolveCandidate(ctx context.Context, profileURL, publicID string) (Candidate, bool, error) {
	q := url.Values{}
	if profileURL != "" {
		q.Set("profile_url", profileURL)
	}
	if publicID != "" {
		q.Set("public_identifier", publicID)
	}
	var r struct {
		Found     bool      `json:"found"`
		Candidate Candidate `json:"candidate"`
	}
	if err := c.call(ctx, http.MethodGet, "/candidates/resolve", q, nil, &r, true, nil); err != nil {
		return Candidate{}, false, err
	}
	return r.Candidate, r.Found, nil
}

// DraftRequest asks the backend to draft an outreach message.
type DraftRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id,omitempty"`
	Tone        string `json:"tone,omitempty"`
}

// DraftMessage returns the backend-generated draft text.
func (c *Client) DraftMessage(ctx context.Context, req DraftRequest) (string, error) {
	var r struct {
		Draft string `json:"draft"`
	}
	if err := c.call(ctx, http.MethodPost, "/messages/draft", nil, req, &r, true, nil); err != nil {
		return "", err
	}
	return r.Draft, nil
}
