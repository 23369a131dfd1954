package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/extract"
	"github.com/hyperifyio/profilecapture/internal/pageurl"
	"github.com/hyperifyio/profilecapture/internal/profile"
)

// Capture is the JSON document written for each run: the import payload
// plus whatever the optional sinks produced.
type Capture struct {
	profile.ImportRequest
	CandidateID string `json:"candidate_id,omitempty"`
	Draft       string `json:"draft,omitempty"`

	result extract.Result
}

func (a *App) capture(ctx context.Context) (Capture, error) {
	if a.cfg.PageURL != "" && !pageurl.IsSupportedProfilePage(a.cfg.PageURL) {
		return Capture{}, fmt.Errorf("%w: %s", ErrNotProfilePage, a.cfg.PageURL)
	}
	res, err := a.extractWithRetry(ctx)
	if err != nil {
		return Capture{}, err
	}
	if a.cfg.PageURL == "" && !pageurl.IsSupportedProfilePage(res.CanonicalURL) {
		return Capture{}, fmt.Errorf("%w: canonical URL %q", ErrNotProfilePage, res.CanonicalURL)
	}
	if !res.Snapshot.HasName() {
		log.Warn().Str("url", res.CanonicalURL).Msg("profile name not found; check the selector table")
	}
	log.Info().
		Str("name", res.Snapshot.FullName).
		Int("experience", len(res.Snapshot.Experience)).
		Int("education", len(res.Snapshot.Education)).
		Int("skills", len(res.Snapshot.Skills)).
		Msg("profile extracted")

	req := profile.NewImportRequest(res.CanonicalURL, res.PublicIdentifier, res.Snapshot, res.FlattenedText, a.now())
	req.JobID = a.jobID()
	return Capture{ImportRequest: req, result: res}, nil
}

// extractWithRetry re-runs load and extract while the name is still the
// sentinel, up to cfg.Retries extra times. Each run is independent.
func (a *App) extractWithRetry(ctx context.Context) (extract.Result, error) {
	interval := a.cfg.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	for attempt := 0; ; attempt++ {
		doc, err := a.load(ctx, attempt)
		if err != nil {
			return extract.Result{}, err
		}
		res := a.engine.Extract(doc)
		if res.Snapshot.HasName() || attempt >= a.cfg.Retries {
			return res, nil
		}
		log.Info().Int("attempt", attempt+1).Dur("wait", interval).Msg("name not rendered yet, retrying")
		select {
		case <-ctx.Done():
			return extract.Result{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// load reads the saved page when an input file is configured and fetches
// the URL otherwise. Retries skip the page cache.
func (a *App) load(ctx context.Context, attempt int) (dom.Document, error) {
	if a.cfg.InputPath != "" {
		f, err := os.Open(a.cfg.InputPath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return dom.Parse(f, a.cfg.PageURL)
	}
	a.fetcher.BypassCache = a.cfg.BypassCache || attempt > 0
	body, _, err := a.fetcher.Get(ctx, a.cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return dom.Parse(bytes.NewReader(body), a.cfg.PageURL)
}

func (a *App) jobID() string {
	if a.cfg.JobID != "" {
		if a.store != nil && a.store.JobID() != a.cfg.JobID {
			if err := a.store.SetJobID(a.cfg.JobID); err != nil {
				log.Warn().Err(err).Msg("remember job id failed")
			}
		}
		return a.cfg.JobID
	}
	if a.store != nil {
		return a.store.JobID()
	}
	return ""
}

// writeJSON writes v to path, or to stdout when path is "-". Files are
// 0600 since they carry personal data.
func (a *App) writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	b = append(b, '\n')
	if path != "-" {
		if err := os.WriteFile(path, b, 0o600); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("path", path).Msg("capture written")
		return nil
	}
	_, err = a.stdout.Write(b)
	return err
}
