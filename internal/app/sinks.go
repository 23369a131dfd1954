package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/profilecapture/internal/backend"
	"github.com/hyperifyio/profilecapture/internal/credstore"
	"github.com/hyperifyio/profilecapture/internal/outreach"
)

const tonePreference = "tone"

// ensureSession makes sure the store holds a usable access token, refreshing
// or signing in with configured credentials when it does not.
func (a *App) ensureSession(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend not configured")
	}
	if a.store.IsAuthenticated(a.now()) {
		return nil
	}
	canLogin := a.cfg.BackendEmail != "" && a.cfg.BackendPassword != ""
	if tok, err := a.store.Tokens(); err == nil && tok.RefreshToken != "" {
		err := a.backend.Refresh(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, credstore.ErrNotAuthenticated) && !canLogin {
			// Refresh token rejected: sign out.
			if cerr := a.store.Clear(); cerr != nil {
				log.Warn().Err(cerr).Msg("clear rejected session failed")
			}
			return fmt.Errorf("session expired, sign in again: %w", err)
		}
		log.Debug().Err(err).Msg("token refresh failed, trying sign-in")
	}
	if !canLogin {
		return fmt.Errorf("%w: set BACKEND_EMAIL and BACKEND_PASSWORD to sign in", credstore.ErrNotAuthenticated)
	}
	u, err := a.backend.Login(ctx, a.cfg.BackendEmail, a.cfg.BackendPassword)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	log.Info().Str("user", u.Email).Msg("signed in")
	return nil
}

// logout signs out by clearing the credential store. Preferences survive.
func (a *App) logout() error {
	u, _ := a.store.User()
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	log.Info().Str("user", u.Email).Str("credentials", a.store.Path()).Msg("signed out")
	return nil
}

func (a *App) importProfile(ctx context.Context, c *Capture) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	res, err := a.backend.ImportProfile(ctx, c.ImportRequest)
	if err != nil {
		return fmt.Errorf("import profile: %w", err)
	}
	c.CandidateID = res.CandidateID
	log.Info().Str("candidate", res.CandidateID).Bool("created", res.Created).Msg("profile imported")
	return nil
}

func (a *App) tone() string {
	if a.cfg.Tone != "" {
		if a.store != nil {
			if err := a.store.SetPreference(tonePreference, a.cfg.Tone); err != nil {
				log.Warn().Err(err).Msg("remember tone failed")
			}
		}
		return a.cfg.Tone
	}
	if a.store != nil {
		if t, ok := a.store.Preference(tonePreference); ok && t != "" {
			return t
		}
	}
	return outreach.DefaultTone
}

// draft prefers the local model; without one it asks the backend, which
// needs the candidate to exist there.
func (a *App) draft(ctx context.Context, c *Capture) error {
	tone := a.tone()
	if a.drafter != nil {
		text, err := a.drafter.Draft(ctx, outreach.Input{
			Snapshot:      c.Profile,
			FlattenedText: c.RawText,
			JobTitle:      a.jobTitle(ctx, c.JobID),
			Tone:          tone,
			Model:         a.cfg.LLMModel,
		})
		if err != nil {
			return fmt.Errorf("draft outreach: %w", err)
		}
		c.Draft = text
		return nil
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	if c.CandidateID == "" {
		cand, found, err := a.backend.ResolveCandidate(ctx, c.ProfileURL, c.PublicIdentifier)
		if err != nil {
			return fmt.Errorf("resolve candidate: %w", err)
		}
		if !found {
			return errors.New("draft outreach: candidate not imported yet (use -import)")
		}
		c.CandidateID = cand.ID
	}
	text, err := a.backend.DraftMessage(ctx, backend.DraftRequest{CandidateID: c.CandidateID, JobID: c.JobID, Tone: tone})
	if err != nil {
		return fmt.Errorf("draft outreach: %w", err)
	}
	c.Draft = text
	return nil
}

// jobTitle looks up the job's title for the prompt. Lookup failures only
// cost prompt context.
func (a *App) jobTitle(ctx context.Context, jobID string) string {
	if jobID == "" || a.backend == nil {
		return ""
	}
	if err := a.ensureSession(ctx); err != nil {
		log.Debug().Err(err).Msg("job title lookup skipped")
		return ""
	}
	jobs, err := a.backend.ListJobs(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("job title lookup failed")
		return ""
	}
	for _, j := range jobs {
		if j.ID == jobID {
			return j.Title
		}
	}
	return ""
}

func (a *App) listJobs(ctx context.Context) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	if u, ok := a.store.User(); ok {
		log.Info().Str("user", u.Email).Msg("listing jobs")
	}
	jobs, err := a.backend.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	selected := a.jobID()
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, j := range jobs {
		mark := " "
		if j.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, j.ID, j.Title, strings.TrimSpace(j.Company))
	}
	return w.Flush()
}
