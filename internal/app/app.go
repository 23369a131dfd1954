package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/profilecapture/internal/backend"
	"github.com/hyperifyio/profilecapture/internal/cache"
	"github.com/hyperifyio/profilecapture/internal/credstore"
	"github.com/hyperifyio/profilecapture/internal/extract"
	"github.com/hyperifyio/profilecapture/internal/fetch"
	"github.com/hyperifyio/profilecapture/internal/llm"
	"github.com/hyperifyio/profilecapture/internal/outreach"
	"github.com/hyperifyio/profilecapture/internal/selectors"
)

// ErrNotProfilePage is returned when the page is not a supported profile
// page. The CLI maps it to exit code 2.
var ErrNotProfilePage = errors.New("not a supported profile page")

type App struct {
	cfg     Config
	engine  *extract.Engine
	fetcher *fetch.Client
	store   *credstore.Store
	backend *backend.Client
	drafter *outreach.Drafter
	httpc   *http.Client
	stdout  io.Writer
	now     func() time.Time
}

func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg, stdout: os.Stdout, now: time.Now}
	httpClient := newHTTPClient()
	a.httpc = httpClient

	table, err := loadSelectors(cfg.SelectorsPath)
	if err != nil {
		return nil, err
	}
	a.engine = extract.New(table, extract.WithLimits(limitsFrom(cfg)), extract.WithLogger(log.Logger))

	var pages *cache.HTTPCache
	var drafts *cache.DraftCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir, cfg.CacheStrictPerms); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		pages = &cache.HTTPCache{Dir: filepath.Join(cfg.CacheDir, "pages"), StrictPerms: cfg.CacheStrictPerms}
		drafts = &cache.DraftCache{Dir: filepath.Join(cfg.CacheDir, "drafts"), StrictPerms: cfg.CacheStrictPerms}
		if cfg.CacheMaxAge > 0 {
			n1, _ := cache.PurgePagesByAge(pages.Dir, cfg.CacheMaxAge)
			n2, _ := cache.PurgeDraftsByAge(drafts.Dir, cfg.CacheMaxAge)
			log.Debug().Int("pages", n1).Int("drafts", n2).Msg("purged stale cache entries")
		}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent()
	}
	a.fetcher = &fetch.Client{
		HTTPClient:        httpClient,
		UserAgent:         ua,
		Cookie:            cfg.Cookie,
		MaxAttempts:       3,
		PerRequestTimeout: 30 * time.Second,
		Cache:             pages,
		BypassCache:       cfg.BypassCache,
	}
	if cfg.FetchInterval > 0 {
		a.fetcher.Limiter = rate.NewLimiter(rate.Every(cfg.FetchInterval), 1)
	}

	if cfg.BackendURL != "" || cfg.Logout {
		path := cfg.CredentialsPath
		if path == "" {
			path = DefaultCredentialsPath()
		}
		a.store, err = credstore.Open(path)
		if err != nil {
			return nil, err
		}
	}
	if cfg.BackendURL != "" {
		a.backend = backend.New(cfg.BackendURL, a.store, backend.WithHTTPClient(httpClient), backend.WithLogger(log.Logger))
	}

	if cfg.LLMModel != "" {
		a.drafter = &outreach.Drafter{
			Client:       llm.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, httpClient),
			Cache:        drafts,
			SystemPrompt: cfg.SystemPrompt,
		}
	}
	return a, nil
}

// Close releases idle connections held by the shared transport.
func (a *App) Close() {
	if a.httpc != nil {
		a.httpc.CloseIdleConnections()
	}
}

// DefaultCredentialsPath is the credential file under the user config dir.
func DefaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "profilecapture", "credentials.json")
}

func loadSelectors(path string) (selectors.Table, error) {
	table := selectors.Default()
	if path != "" {
		var err error
		table, err = selectors.LoadFile(path, table)
		if err != nil {
			return selectors.Table{}, fmt.Errorf("load selectors: %w", err)
		}
	}
	for _, bad := range table.Validate() {
		log.Warn().Str("field", string(bad.Field)).Str("selector", bad.Expression).Err(bad.Err).Msg("invalid selector will be skipped")
	}
	log.Debug().Str("version", table.Version()).Msg("selector table loaded")
	return table, nil
}

func limitsFrom(cfg Config) extract.Limits {
	l := extract.DefaultLimits()
	if cfg.MaxExperience > 0 {
		l.MaxExperience = cfg.MaxExperience
	}
	if cfg.MaxEducation > 0 {
		l.MaxEducation = cfg.MaxEducation
	}
	if cfg.MaxSkills > 0 {
		l.MaxSkills = cfg.MaxSkills
	}
	return l
}

// Run executes one capture: load, classify, extract, then feed the sinks.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Logout {
		return a.logout()
	}
	if a.cfg.ListJobs {
		return a.listJobs(ctx)
	}
	c, err := a.capture(ctx)
	if err != nil {
		return err
	}
	if a.cfg.Import {
		if err := a.importProfile(ctx, &c); err != nil {
			return err
		}
	}
	if a.cfg.Draft {
		if err := a.draft(ctx, &c); err != nil {
			return err
		}
	}
	if a.cfg.PDFPath != "" {
		if err := writeCandidatePDF(c.result, a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.PDFPath).Msg("candidate card written")
	}
	return a.writeJSON(a.cfg.OutputPath, c)
}
