package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/profilecapture/internal/app"
	"github.com/hyperifyio/profilecapture/internal/extract"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitNotProfile = 2
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(exitError)
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(exitCode(run(ctx, cfg)))
}

// parseConfig layers configuration: flags, then env overrides, then the
// config file for whatever is still unset, then env defaults. Dotenv files
// load first so they count as env.
func parseConfig(fs *flag.FlagSet, args []string) (app.Config, error) {
	var (
		cfg        app.Config
		configPath string
		envFiles   string
		version    bool
	)
	lim := extract.DefaultLimits()

	fs.StringVar(&cfg.InputPath, "input", "", "Path to a saved profile page (HTML)")
	fs.StringVar(&cfg.PageURL, "url", "", "Profile page URL; fetched when -input is empty")
	fs.StringVar(&cfg.OutputPath, "output", app.DefaultOutput, "Path for the capture JSON; - writes to stdout")
	fs.StringVar(&cfg.PDFPath, "pdf", "", "Optional path for a candidate card PDF")
	fs.StringVar(&cfg.SelectorsPath, "selectors", "", "YAML or JSON selector table overriding the built-in one")
	fs.StringVar(&cfg.Cookie, "cookie", "", "Cookie header sent when fetching the page (or PAGE_COOKIE)")
	fs.StringVar(&cfg.UserAgent, "ua", app.DefaultUserAgent(), "User-Agent for page fetches")
	fs.DurationVar(&cfg.FetchInterval, "fetch.interval", time.Second, "Minimum spacing between page requests; 0 disables pacing")
	fs.IntVar(&cfg.MaxExperience, "max.experience", lim.MaxExperience, "Maximum experience entries")
	fs.IntVar(&cfg.MaxEducation, "max.education", lim.MaxEducation, "Maximum education entries")
	fs.IntVar(&cfg.MaxSkills, "max.skills", lim.MaxSkills, "Maximum skills")
	fs.IntVar(&cfg.Retries, "retries", 0, "Extra extraction attempts while the name is not rendered")
	fs.DurationVar(&cfg.RetryInterval, "retry.interval", app.DefaultRetryInterval, "Wait between extraction attempts")

	fs.StringVar(&cfg.BackendURL, "backend.url", "", "Recruiting backend base URL (or BACKEND_URL)")
	fs.StringVar(&cfg.CredentialsPath, "credentials", "", "Credential store path (default under the user config dir)")
	fs.BoolVar(&cfg.Import, "import", false, "Import the captured profile into the backend")
	fs.StringVar(&cfg.JobID, "job", "", "Job id to attach the candidate to; remembered for later runs")
	fs.BoolVar(&cfg.ListJobs, "jobs", false, "List backend jobs and exit")
	fs.BoolVar(&cfg.Logout, "logout", false, "Clear the stored session and exit")

	fs.BoolVar(&cfg.Draft, "draft", false, "Draft an outreach message")
	fs.StringVar(&cfg.Tone, "tone", "", "Outreach tone; remembered for later runs")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (or LLM_BASE_URL)")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name; without it drafts come from the backend (or LLM_MODEL)")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for the model server (or LLM_API_KEY)")

	fs.StringVar(&cfg.CacheDir, "cache.dir", app.DefaultCacheDir, "Cache directory for pages and drafts")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this; 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before the run")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.BoolVar(&cfg.BypassCache, "cache.bypass", false, "Always fetch fresh pages")

	fs.StringVar(&configPath, "config", os.Getenv("PROFILECAPTURE_CONFIG"), "YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if version {
		fmt.Printf("profilecapture %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		os.Exit(exitOK)
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		return cfg, fmt.Errorf("load env files: %w", err)
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	explicit := cfg
	app.ApplyEnvOverrides(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", configPath, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)
	restoreFlags(&cfg, explicit, set)
	return cfg, app.ValidateConfig(cfg)
}

// restoreFlags puts back values the user passed on the command line so env
// and file never beat an explicit flag.
func restoreFlags(cfg *app.Config, explicit app.Config, set map[string]bool) {
	pairs := map[string]func(){
		"input":             func() { cfg.InputPath = explicit.InputPath },
		"url":               func() { cfg.PageURL = explicit.PageURL },
		"output":            func() { cfg.OutputPath = explicit.OutputPath },
		"pdf":               func() { cfg.PDFPath = explicit.PDFPath },
		"selectors":         func() { cfg.SelectorsPath = explicit.SelectorsPath },
		"cookie":            func() { cfg.Cookie = explicit.Cookie },
		"ua":                func() { cfg.UserAgent = explicit.UserAgent },
		"fetch.interval":    func() { cfg.FetchInterval = explicit.FetchInterval },
		"max.experience":    func() { cfg.MaxExperience = explicit.MaxExperience },
		"max.education":     func() { cfg.MaxEducation = explicit.MaxEducation },
		"max.skills":        func() { cfg.MaxSkills = explicit.MaxSkills },
		"retries":           func() { cfg.Retries = explicit.Retries },
		"retry.interval":    func() { cfg.RetryInterval = explicit.RetryInterval },
		"backend.url":       func() { cfg.BackendURL = explicit.BackendURL },
		"credentials":       func() { cfg.CredentialsPath = explicit.CredentialsPath },
		"import":            func() { cfg.Import = explicit.Import },
		"job":               func() { cfg.JobID = explicit.JobID },
		"draft":             func() { cfg.Draft = explicit.Draft },
		"tone":              func() { cfg.Tone = explicit.Tone },
		"llm.base":          func() { cfg.LLMBaseURL = explicit.LLMBaseURL },
		"llm.model":         func() { cfg.LLMModel = explicit.LLMModel },
		"llm.key":           func() { cfg.LLMAPIKey = explicit.LLMAPIKey },
		"cache.dir":         func() { cfg.CacheDir = explicit.CacheDir },
		"cache.maxAge":      func() { cfg.CacheMaxAge = explicit.CacheMaxAge },
		"cache.clear":       func() { cfg.CacheClear = explicit.CacheClear },
		"cache.strictPerms": func() { cfg.CacheStrictPerms = explicit.CacheStrictPerms },
		"cache.bypass":      func() { cfg.BypassCache = explicit.BypassCache },
		"v":                 func() { cfg.Verbose = explicit.Verbose },
	}
	for name, restore := range pairs {
		if set[name] {
			restore()
		}
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return a.Run(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, app.ErrNotProfilePage):
		log.Warn().Err(err).Msg("nothing captured")
		return exitNotProfile
	default:
		log.Error().Err(err).Msg("run failed")
		return exitError
	}
}
