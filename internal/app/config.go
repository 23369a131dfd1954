package app

import "time"

// Config holds runtime configuration for one capture run.
type Config struct {
	// Source: a saved HTML file, a page URL, or both (the URL then names the
	// file's origin).
	InputPath string
	PageURL   string
	Cookie    string
	UserAgent string
	// FetchInterval is the minimum spacing between page requests. Zero
	// leaves fetches unpaced.
	FetchInterval time.Duration

	// Sinks
	OutputPath string
	PDFPath    string

	// Extraction
	SelectorsPath string
	MaxExperience int
	MaxEducation  int
	MaxSkills     int
	Retries       int
	RetryInterval time.Duration

	// Backend
	BackendURL      string
	BackendEmail    string
	BackendPassword string
	CredentialsPath string
	Import          bool
	JobID           string
	ListJobs        bool
	Logout          bool

	// Outreach
	Draft        bool
	Tone         string
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	SystemPrompt string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	BypassCache      bool

	Verbose bool
}
