package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envStrings maps environment keys to string fields.
func envStrings(cfg *Config) []struct {
	dst *string
	key string
} {
	return []struct {
		dst *string
		key string
	}{
		{&cfg.PageURL, "PROFILE_URL"},
		{&cfg.Cookie, "PAGE_COOKIE"},
		{&cfg.SelectorsPath, "SELECTORS_FILE"},
		{&cfg.BackendURL, "BACKEND_URL"},
		{&cfg.BackendEmail, "BACKEND_EMAIL"},
		{&cfg.BackendPassword, "BACKEND_PASSWORD"},
		{&cfg.CredentialsPath, "CREDENTIALS_PATH"},
		{&cfg.JobID, "JOB_ID"},
		{&cfg.Tone, "OUTREACH_TONE"},
		{&cfg.LLMBaseURL, "LLM_BASE_URL"},
		{&cfg.LLMModel, "LLM_MODEL"},
		{&cfg.LLMAPIKey, "LLM_API_KEY"},
		{&cfg.CacheDir, "CACHE_DIR"},
	}
}

func envBools(cfg *Config) []struct {
	dst *bool
	key string
} {
	return []struct {
		dst *bool
		key string
	}{
		{&cfg.Verbose, "VERBOSE"},
		{&cfg.CacheClear, "CACHE_CLEAR"},
		{&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS"},
		{&cfg.BypassCache, "CACHE_BYPASS"},
	}
}

// ApplyEnvToConfig fills unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	for _, e := range envStrings(cfg) {
		if *e.dst == "" {
			*e.dst = os.Getenv(e.key)
		}
	}
	if cfg.CacheMaxAge == 0 {
		if d, ok := envDuration("CACHE_MAX_AGE"); ok {
			cfg.CacheMaxAge = d
		}
	}
	if cfg.Retries == 0 {
		if n, ok := envInt("CAPTURE_RETRIES"); ok {
			cfg.Retries = n
		}
	}
	for _, e := range envBools(cfg) {
		if v, ok := envBool(e.key); ok && v && !*e.dst {
			*e.dst = true
		}
	}
}

// ApplyEnvOverrides overrides cfg with every environment variable that is
// set. It runs before the config file is applied so env beats file while
// flags stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	for _, e := range envStrings(cfg) {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}
	if d, ok := envDuration("CACHE_MAX_AGE"); ok {
		cfg.CacheMaxAge = d
	}
	if n, ok := envInt("CAPTURE_RETRIES"); ok {
		cfg.Retries = n
	}
	for _, e := range envBools(cfg) {
		if v, ok := envBool(e.key); ok {
			*e.dst = v
		}
	}
}

func envDuration(key string) (time.Duration, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	return d, err == nil
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil && n >= 0
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
