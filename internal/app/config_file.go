package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/profilecapture/internal/extract"
	"github.com/hyperifyio/profilecapture/internal/outreach"
)

// Flag defaults. ApplyFileConfig treats a field still holding its default
// as unset.
const (
	DefaultOutput        = "-"
	DefaultCacheDir      = ".profilecapture-cache"
	DefaultRetryInterval = 2 * time.Second
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input     string `yaml:"input" json:"input"`
	URL       string `yaml:"url" json:"url"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Selectors string `yaml:"selectors" json:"selectors"`
	Cookie    string `yaml:"cookie" json:"cookie"`
	UserAgent string `yaml:"userAgent" json:"userAgent"`

	Max struct {
		Experience int `yaml:"experience" json:"experience"`
		Education  int `yaml:"education" json:"education"`
		Skills     int `yaml:"skills" json:"skills"`
	} `yaml:"max" json:"max"`

	Retry struct {
		Count    int           `yaml:"count" json:"count"`
		Interval time.Duration `yaml:"interval" json:"interval"`
	} `yaml:"retry" json:"retry"`

	Backend struct {
		URL         string `yaml:"url" json:"url"`
		Email       string `yaml:"email" json:"email"`
		Credentials string `yaml:"credentials" json:"credentials"`
		Import      bool   `yaml:"import" json:"import"`
		JobID       string `yaml:"job" json:"job"`
	} `yaml:"backend" json:"backend"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Outreach struct {
		Draft            bool   `yaml:"draft" json:"draft"`
		Tone             string `yaml:"tone" json:"tone"`
		SystemPrompt     string `yaml:"systemPrompt" json:"systemPrompt"`
		SystemPromptFile string `yaml:"systemPromptFile" json:"systemPromptFile"`
	} `yaml:"outreach" json:"outreach"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	if fc.Outreach.SystemPromptFile != "" && fc.Outreach.SystemPrompt == "" {
		p, err := os.ReadFile(fc.Outreach.SystemPromptFile)
		if err != nil {
			return fc, fmt.Errorf("read system prompt: %w", err)
		}
		fc.Outreach.SystemPrompt = string(p)
	}
	return fc, nil
}

// ApplyFileConfig overlays fc onto fields of cfg that are unset or still
// hold their flag default.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, def, v string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	num := func(dst *int, def, v int) {
		if (*dst == 0 || *dst == def) && v > 0 {
			*dst = v
		}
	}
	on := func(dst *bool, v bool) {
		if !*dst && v {
			*dst = true
		}
	}
	lim := extract.DefaultLimits()

	str(&cfg.InputPath, "", fc.Input)
	str(&cfg.PageURL, "", fc.URL)
	str(&cfg.OutputPath, DefaultOutput, fc.Output)
	str(&cfg.PDFPath, "", fc.OutputPDF)
	str(&cfg.SelectorsPath, "", fc.Selectors)
	str(&cfg.Cookie, "", fc.Cookie)
	str(&cfg.UserAgent, defaultUserAgent(), fc.UserAgent)

	num(&cfg.MaxExperience, lim.MaxExperience, fc.Max.Experience)
	num(&cfg.MaxEducation, lim.MaxEducation, fc.Max.Education)
	num(&cfg.MaxSkills, lim.MaxSkills, fc.Max.Skills)
	num(&cfg.Retries, 0, fc.Retry.Count)
	if (cfg.RetryInterval == 0 || cfg.RetryInterval == DefaultRetryInterval) && fc.Retry.Interval > 0 {
		cfg.RetryInterval = fc.Retry.Interval
	}

	str(&cfg.BackendURL, "", fc.Backend.URL)
	str(&cfg.BackendEmail, "", fc.Backend.Email)
	str(&cfg.CredentialsPath, "", fc.Backend.Credentials)
	str(&cfg.JobID, "", fc.Backend.JobID)
	on(&cfg.Import, fc.Backend.Import)

	str(&cfg.LLMBaseURL, "", fc.LLM.BaseURL)
	str(&cfg.LLMModel, "", fc.LLM.Model)
	str(&cfg.LLMAPIKey, "", fc.LLM.APIKey)
	str(&cfg.Tone, outreach.DefaultTone, fc.Outreach.Tone)
	str(&cfg.SystemPrompt, "", fc.Outreach.SystemPrompt)
	on(&cfg.Draft, fc.Outreach.Draft)

	str(&cfg.CacheDir, DefaultCacheDir, fc.Cache.Dir)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	on(&cfg.CacheClear, fc.Cache.Clear)
	on(&cfg.CacheStrictPerms, fc.Cache.StrictPerms)
	on(&cfg.Verbose, fc.Verbose)
}

// ValidateConfig checks settings that would otherwise fail deep in a run.
func ValidateConfig(cfg Config) error {
	if cfg.Logout {
		return nil
	}
	if cfg.ListJobs {
		if strings.TrimSpace(cfg.BackendURL) == "" {
			return errors.New("config: backend.url is required to list jobs (or set BACKEND_URL)")
		}
		return nil
	}
	if strings.TrimSpace(cfg.InputPath) == "" && strings.TrimSpace(cfg.PageURL) == "" {
		return errors.New("config: an input file or a page URL is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if cfg.Import && strings.TrimSpace(cfg.BackendURL) == "" {
		return errors.New("config: backend.url is required for import (or set BACKEND_URL)")
	}
	if cfg.Draft && strings.TrimSpace(cfg.LLMModel) == "" && strings.TrimSpace(cfg.BackendURL) == "" {
		return errors.New("config: drafting needs llm.model or backend.url")
	}
	if cfg.MaxExperience < 0 || cfg.MaxEducation < 0 || cfg.MaxSkills < 0 || cfg.Retries < 0 || cfg.RetryInterval < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
