package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/profilecapture/internal/app"
)

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("profilecapture", flag.ContinueOnError)
}

func TestParseConfig_Layering(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("BACKEND_URL", "https://env.example.com")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pc.yaml")
	yml := "backend:\n  url: https://file.example.com\n  job: file-job\nretry:\n  count: 4\nllm:\n  model: file-model\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := parseConfig(newFlagSet(), []string{
		"-input", "page.html",
		"-config", cfgPath,
		"-env", filepath.Join(dir, "missing.env"),
		"-retries", "1",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMModel != "env-model" {
		t.Fatalf("env should beat file, got %q", cfg.LLMModel)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Fatalf("BackendURL=%q", cfg.BackendURL)
	}
	if cfg.JobID != "file-job" {
		t.Fatalf("file should fill unset job, got %q", cfg.JobID)
	}
	if cfg.Retries != 1 {
		t.Fatalf("flag should beat file, got %d", cfg.Retries)
	}
	if cfg.OutputPath != "-" || cfg.RetryInterval != app.DefaultRetryInterval {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestParseConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	cfg, err := parseConfig(newFlagSet(), []string{"-input", "p.html", "-llm.model", "flag-model", "-env", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("LLMModel=%q", cfg.LLMModel)
	}
}

func TestParseConfig_ExplicitDefaultBeatsFile(t *testing.T) {
	t.Setenv("CACHE_CLEAR", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pc.yaml")
	yml := "output: file.json\nmax:\n  experience: 3\n  skills: 7\nretry:\n  interval: 5s\ncache:\n  clear: true\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := parseConfig(newFlagSet(), []string{
		"-input", "page.html",
		"-config", cfgPath,
		"-env", "",
		"-output", "-",
		"-max.experience", "10",
		"-retry.interval", "2s",
		"-cache.clear=false",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MaxExperience != 10 || cfg.OutputPath != "-" || cfg.RetryInterval != 2*time.Second || cfg.CacheClear {
		t.Fatalf("explicit flags lost to file: %+v", cfg)
	}
	if cfg.MaxSkills != 7 {
		t.Fatalf("file should fill unset max.skills, got %d", cfg.MaxSkills)
	}
}

func TestParseConfig_LogoutNeedsNoInput(t *testing.T) {
	t.Setenv("PROFILE_URL", "")
	cfg, err := parseConfig(newFlagSet(), []string{"-logout", "-env", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Logout {
		t.Fatalf("Logout not set")
	}
}

func TestParseConfig_DotEnv(t *testing.T) {
	t.Setenv("PROFILE_URL", "")
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("PROFILE_URL=https://www.linkedin.com/in/jane-doe\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := parseConfig(newFlagSet(), []string{"-env", envPath})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.PageURL != "https://www.linkedin.com/in/jane-doe" {
		t.Fatalf("PageURL=%q", cfg.PageURL)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	t.Setenv("PROFILE_URL", "")
	if _, err := parseConfig(newFlagSet(), []string{"-env", ""}); err == nil {
		t.Fatalf("expected validation error without input or url")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("wrapped: %w", app.ErrNotProfilePage), exitNotProfile},
		{errors.New("boom"), exitError},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v)=%d want %d", tc.err, got, tc.want)
		}
	}
}

// Smoke test: a saved page produces a capture file.
func TestRun_WritesCapture(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "capture.json")
	cfg := app.Config{
		InputPath:     filepath.Join("..", "..", "internal", "app", "testdata", "profile.html"),
		OutputPath:    out,
		RetryInterval: time.Millisecond,
		CacheDir:      filepath.Join(dir, "cache"),
	}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil || len(b) == 0 {
		t.Fatalf("expected output file, err=%v", err)
	}
}
