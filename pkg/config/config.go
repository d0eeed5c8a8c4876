// Package config defines the patrol run configuration, loaded from an
// optional YAML file with environment and flag overrides applied on top.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/patrol/pkg/audit"
)

// Config holds all configuration for an audit run.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Checks    ChecksConfig    `yaml:"checks"`
	Browser   BrowserConfig   `yaml:"browser"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Report    ReportConfig    `yaml:"report"`
}

// SiteConfig identifies the site under audit.
type SiteConfig struct {
	// BaseURL is the origin all audited paths are resolved against.
	BaseURL string `yaml:"base_url"`

	// Platform is the surface being audited: desktop-web, mobile-web,
	// android or ios. It selects the viewport and the platform label
	// stamped onto findings.
	Platform string `yaml:"platform"`
}

// ChecksConfig tunes the individual page checks.
type ChecksConfig struct {
	// StartIndex seeds finding numbering for the run.
	StartIndex int `yaml:"start_index"`

	// MinBodyChars is the minimum visible body text length for a page
	// to count as loaded.
	MinBodyChars int `yaml:"min_body_chars"`

	// HealthyStatusMin and HealthyStatusMax bound the HTTP status codes
	// treated as healthy: min inclusive, max exclusive.
	HealthyStatusMin int `yaml:"healthy_status_min"`
	HealthyStatusMax int `yaml:"healthy_status_max"`

	// TrustPages lists the paths checked during the trust-page sweep.
	TrustPages []string `yaml:"trust_pages"`

	// UnknownRoute is the deliberately bogus path used to probe
	// not-found handling.
	UnknownRoute string `yaml:"unknown_route"`

	// Timezone is the IANA zone findings are dated in.
	Timezone string `yaml:"timezone"`

	// IgnoreURLs lists glob patterns for URLs whose findings are
	// suppressed from the run.
	IgnoreURLs []string `yaml:"ignore_urls"`
}

// BrowserConfig tunes the browser session.
type BrowserConfig struct {
	Headless bool `yaml:"headless"`

	// Width and Height override the platform's default viewport when
	// both are set.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// NavTimeoutMS bounds a single navigation.
	NavTimeoutMS float64 `yaml:"nav_timeout_ms"`

	// SettleMS is the pause after navigation before the page is read.
	SettleMS float64 `yaml:"settle_ms"`

	// RunTimeout bounds the whole audit run.
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// ArtifactsConfig controls where run outputs are written.
type ArtifactsConfig struct {
	Dir string `yaml:"dir"`
}

// ReportConfig controls post-run reporting behavior.
type ReportConfig struct {
	// FailOnUrgent makes the process exit non-zero when any urgent
	// finding was recorded.
	FailOnUrgent bool `yaml:"fail_on_urgent"`

	// CopyToClipboard copies the markdown report to the system
	// clipboard after the run.
	CopyToClipboard bool `yaml:"copy_to_clipboard"`
}

// DefaultConfig returns a Config with sensible defaults for a desktop
// audit of the production site.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:  "https://www.almosafer.com",
			Platform: "desktop-web",
		},
		Checks: ChecksConfig{
			StartIndex:       1,
			MinBodyChars:     50,
			HealthyStatusMin: 200,
			HealthyStatusMax: 400,
			TrustPages:       []string{"/contact", "/terms", "/privacy", "/about"},
			UnknownRoute:     "/this-page-should-not-exist",
			Timezone:         "Asia/Riyadh",
		},
		Browser: BrowserConfig{
			Headless:     true,
			NavTimeoutMS: 45000,
			SettleMS:     2000,
			RunTimeout:   15 * time.Minute,
		},
		Artifacts: ArtifactsConfig{
			Dir: "artifacts",
		},
		Report: ReportConfig{},
	}
}

// Load reads a YAML config file and applies it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// ApplyEnv applies the environment overrides recognized by patrol:
// baseURL replaces the site base URL and START_INDEX replaces the
// finding numbering seed.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("baseURL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("START_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid START_INDEX %q: %w", v, err)
		}
		c.Checks.StartIndex = n
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.Site.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https, got %q", c.Site.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.Site.BaseURL)
	}

	if _, err := audit.ParsePlatform(c.Site.Platform); err != nil {
		return err
	}

	if c.Checks.StartIndex < 1 {
		return fmt.Errorf("start index must be at least 1, got %d", c.Checks.StartIndex)
	}
	if c.Checks.MinBodyChars < 0 {
		return fmt.Errorf("minimum body chars cannot be negative, got %d", c.Checks.MinBodyChars)
	}
	if c.Checks.HealthyStatusMin >= c.Checks.HealthyStatusMax {
		return fmt.Errorf("healthy status range [%d, %d) is empty",
			c.Checks.HealthyStatusMin, c.Checks.HealthyStatusMax)
	}
	if len(c.Checks.TrustPages) == 0 {
		return fmt.Errorf("at least one trust page is required")
	}
	for _, p := range c.Checks.TrustPages {
		if p == "" || p[0] != '/' {
			return fmt.Errorf("trust page %q must be an absolute path", p)
		}
	}
	if c.Checks.UnknownRoute == "" || c.Checks.UnknownRoute[0] != '/' {
		return fmt.Errorf("unknown route %q must be an absolute path", c.Checks.UnknownRoute)
	}
	if c.Checks.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(c.Checks.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Checks.Timezone, err)
	}

	if c.Browser.Width < 0 || c.Browser.Height < 0 {
		return fmt.Errorf("viewport dimensions cannot be negative")
	}
	if (c.Browser.Width == 0) != (c.Browser.Height == 0) {
		return fmt.Errorf("viewport width and height must be set together")
	}
	if c.Browser.NavTimeoutMS <= 0 {
		return fmt.Errorf("navigation timeout must be positive, got %v", c.Browser.NavTimeoutMS)
	}
	if c.Browser.SettleMS < 0 {
		return fmt.Errorf("settle delay cannot be negative, got %v", c.Browser.SettleMS)
	}
	if c.Browser.RunTimeout <= 0 {
		return fmt.Errorf("run timeout must be positive, got %v", c.Browser.RunTimeout)
	}

	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts directory is required")
	}

	return nil
}
