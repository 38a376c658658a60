package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName    = "stlctl"
	fileName   = "config.json"
	DefaultURL = "http://localhost:8080"
)

// Config is the per-user stlctl state. Logout drops Token and Role; Email
// stays as the default account for the next login.
type Config struct {
	ServerURL string `json:"server_url"`
	PageSize  int    `json:"page_size,omitempty"`

	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// NormalizeServerURL accepts an http(s) base URL, with or without the /api
// suffix, and returns it without a trailing slash.
func NormalizeServerURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Load reads the config from disk. A missing file yields the defaults and a
// stored server URL that no longer parses is reported rather than used.
func Load() (*Config, error) {
	cfg := &Config{ServerURL: DefaultURL}

	p, err := Path()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultURL
	}
	if cfg.ServerURL, err = NormalizeServerURL(cfg.ServerURL); err != nil {
		return nil, err
	}
	if cfg.PageSize < 0 {
		cfg.PageSize = 0
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// The file holds a bearer token.
	if err := os.WriteFile(p, data, 0600); err != nil {
		return err
	}
	return os.Chmod(p, 0600)
}

// SetSession records a successful login.
func (c *Config) SetSession(token, email, role string) {
	c.Token = token
	c.Email = email
	c.Role = role
}

// ClearSession forgets the token and role and returns the email they
// belonged to.
func (c *Config) ClearSession() string {
	c.Token = ""
	c.Role = ""
	return c.Email
}

func (c *Config) HasToken() bool {
	return c.Token != ""
}
