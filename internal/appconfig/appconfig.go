// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for outbound HTTP requests.
	defaultRequestTimeout = 30 * time.Second
	// defaultStatusDelay is the fallback pause between per-pull-request API calls.
	defaultStatusDelay = 500 * time.Millisecond
	// defaultListenAddr is the fallback dashboard listen address.
	defaultListenAddr = ":8080"
	// defaultDocsPattern marks external status contexts that belong to the
	// documentation service and are pinned to the last matrix column.
	defaultDocsPattern = "readthedocs"
)

// Config represents the top-level application configuration.
type Config struct {
	DataDir    string        `json:"dataDir"`
	OutputDir  string        `json:"output,omitempty"`
	Listen     string        `json:"listen,omitempty"`
	Manifests  []ManifestRef `json:"manifests"`
	GitHub     GitHub        `json:"github"`
	Badges     Badges        `json:"badges"`
	Sync       Sync          `json:"sync"`
	LogFile    string        `json:"logFile,omitempty"`
	Debug      bool          `json:"debug"`
	TimeoutSec int           `json:"timeout,omitempty"`
	ConfigPath string        `json:"-"`
}

// ManifestRef names one benchmark manifest and the hardware class its files
// belong to. An empty class leaves benchmark names unprefixed.
type ManifestRef struct {
	Class string `json:"class,omitempty"`
	URL   string `json:"url"`
}

// GitHub holds the repository coordinates and access settings for the
// pull-request status matrix.
type GitHub struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Token       string `json:"token,omitempty"`
	APIBase     string `json:"apiBase,omitempty"`
	DelayMillis int    `json:"delayMillis,omitempty"`
	DocsPattern string `json:"docsPattern,omitempty"`
}

// Badges configures the status-badge overlay and the sync job's badge set.
type Badges struct {
	SetFile     string `json:"setFile,omitempty"`
	LastSyncURL string `json:"lastSyncUrl,omitempty"`
}

// Sync configures the benchmark-result mirror job. Each source maps a
// hardware class to the directory its result files are collected in.
type Sync struct {
	Sources  []SyncSource `json:"sources"`
	BadgeDir string       `json:"badgeDir,omitempty"`
}

// SyncSource is one mirrored result tree.
type SyncSource struct {
	Class string `json:"class,omitempty"`
	Dir   string `json:"dir"`
}

// RequestTimeout returns the timeout for outbound HTTP requests, falling back
// to the default when unset.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// ListenAddr returns the dashboard listen address, applying the default when unset.
func (c Config) ListenAddr() string {
	if strings.TrimSpace(c.Listen) == "" {
		return defaultListenAddr
	}
	return c.Listen
}

// DataDirPath returns the web-servable data directory, applying the default when unset.
func (c Config) DataDirPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return "public/data"
	}
	return c.DataDir
}

// OutputDirPath returns the static-render output directory, applying the default when unset.
func (c Config) OutputDirPath() string {
	if strings.TrimSpace(c.OutputDir) == "" {
		return "public"
	}
	return c.OutputDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "benchdash.log"
}

// StatusDelay returns the pause inserted between per-pull-request API calls.
// The delay is a rate-limit courtesy, not a correctness requirement.
func (g GitHub) StatusDelay() time.Duration {
	if g.DelayMillis <= 0 {
		return defaultStatusDelay
	}
	return time.Duration(g.DelayMillis) * time.Millisecond
}

// DocsColumnPattern returns the substring identifying documentation-service
// status contexts.
func (g GitHub) DocsColumnPattern() string {
	if strings.TrimSpace(g.DocsPattern) == "" {
		return defaultDocsPattern
	}
	return strings.ToLower(g.DocsPattern)
}

// BadgeSetFile returns the badge-set definition path, applying the default when unset.
func (b Badges) BadgeSetFile() string {
	if strings.TrimSpace(b.SetFile) == "" {
		return "config/badges.yaml"
	}
	return b.SetFile
}
