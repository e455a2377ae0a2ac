// Package config provides configuration management for mnemo.
//
// Settings live in ~/.mnemo/settings.json as a flat object with
// environment-style keys; real environment variables of the same name take
// precedence over the file. Everything has a usable default so the hooks
// run with no configuration at all.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// Default tunables. The capture thresholds are empirically tuned, not
// invariants; keep them here rather than hard-coded at call sites.
const (
	DefaultStoreURL        = "http://localhost:37751"
	DefaultMinSignalEvents = 2
	DefaultMinFullEvents   = 3
	DefaultTurnsBefore     = 1
	DefaultMinPayload      = 50
	DefaultMaxPayload      = 4000
	DefaultFragmentLimit   = 500
	DefaultToolOutputLimit = 500
	DefaultRecentCount     = 10
	DefaultSearchLimit     = 10
)

// DefaultSignalKeywords flag save-worthy or search-worthy turns.
var DefaultSignalKeywords = []string{
	"remember",
	"don't forget",
	"note that",
	"important:",
	"keep in mind",
	"for future reference",
	"we decided",
	"we chose",
	"convention",
	"always use",
	"never use",
	"gotcha",
	"workaround",
}

// DefaultToolAllowList restricts which tool observations survive into a
// formatted capture. Matched as case-insensitive substrings of tool names.
var DefaultToolAllowList = []string{"edit", "write", "bash", "task", "todo"}

// Config holds resolved configuration for one invocation.
type Config struct {
	StoreURL        string
	Debug           bool
	SignalKeywords  []string
	ToolAllowList   []string
	MinSignalEvents int
	MinFullEvents   int
	TurnsBefore     int
	MinPayload      int
	MaxPayload      int
	FragmentLimit   int
	ToolOutputLimit int
	RecentCount     int
	SearchLimit     int
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StoreURL:        DefaultStoreURL,
		SignalKeywords:  append([]string(nil), DefaultSignalKeywords...),
		ToolAllowList:   append([]string(nil), DefaultToolAllowList...),
		MinSignalEvents: DefaultMinSignalEvents,
		MinFullEvents:   DefaultMinFullEvents,
		TurnsBefore:     DefaultTurnsBefore,
		MinPayload:      DefaultMinPayload,
		MaxPayload:      DefaultMaxPayload,
		FragmentLimit:   DefaultFragmentLimit,
		ToolOutputLimit: DefaultToolOutputLimit,
		RecentCount:     DefaultRecentCount,
		SearchLimit:     DefaultSearchLimit,
	}
}

// DataDir returns the mnemo data directory (~/.mnemo).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".mnemo")
}

// SettingsPath returns the path to the settings file.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// SessionsDir returns the directory holding per-session state files.
func SessionsDir() string {
	return filepath.Join(DataDir(), "sessions")
}

// CursorsPath returns the path to the capture cursor file.
func CursorsPath() string {
	return filepath.Join(DataDir(), "cursors.json")
}

// CredentialsPath returns the path to the local credential file.
func CredentialsPath() string {
	return filepath.Join(DataDir(), "credentials")
}

// RulesPath returns the path to the optional classifier rule override file.
func RulesPath() string {
	return filepath.Join(DataDir(), "rules.yaml")
}

// EnsureDataDir creates the data directory tree if missing.
func EnsureDataDir() error {
	return os.MkdirAll(SessionsDir(), 0o755)
}

var (
	loadOnce sync.Once
	loaded   *Config
)

// Get returns the process-wide configuration, loading it on first use.
func Get() *Config {
	loadOnce.Do(func() {
		loaded = Load()
	})
	return loaded
}

// Load reads settings.json (if present) and applies environment overrides
// on top of the defaults. A missing or malformed settings file is treated
// as absent configuration, never an error.
func Load() *Config {
	cfg := Default()

	settings := map[string]any{}
	if data, err := os.ReadFile(SettingsPath()); err == nil {
		_ = json.Unmarshal(data, &settings)
	}

	cfg.StoreURL = stringSetting(settings, "MNEMO_STORE_URL", cfg.StoreURL)
	cfg.Debug = boolSetting(settings, "MNEMO_DEBUG", cfg.Debug)
	cfg.SignalKeywords = listSetting(settings, "MNEMO_SIGNAL_KEYWORDS", cfg.SignalKeywords)
	cfg.ToolAllowList = listSetting(settings, "MNEMO_TOOL_ALLOWLIST", cfg.ToolAllowList)
	cfg.MinSignalEvents = intSetting(settings, "MNEMO_MIN_SIGNAL_EVENTS", cfg.MinSignalEvents)
	cfg.MinFullEvents = intSetting(settings, "MNEMO_MIN_FULL_EVENTS", cfg.MinFullEvents)
	cfg.TurnsBefore = intSetting(settings, "MNEMO_TURNS_BEFORE", cfg.TurnsBefore)
	cfg.MinPayload = intSetting(settings, "MNEMO_MIN_PAYLOAD", cfg.MinPayload)
	cfg.MaxPayload = intSetting(settings, "MNEMO_MAX_PAYLOAD", cfg.MaxPayload)
	cfg.RecentCount = intSetting(settings, "MNEMO_RECENT_COUNT", cfg.RecentCount)
	cfg.SearchLimit = intSetting(settings, "MNEMO_SEARCH_LIMIT", cfg.SearchLimit)

	return cfg
}

func stringSetting(settings map[string]any, key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := settings[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intSetting(settings map[string]any, key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if v, ok := settings[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func boolSetting(settings map[string]any, key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return fallback
	}
	if v, ok := settings[key].(bool); ok {
		return v
	}
	return fallback
}

// listSetting accepts either a JSON array of strings or a comma-separated
// string (the only form an environment variable can carry).
func listSetting(settings map[string]any, key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		return splitList(v)
	}
	switch v := settings[key].(type) {
	case string:
		if v != "" {
			return splitList(v)
		}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
