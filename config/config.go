package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetch     FetchConfig     `yaml:"fetch"`
	AI        AIConfig        `yaml:"ai"`
	CORS      CORSConfig      `yaml:"cors"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"` // default: "0.0.0.0"
	Port int    `yaml:"port"` // default: 5000
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	// Timeout bounds the direct fetch. The relay fallback gets twice this.
	Timeout time.Duration `yaml:"timeout"` // default: 10s

	// RelayURL is the pass-through relay used when the direct fetch fails.
	// The target URL is appended as the url query parameter.
	RelayURL string `yaml:"relayURL"` // default: "https://api.allorigins.win/raw"

	// UserAgent is sent on direct fetches.
	UserAgent string `yaml:"userAgent"`

	// DisableRelay turns the fallback attempt off entirely.
	DisableRelay bool `yaml:"disableRelay"`
}

// AIConfig controls the text-generation provider.
type AIConfig struct {
	// APIKey is the server-side provider key. Requests may bring their own.
	APIKey string `yaml:"apiKey"`

	// Provider selects the backend: "openrouter" (default) or "huggingface".
	Provider string `yaml:"provider"`

	OpenRouterURL    string `yaml:"openrouterURL"`    // default: "https://openrouter.ai/api/v1"
	OpenRouterModel  string `yaml:"openrouterModel"`  // default: "meta-llama/llama-3.1-8b-instruct:free"
	HuggingFaceURL   string `yaml:"huggingfaceURL"`   // default: "https://api-inference.huggingface.co/models/"
	HuggingFaceModel string `yaml:"huggingfaceModel"` // default: "facebook/bart-large-cnn"

	// Timeout bounds a single provider call; generous to absorb cold starts.
	Timeout time.Duration `yaml:"timeout"` // default: 60s

	// ColdStartThreshold flags successful calls slower than this.
	ColdStartThreshold time.Duration `yaml:"coldStartThreshold"` // default: 10s
}

// CORSConfig controls cross-origin access to /api routes.
type CORSConfig struct {
	// AllowedOrigins accepts exact origins or a trailing ":*" port wildcard.
	AllowedOrigins []string `yaml:"allowedOrigins"` // default: localhost and 127.0.0.1 on any port
}

// AuthConfig controls API key authentication of this service itself.
type AuthConfig struct {
	// Enabled toggles service authentication.
	Enabled bool `yaml:"enabled"` // default: false

	// APIKeys is the list of accepted service keys.
	APIKeys []string `yaml:"apiKeys"`
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"` // default: 1

	// Burst is the maximum burst size per client.
	Burst int `yaml:"burst"` // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "json"

	// File, when set, sends logs to a size-rotated file instead of the
	// process output stream.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`  // default: 100
	MaxBackups int    `yaml:"maxBackups"` // default: 3
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Mode: "release",
		},
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			RelayURL:  "https://api.allorigins.win/raw",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		},
		AI: AIConfig{
			Provider:           "openrouter",
			OpenRouterURL:      "https://openrouter.ai/api/v1",
			OpenRouterModel:    "meta-llama/llama-3.1-8b-instruct:free",
			HuggingFaceURL:     "https://api-inference.huggingface.co/models/",
			HuggingFaceModel:   "facebook/bart-large-cnn",
			Timeout:            60 * time.Second,
			ColdStartThreshold: 10 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load builds the configuration in three layers: built-in defaults, the YAML
// file named by FOCUSMODE_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("FOCUSMODE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects values that would otherwise fail later at startup.
func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
		return nil
	default:
		return fmt.Errorf("config: invalid server mode %q (want debug, release or test)", c.Server.Mode)
	}
}

// mergeFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = envOr("FOCUSMODE_HOST", c.Server.Host)
	c.Server.Port = envIntOr("FOCUSMODE_PORT", c.Server.Port)
	c.Server.Mode = envOr("FOCUSMODE_MODE", c.Server.Mode)

	c.Fetch.Timeout = envDurationOr("FOCUSMODE_FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.RelayURL = envOr("FOCUSMODE_RELAY_URL", c.Fetch.RelayURL)
	c.Fetch.UserAgent = envOr("FOCUSMODE_USER_AGENT", c.Fetch.UserAgent)
	c.Fetch.DisableRelay = envBoolOr("FOCUSMODE_DISABLE_RELAY", c.Fetch.DisableRelay)

	c.AI.APIKey = envOr("AI_API_KEY", c.AI.APIKey)
	c.AI.Provider = envOr("AI_API_PROVIDER", c.AI.Provider)
	c.AI.OpenRouterURL = envOr("OPENROUTER_URL", c.AI.OpenRouterURL)
	c.AI.OpenRouterModel = envOr("OPENROUTER_MODEL", c.AI.OpenRouterModel)
	c.AI.HuggingFaceURL = envOr("HUGGINGFACE_URL", c.AI.HuggingFaceURL)
	c.AI.HuggingFaceModel = envOr("HUGGINGFACE_MODEL", c.AI.HuggingFaceModel)
	c.AI.Timeout = envDurationOr("FOCUSMODE_AI_TIMEOUT", c.AI.Timeout)
	c.AI.ColdStartThreshold = envDurationOr("FOCUSMODE_COLD_START_THRESHOLD", c.AI.ColdStartThreshold)

	c.CORS.AllowedOrigins = envSliceOr("FOCUSMODE_CORS_ORIGINS", c.CORS.AllowedOrigins)

	c.Auth.Enabled = envBoolOr("FOCUSMODE_AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.APIKeys = envSliceOr("FOCUSMODE_API_KEYS", c.Auth.APIKeys)

	c.RateLimit.RequestsPerSecond = envFloatOr("FOCUSMODE_RATE_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = envIntOr("FOCUSMODE_RATE_BURST", c.RateLimit.Burst)

	c.Log.Level = envOr("FOCUSMODE_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("FOCUSMODE_LOG_FORMAT", c.Log.Format)
	c.Log.File = envOr("FOCUSMODE_LOG_FILE", c.Log.File)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
