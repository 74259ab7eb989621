package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOCUSMODE_CONFIG", "")
	t.Setenv("AI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("fetch timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("ai timeout = %v, want 60s", cfg.AI.Timeout)
	}
	if cfg.AI.Provider != "openrouter" {
		t.Errorf("provider = %q, want openrouter", cfg.AI.Provider)
	}
	if cfg.Auth.Enabled {
		t.Error("auth should be disabled by default")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "focusmode.yaml")
	content := `
server:
  port: 7000
fetch:
  timeout: 3s
ai:
  provider: huggingface
  huggingfaceModel: sshleifer/distilbart-cnn-12-6
cors:
  allowedOrigins:
    - https://reader.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FOCUSMODE_CONFIG", path)
	t.Setenv("FOCUSMODE_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"env overrides file", cfg.Server.Port, 7100},
		{"file duration", cfg.Fetch.Timeout, 3 * time.Second},
		{"file provider", cfg.AI.Provider, "huggingface"},
		{"file model", cfg.AI.HuggingFaceModel, "sshleifer/distilbart-cnn-12-6"},
		{"untouched default", cfg.AI.OpenRouterModel, "meta-llama/llama-3.1-8b-instruct:free"},
		{"file slice", len(cfg.CORS.AllowedOrigins), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("FOCUSMODE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_ServerMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"debug", false},
		{"release", false},
		{"test", false},
		{"bogus", true},
		{"Release", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Setenv("FOCUSMODE_CONFIG", "")
			t.Setenv("FOCUSMODE_MODE", tt.mode)
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for mode %q", tt.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Server.Mode != tt.mode {
				t.Errorf("mode = %q, want %q", cfg.Server.Mode, tt.mode)
			}
		})
	}
}

func TestEnvSliceOr(t *testing.T) {
	t.Setenv("FOCUSMODE_TEST_SLICE", " a, ,b ,c")
	got := envSliceOr("FOCUSMODE_TEST_SLICE", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("envSliceOr = %q", got)
	}
}
