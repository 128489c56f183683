package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.RepoOwner != "eonist" || cfg.RepoName != "claude-talk-to-figma-mcp" {
		t.Fatalf("repo = %s/%s, want eonist/claude-talk-to-figma-mcp", cfg.RepoOwner, cfg.RepoName)
	}
	if cfg.GitHubAPIURL != "https://api.github.com" {
		t.Fatalf("GitHubAPIURL = %s", cfg.GitHubAPIURL)
	}
	if cfg.FallbackPolicy != "marker" || cfg.FallbackMarker != "N/A" || cfg.FallbackStars != 134 {
		t.Fatalf("unexpected fallback defaults: %+v", cfg)
	}
	if cfg.DBURL != "" {
		t.Fatalf("DBURL = %q, want empty", cfg.DBURL)
	}
}

func TestLoadSuccess(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REPO_OWNER", "acme")
	t.Setenv("REPO_NAME", "widget")
	t.Setenv("FALLBACK_POLICY", "Default")
	t.Setenv("FALLBACK_STARS", "7")
	t.Setenv("SERVER_READ_TIMEOUT", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MIN_CONNS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.RepoOwner != "acme" || cfg.RepoName != "widget" {
		t.Fatalf("repo = %s/%s, want acme/widget", cfg.RepoOwner, cfg.RepoName)
	}
	if cfg.FallbackPolicy != "default" || cfg.FallbackStars != 7 {
		t.Fatalf("fallback = %s/%d, want default/7", cfg.FallbackPolicy, cfg.FallbackStars)
	}
	if cfg.ReadTimeoutSecs != 30 {
		t.Fatalf("ReadTimeoutSecs = %d, want 30", cfg.ReadTimeoutSecs)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.DBMaxConns != 40 || cfg.DBMinConns != 5 {
		t.Fatalf("DB conns = %d/%d, want 40/5", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"slash in owner", map[string]string{"REPO_OWNER": "a/b"}, "REPO_OWNER"},
		{"blank repo name", map[string]string{"REPO_NAME": "  "}, "REPO_NAME"},
		{"negative timeout", map[string]string{"GITHUB_TIMEOUT_SECS": "-1"}, "GITHUB_TIMEOUT_SECS"},
		{"unknown policy", map[string]string{"FALLBACK_POLICY": "falsy"}, "FALLBACK_POLICY"},
		{"negative fallback stars", map[string]string{"FALLBACK_STARS": "-2"}, "FALLBACK_STARS"},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"min greater than max connections", map[string]string{"DB_MAX_CONNS": "5", "DB_MIN_CONNS": "10"}, "DB_MIN_CONNS"},
		{"negative statement cache", map[string]string{"DB_STATEMENT_CACHE_CAPACITY": "-1"}, "DB_STATEMENT_CACHE_CAPACITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REPO_NAME=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("REPO_NAME", "")
	os.Unsetenv("REPO_NAME")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.RepoName != "from-dotenv" {
		t.Fatalf("RepoName = %s, want from-dotenv", cfg.RepoName)
	}
}
