package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port              string
	RepoOwner         string
	RepoName          string
	GitHubAPIURL      string
	GitHubURL         string
	GitHubToken       string
	GitHubTimeoutSecs int
	FallbackPolicy    string
	FallbackMarker    string
	FallbackStars     int
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
	ReadTimeoutSecs   int
	WriteTimeoutSecs  int
	IdleTimeoutSecs   int
	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
}

// LoadDotEnv loads variables from the given .env files without overriding the
// environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		RepoOwner:         getEnv("REPO_OWNER", "eonist"),
		RepoName:          getEnv("REPO_NAME", "claude-talk-to-figma-mcp"),
		GitHubAPIURL:      getEnv("GITHUB_API_URL", "https://api.github.com"),
		GitHubURL:         getEnv("GITHUB_URL", "https://github.com"),
		GitHubToken:       os.Getenv("GITHUB_TOKEN"),
		GitHubTimeoutSecs: getEnvInt("GITHUB_TIMEOUT_SECS", 10),
		FallbackPolicy:    strings.ToLower(getEnv("FALLBACK_POLICY", "marker")),
		FallbackMarker:    getEnv("FALLBACK_MARKER", "N/A"),
		FallbackStars:     getEnvInt("FALLBACK_STARS", 134),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
		CORSOrigins:       splitCSV(os.Getenv("CORS_ORIGINS")),
		ReadTimeoutSecs:   getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:  getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:   getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBURL:             os.Getenv("DB_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 0),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 128),
	}

	if strings.TrimSpace(cfg.RepoOwner) == "" || strings.TrimSpace(cfg.RepoName) == "" {
		return Config{}, fmt.Errorf("REPO_OWNER and REPO_NAME are required")
	}
	if strings.ContainsRune(cfg.RepoOwner, '/') || strings.ContainsRune(cfg.RepoName, '/') {
		return Config{}, fmt.Errorf("REPO_OWNER and REPO_NAME must not contain '/'")
	}
	if cfg.GitHubTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("GITHUB_TIMEOUT_SECS must be positive")
	}
	if cfg.FallbackPolicy != "marker" && cfg.FallbackPolicy != "default" {
		return Config{}, fmt.Errorf("FALLBACK_POLICY must be one of marker, default")
	}
	if cfg.FallbackStars < 0 {
		return Config{}, fmt.Errorf("FALLBACK_STARS must be non-negative")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be one of json, console")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
