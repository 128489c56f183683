package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/Clark-Hu/repo-stars/internal/logging"
)

// repoEntry is the subset of the repository payload the mock serves. Fields
// are raw so fixtures can carry malformed counts.
type repoEntry struct {
	FullName        string          `json:"full_name"`
	HTMLURL         string          `json:"html_url"`
	StargazersCount json.RawMessage `json:"stargazers_count,omitempty"`
}

// fixture maps "owner/repo" to a payload. A "status" override makes the mock
// answer with that status instead.
type fixture struct {
	Repos  map[string]repoEntry `json:"repos"`
	Status map[string]int       `json:"status"`
}

func main() {
	var (
		port    = flag.StringP("port", "p", "9099", "port to listen on")
		data    = flag.StringP("data", "d", "mock-github.json", "path to mock data file")
		verbose = flag.BoolP("log", "l", false, "enable request logging")
	)
	flag.Parse()

	logger := logging.New(os.Stderr, "info", "console")

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Msg("read mock data")
	}

	var payload fixture
	if err := json.Unmarshal(file, &payload); err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("repos", len(payload.Repos)).Msg("mock github listening")
	if err := http.ListenAndServe(addr, newRouter(payload, logger, *verbose)); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newRouter(payload fixture, logger zerolog.Logger, verbose bool) http.Handler {
	// GitHub matches owner and repo case-insensitively.
	repos := make(map[string]repoEntry, len(payload.Repos))
	for k, v := range payload.Repos {
		repos[strings.ToLower(k)] = v
	}
	statuses := make(map[string]int, len(payload.Status))
	for k, v := range payload.Status {
		statuses[strings.ToLower(k)] = v
	}
	payload = fixture{Repos: repos, Status: statuses}

	r := chi.NewRouter()
	if verbose {
		r.Use(middleware.Logger)
	}
	r.Get("/repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		key := strings.ToLower(chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo"))
		if status, ok := payload.Status[key]; ok {
			http.Error(w, http.StatusText(status), status)
			return
		}
		entry, ok := payload.Repos[key]
		if !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			logger.Error().Err(err).Str("repo", key).Msg("encode mock response")
		}
	})
	return r
}
