package httpserver

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Clark-Hu/repo-stars/internal/domain"
	"github.com/Clark-Hu/repo-stars/internal/repository"
	"github.com/Clark-Hu/repo-stars/internal/stars"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type indexPage struct {
	Repo         domain.Repo
	StarsText    string
	DownloadPath string
}

type starsResponse struct {
	Owner      string    `json:"owner"`
	Repo       string    `json:"repo"`
	Stars      *int64    `json:"stars"`
	Display    string    `json:"display"`
	Text       string    `json:"text"`
	Live       bool      `json:"live"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
	URL        string    `json:"url"`
}

type snapshotListResponse struct {
	Items      []snapshotResponse `json:"items"`
	NextCursor *string            `json:"nextCursor,omitempty"`
}

type snapshotResponse struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Repo       string    `json:"repo"`
	Stars      *int64    `json:"stars"`
	Text       string    `json:"text"`
	Live       bool      `json:"live"`
	ErrorKind  *string   `json:"errorKind,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// handleIndex resolves the count once for this page load and renders it
// into the #stars-count element.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	surface := &stars.TextSurface{}
	s.display.Initialize(r.Context(), surface)

	var buf bytes.Buffer
	page := indexPage{
		Repo:         s.display.Repo(),
		StarsText:    surface.Text(),
		DownloadPath: "/download",
	}
	if err := indexTemplate.Execute(&buf, page); err != nil {
		s.logger.Error().Err(err).Msg("render index page failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleDownload sends the visitor to the repository page.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.repoURL(), http.StatusFound)
}

func (s *Server) handleGetStars(w http.ResponseWriter, r *http.Request) {
	surface := &stars.TextSurface{}
	res := s.display.Initialize(r.Context(), surface)

	resp := starsResponse{
		Owner:      res.Repo.Owner,
		Repo:       res.Repo.Name,
		Display:    res.Count.String(),
		Text:       surface.Text(),
		Live:       res.Live,
		ErrorKind:  res.ErrorKind,
		ResolvedAt: res.ResolvedAt,
		URL:        s.repoURL(),
	}
	if n, ok := res.Count.Value(); ok && res.Live {
		resp.Stars = &n
	}
	w.Header().Set("Cache-Control", "no-store")
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.respondError(w, http.StatusNotFound, "HISTORY_DISABLED", "Snapshot history requires a database")
		return
	}

	repo := s.display.Repo()
	filters := repository.SnapshotListFilters{Owner: repo.Owner, Repo: repo.Name}
	query := r.URL.Query()
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
		filters.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("cursor")); val != "" {
		cursor, err := repository.DecodeCursor(val)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid cursor")
			return
		}
		filters.Cursor = cursor
	}

	result, err := s.repo.Snapshots.List(r.Context(), filters)
	if err != nil {
		s.logger.Error().Err(err).Msg("list snapshots failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list snapshots")
		return
	}

	items := make([]snapshotResponse, 0, len(result.Items))
	for _, snap := range result.Items {
		items = append(items, toSnapshotResponse(snap))
	}
	s.respondJSON(w, http.StatusOK, snapshotListResponse{Items: items, NextCursor: result.NextCursor})
}

func (s *Server) repoURL() string {
	return s.display.Repo().HTMLURL(s.cfg.GitHubURL)
}

func toSnapshotResponse(snap domain.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:         snap.ID,
		Owner:      snap.Owner,
		Repo:       snap.Repo,
		Stars:      snap.Stars,
		Text:       snap.Display,
		Live:       snap.Live,
		ErrorKind:  snap.ErrorKind,
		ResolvedAt: snap.ResolvedAt,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
