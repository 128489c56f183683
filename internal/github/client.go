package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/repo-stars/internal/domain"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"

	userAgent       = "repo-stars"
	maxResponseBody = 1 << 20 // 1 MiB
)

// Result contains the repository fields the display needs.
type Result struct {
	FullName string
	HTMLURL  string
	// StargazersCount is nil when the field is absent or not a non-negative integer.
	StargazersCount *int64
}

// Client defines the contract for querying repository metadata.
type Client interface {
	Fetch(ctx context.Context, repo domain.Repo) (*Result, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed repository client.
// An empty token sends unauthenticated requests.
func NewHTTPClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse github api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse github api url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		token:   token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger.With().Str("component", "github").Logger(),
	}, nil
}

// Fetch retrieves repository metadata for repo.
func (c *HTTPClient) Fetch(ctx context.Context, repo domain.Repo) (*Result, error) {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + repo.APIPath()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("repo", repo.FullName()).
			Str("ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining")).
			Msg("unexpected status")
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{Err: err}
	}
	return convertToResult(payload), nil
}

type apiResponse struct {
	FullName        string          `json:"full_name"`
	HTMLURL         string          `json:"html_url"`
	StargazersCount json.RawMessage `json:"stargazers_count"`
}

func convertToResult(payload apiResponse) *Result {
	result := &Result{
		FullName: payload.FullName,
		HTMLURL:  payload.HTMLURL,
	}
	if n, ok := parseCount(payload.StargazersCount); ok {
		result.StargazersCount = &n
	}
	return result
}

// parseCount accepts a JSON number holding a non-negative integer.
func parseCount(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	text := string(raw)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
