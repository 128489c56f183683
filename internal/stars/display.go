// Package stars resolves a repository's star count and renders it as display text.
//
// A resolution never fails from the caller's point of view: request, network
// and decode failures are logged and replaced by the configured fallback.
package stars

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/repo-stars/internal/domain"
	"github.com/Clark-Hu/repo-stars/internal/github"
)

// Policy selects what is shown when no live count is available.
type Policy string

const (
	// PolicyMarker renders a textual marker such as "N/A".
	PolicyMarker Policy = "marker"
	// PolicyDefault renders a fixed number.
	PolicyDefault Policy = "default"

	// DefaultFallbackStars is the number shown under PolicyDefault.
	DefaultFallbackStars int64 = 134
)

// ParsePolicy maps a configuration string onto a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyMarker, "":
		return PolicyMarker, nil
	case PolicyDefault:
		return PolicyDefault, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q", raw)
	}
}

// Fallback describes the value substituted when retrieval yields nothing usable.
type Fallback struct {
	Policy Policy
	Marker string
	Stars  int64
}

// Count returns the fallback StarCount.
func (f Fallback) Count() domain.StarCount {
	if f.Policy == PolicyDefault {
		return domain.Known(f.Stars)
	}
	return domain.Unavailable(f.Marker)
}

// Surface is a display element that accepts plain text.
type Surface interface {
	SetText(text string)
}

// TextSurface keeps the last text it was given.
type TextSurface struct {
	text string
}

func (s *TextSurface) SetText(text string) { s.text = text }

// Text returns the rendered text.
func (s *TextSurface) Text() string { return s.text }

// WriterSurface writes each text as a line to W.
type WriterSurface struct {
	W io.Writer
}

func (s WriterSurface) SetText(text string) {
	_, _ = fmt.Fprintln(s.W, text)
}

// Recorder persists resolutions for diagnostics.
type Recorder interface {
	Record(ctx context.Context, res domain.Resolution) error
}

// Options configures a Display.
type Options struct {
	Repo     domain.Repo
	Fallback Fallback
	// Recorder is optional.
	Recorder Recorder
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Display resolves and renders the star count of one repository.
type Display struct {
	client   github.Client
	repo     domain.Repo
	fallback Fallback
	recorder Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// New constructs a Display backed by client.
func New(client github.Client, opts Options) *Display {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Fallback.Policy == "" {
		opts.Fallback.Policy = PolicyMarker
	}
	return &Display{
		client:   client,
		repo:     opts.Repo,
		fallback: opts.Fallback,
		recorder: opts.Recorder,
		logger:   opts.Logger.With().Str("component", "stars").Str("repo", opts.Repo.FullName()).Logger(),
		now:      now,
	}
}

// Repo returns the repository this display tracks.
func (d *Display) Repo() domain.Repo {
	return d.repo
}

// Initialize resolves the count once, renders it into surface and records it.
func (d *Display) Initialize(ctx context.Context, surface Surface) domain.Resolution {
	res := d.FetchCount(ctx)
	d.Render(surface, res.Count)

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, res); err != nil {
			d.logger.Warn().Err(err).Msg("record star snapshot failed")
		}
	}
	return res
}

// FetchCount asks the API for the current count. Failures are logged and
// replaced by the fallback; a count of zero is a real count.
func (d *Display) FetchCount(ctx context.Context) domain.Resolution {
	res := domain.Resolution{
		Repo:       d.repo,
		Count:      d.fallback.Count(),
		ResolvedAt: d.now().UTC(),
	}

	result, err := d.client.Fetch(ctx, d.repo)
	if err != nil {
		res.ErrorKind = github.Kind(err)
		d.logger.Error().Err(err).Str("kind", res.ErrorKind).Msg("fetch github stars failed")
		return res
	}
	if result == nil || result.StargazersCount == nil {
		d.logger.Warn().Msg("stargazers_count missing or not numeric, using fallback")
		return res
	}

	res.Count = domain.Known(*result.StargazersCount)
	res.Live = true
	return res
}

// Render sets the surface text to "{count} stars on GitHub". A nil surface is ignored.
func (d *Display) Render(surface Surface, count domain.StarCount) {
	if surface == nil {
		d.logger.Warn().Msg("no display surface to render into")
		return
	}
	surface.SetText(domain.StarsText(count))
}
