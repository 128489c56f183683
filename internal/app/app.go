// Package app builds the shared dependency graph used by the binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/repo-stars/internal/config"
	"github.com/Clark-Hu/repo-stars/internal/domain"
	"github.com/Clark-Hu/repo-stars/internal/github"
	"github.com/Clark-Hu/repo-stars/internal/repository"
	"github.com/Clark-Hu/repo-stars/internal/stars"
	"github.com/Clark-Hu/repo-stars/internal/store"
)

// Repo returns the configured repository identity.
func Repo(cfg config.Config) domain.Repo {
	return domain.Repo{Owner: cfg.RepoOwner, Name: cfg.RepoName}
}

// Fallback returns the configured fallback.
func Fallback(cfg config.Config) (stars.Fallback, error) {
	policy, err := stars.ParsePolicy(cfg.FallbackPolicy)
	if err != nil {
		return stars.Fallback{}, err
	}
	return stars.Fallback{
		Policy: policy,
		Marker: cfg.FallbackMarker,
		Stars:  int64(cfg.FallbackStars),
	}, nil
}

// NewDisplay wires the GitHub client and fallback into a stars.Display.
// recorder may be nil.
func NewDisplay(cfg config.Config, recorder stars.Recorder, logger zerolog.Logger) (*stars.Display, error) {
	client, err := github.NewHTTPClient(cfg.GitHubAPIURL, cfg.GitHubToken, time.Duration(cfg.GitHubTimeoutSecs)*time.Second, logger)
	if err != nil {
		return nil, fmt.Errorf("init github client: %w", err)
	}
	fallback, err := Fallback(cfg)
	if err != nil {
		return nil, err
	}
	return stars.New(client, stars.Options{
		Repo:     Repo(cfg),
		Fallback: fallback,
		Recorder: recorder,
		Logger:   logger,
	}), nil
}

// OpenStore connects and migrates the database. It returns nils when no
// DB_URL is configured.
func OpenStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*store.Store, *repository.Repository, error) {
	if cfg.DBURL == "" {
		return nil, nil, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := st.Migrate(dbCtx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, repository.New(st), nil
}
