package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/repo-stars/internal/domain"
)

// SnapshotsRepository stores every star count resolution.
type SnapshotsRepository struct {
	pool *pgxpool.Pool
}

const snapshotColumns = `
    id,
    owner,
    repo,
    stars,
    display,
    live,
    error_kind,
    resolved_at,
    created_at
`

// SnapshotListFilters encapsulates repository selection and pagination.
type SnapshotListFilters struct {
	Owner  string
	Repo   string
	Limit  int
	Cursor *SnapshotCursor
}

// SnapshotCursor allows stable pagination by resolved_at/id.
type SnapshotCursor struct {
	ResolvedAt time.Time `json:"resolvedAt"`
	ID         string    `json:"id"`
}

// SnapshotListResult returns the paginated payload.
type SnapshotListResult struct {
	Items      []domain.Snapshot
	NextCursor *string
}

// Record inserts a resolution as a new snapshot.
func (r *SnapshotsRepository) Record(ctx context.Context, res domain.Resolution) error {
	_, err := r.Create(ctx, res)
	return err
}

// Create inserts a resolution and returns the stored snapshot.
func (r *SnapshotsRepository) Create(ctx context.Context, res domain.Resolution) (domain.Snapshot, error) {
	var stars *int64
	if n, ok := res.Count.Value(); ok && res.Live {
		stars = &n
	}
	var errorKind *string
	if res.ErrorKind != "" {
		errorKind = &res.ErrorKind
	}
	resolvedAt := res.ResolvedAt
	if resolvedAt.IsZero() {
		resolvedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
        INSERT INTO star_snapshots (id, owner, repo, stars, display, live, error_kind, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING %s
    `, snapshotColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), res.Repo.Owner, res.Repo.Name, stars, res.Text(), res.Live, errorKind, resolvedAt)
	snap, err := scanSnapshot(row)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// GetByID fetches a snapshot by its identifier.
func (r *SnapshotsRepository) GetByID(ctx context.Context, id string) (domain.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Snapshot{}, ErrNotFound
	}
	query := fmt.Sprintf(`SELECT %s FROM star_snapshots WHERE id = $1`, snapshotColumns)
	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, ErrNotFound
		}
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// LatestLive returns the most recent live snapshot for a repository.
func (r *SnapshotsRepository) LatestLive(ctx context.Context, repo domain.Repo) (domain.Snapshot, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM star_snapshots
        WHERE owner = $1 AND repo = $2 AND live
        ORDER BY resolved_at DESC, id DESC
        LIMIT 1
    `, snapshotColumns)
	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, repo.Owner, repo.Name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, ErrNotFound
		}
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// List returns snapshots newest first.
func (r *SnapshotsRepository) List(ctx context.Context, filters SnapshotListFilters) (SnapshotListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	} else if filters.Limit > 100 {
		filters.Limit = 100
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if owner := strings.TrimSpace(filters.Owner); owner != "" {
		where = append(where, fmt.Sprintf("owner = %s", arg(owner)))
	}
	if repo := strings.TrimSpace(filters.Repo); repo != "" {
		where = append(where, fmt.Sprintf("repo = %s", arg(repo)))
	}
	if filters.Cursor != nil {
		cursorResolved := arg(filters.Cursor.ResolvedAt)
		cursorID := arg(filters.Cursor.ID)
		where = append(where, fmt.Sprintf("(resolved_at, id) < (%s, %s::uuid)", cursorResolved, cursorID))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(snapshotColumns)
	queryBuilder.WriteString(" FROM star_snapshots")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY resolved_at DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", filters.Limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return SnapshotListResult{}, err
	}
	defer rows.Close()

	items := make([]domain.Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return SnapshotListResult{}, err
		}
		items = append(items, snap)
	}
	if err := rows.Err(); err != nil {
		return SnapshotListResult{}, err
	}

	var nextCursor *string
	if len(items) == filters.Limit {
		last := items[len(items)-1]
		token, err := encodeCursor(SnapshotCursor{ResolvedAt: last.ResolvedAt, ID: last.ID})
		if err != nil {
			return SnapshotListResult{}, err
		}
		nextCursor = &token
	}

	return SnapshotListResult{Items: items, NextCursor: nextCursor}, nil
}

func scanSnapshot(row pgx.Row) (domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		id   uuid.UUID
	)
	err := row.Scan(
		&id,
		&snap.Owner,
		&snap.Repo,
		&snap.Stars,
		&snap.Display,
		&snap.Live,
		&snap.ErrorKind,
		&snap.ResolvedAt,
		&snap.CreatedAt,
	)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.ID = id.String()
	snap.ResolvedAt = snap.ResolvedAt.UTC()
	snap.CreatedAt = snap.CreatedAt.UTC()
	return snap, nil
}

func encodeCursor(c SnapshotCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// DecodeCursor parses a cursor token into a SnapshotCursor.
func DecodeCursor(token string) (*SnapshotCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor SnapshotCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if _, err := uuid.Parse(cursor.ID); err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &cursor, nil
}
