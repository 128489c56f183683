package domain

import "time"

// Snapshot is a persisted Resolution.
type Snapshot struct {
	ID         string
	Owner      string
	Repo       string
	Stars      *int64
	Display    string
	Live       bool
	ErrorKind  *string
	ResolvedAt time.Time
	CreatedAt  time.Time
}
