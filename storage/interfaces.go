package storage

import (
	"context"
	"io"

	"analytics-dashboard/models"
)

// RecordSource is the remote data gateway: one full-table read per call,
// no caching, no server-side filtering.
type RecordSource interface {
	FetchAll(ctx context.Context) (models.Dataset, error)
	Close() error
}

// SessionStore persists per-visitor dashboard state.
// Get returns (nil, nil) when the session does not exist.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// TableWriter exports a projected table.
type TableWriter interface {
	WriteTable(w io.Writer, view *models.TableView) error
}
