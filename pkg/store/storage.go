// Package store defines the persistence contracts of the console backend.
// pkg/store/pgx implements them on Postgres.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/unl-extension/metas/backend/pkg/metas"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// CatalogStore keeps the last reference catalog that loaded successfully so a
// fresh process can start from it instead of an empty catalog.
type CatalogStore interface {
	SaveCatalog(ctx context.Context, bases *metas.Bases, loadedAt time.Time) error
	// LoadCatalog returns ErrNotFound when nothing has been saved yet.
	LoadCatalog(ctx context.Context) (*metas.Bases, time.Time, error)
}

// Export statuses as stored.
const (
	ExportPending   = "pending"
	ExportRunning   = "running"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

// Export tracks one area summary export job.
type Export struct {
	ID        string    `json:"id"`
	AreaID    int       `json:"idArea"`
	Year      int       `json:"anio"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	ObjectKey string    `json:"objectKey,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExportStore persists export jobs.
type ExportStore interface {
	CreateExport(ctx context.Context, export Export) (*Export, error)
	GetExport(ctx context.Context, id string) (*Export, error)
	UpdateExportStatus(ctx context.Context, id, status, objectKey, errMsg string) error
}
