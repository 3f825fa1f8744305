// Package pgx implements the store interfaces on Postgres with pgx.
package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// DBStorage implements store.CatalogStore and store.ExportStore.
type DBStorage struct {
	conn pgxIConn
	// keepSnapshots is how many catalog snapshots survive a save.
	keepSnapshots int
}

type DBStorageOption func(*DBStorage)

func WithSnapshotRetention(n int) DBStorageOption {
	return func(s *DBStorage) {
		if n > 0 {
			s.keepSnapshots = n
		}
	}
}

// NewDBStorageWithConnection wraps an existing pool or connection.
func NewDBStorageWithConnection(conn pgxIConn, opts ...DBStorageOption) *DBStorage {
	s := &DBStorage{
		conn:          conn,
		keepSnapshots: 5,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}
