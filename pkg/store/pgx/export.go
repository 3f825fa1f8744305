package pgx

import (
	"context"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/store"
)

func (s *DBStorage) CreateExport(ctx context.Context, e store.Export) (*store.Export, error) {
	if e.Status == "" {
		e.Status = store.ExportPending
	}
	row := s.conn.QueryRow(ctx, insertExportSQL, e.ID, e.AreaID, e.Year, e.UserID, e.Status)
	created, err := scanExport(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create export: %w", err)
	}
	return created, nil
}

func (s *DBStorage) GetExport(ctx context.Context, id string) (*store.Export, error) {
	e, err := scanExport(s.conn.QueryRow(ctx, getExportSQL, id))
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export %s: %w", id, err)
	}
	return e, nil
}

func (s *DBStorage) UpdateExportStatus(ctx context.Context, id, status, objectKey, errMsg string) error {
	tag, err := s.conn.Exec(ctx, updateExportSQL, id, status, objectKey, util.SanitizePostgresText(errMsg))
	if err != nil {
		return fmt.Errorf("failed to update export %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanExport(row pgxv5.Row) (*store.Export, error) {
	var e store.Export
	err := row.Scan(&e.ID, &e.AreaID, &e.Year, &e.UserID, &e.Status, &e.ObjectKey, &e.Error, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const exportColumns = `id, area_id, year, user_id, status, object_key, error, created_at, updated_at`

const insertExportSQL = `
INSERT INTO summary_exports (id, area_id, year, user_id, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + exportColumns + `;
`

const getExportSQL = `
SELECT ` + exportColumns + `
FROM summary_exports
WHERE id = $1;
`

const updateExportSQL = `
UPDATE summary_exports
SET status = $2, object_key = $3, error = $4, updated_at = now()
WHERE id = $1;
`
