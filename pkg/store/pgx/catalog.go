package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/relation"
	"github.com/unl-extension/metas/backend/pkg/store"
)

const catalogEntryChunkSize = 500

const (
	entrySourceArea    = "area"
	entrySourceProgram = "sippe"
)

type catalogEntryRow struct {
	RelationID     int
	RelationTypeID int
	Name           string
	Source         string
}

func catalogEntryRows(bases *metas.Bases) []catalogEntryRow {
	rows := make([]catalogEntryRow, 0, len(bases.Areas)+len(bases.ExtensionPrograms))
	add := func(entries []relation.CatalogEntry, source string) {
		for _, e := range entries {
			rows = append(rows, catalogEntryRow{
				RelationID:     e.RelationID,
				RelationTypeID: e.RelationTypeID,
				Name:           util.SanitizePostgresText(e.Name),
				Source:         source,
			})
		}
	}
	add(bases.Areas, entrySourceArea)
	add(bases.ExtensionPrograms, entrySourceProgram)
	return rows
}

// SaveCatalog stores bases as the newest snapshot together with its flattened
// relation entries and prunes old snapshots.
func (s *DBStorage) SaveCatalog(ctx context.Context, bases *metas.Bases, loadedAt time.Time) error {
	payload, err := json.Marshal(bases)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var snapshotID int64
	if err := tx.QueryRow(ctx, insertSnapshotSQL, payload, loadedAt).Scan(&snapshotID); err != nil {
		return fmt.Errorf("failed to insert catalog snapshot: %w", err)
	}

	rows := catalogEntryRows(bases)
	err = store.ChunkRange(len(rows), catalogEntryChunkSize, func(start, end int) error {
		chunk := rows[start:end]
		ids := make([]int32, len(chunk))
		types := make([]int32, len(chunk))
		names := make([]string, len(chunk))
		sources := make([]string, len(chunk))
		for i, r := range chunk {
			ids[i] = int32(r.RelationID)
			types[i] = int32(r.RelationTypeID)
			names[i] = r.Name
			sources[i] = r.Source
		}
		if _, err := tx.Exec(ctx, insertEntriesSQL, snapshotID, ids, types, names, sources); err != nil {
			return fmt.Errorf("failed to insert catalog entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, pruneSnapshotsSQL, s.keepSnapshots); err != nil {
		return fmt.Errorf("failed to prune catalog snapshots: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadCatalog returns the newest stored snapshot.
func (s *DBStorage) LoadCatalog(ctx context.Context) (*metas.Bases, time.Time, error) {
	var (
		payload  []byte
		loadedAt time.Time
	)
	err := s.conn.QueryRow(ctx, latestSnapshotSQL).Scan(&payload, &loadedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, time.Time{}, store.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	var bases metas.Bases
	if err := json.Unmarshal(payload, &bases); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return &bases, loadedAt, nil
}

const insertSnapshotSQL = `
INSERT INTO catalog_snapshots (bases, loaded_at)
VALUES ($1, $2)
RETURNING id;
`

const insertEntriesSQL = `
INSERT INTO catalog_entries (snapshot_id, relation_id, relation_type_id, name, source)
SELECT $1, e.relation_id, e.relation_type_id, e.name, e.source
FROM unnest($2::int[], $3::int[], $4::text[], $5::text[])
    AS e(relation_id, relation_type_id, name, source);
`

const pruneSnapshotsSQL = `
DELETE FROM catalog_snapshots
WHERE id NOT IN (
    SELECT id FROM catalog_snapshots
    ORDER BY loaded_at DESC, id DESC
    LIMIT $1
);
`

const latestSnapshotSQL = `
SELECT bases, loaded_at
FROM catalog_snapshots
ORDER BY loaded_at DESC, id DESC
LIMIT 1;
`
