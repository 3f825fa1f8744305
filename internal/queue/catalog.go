package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/leaselock"
	"github.com/unl-extension/metas/backend/pkg/logger"
)

const catalogLockKey = "catalog:refresh"

type Locker interface {
	WithLease(ctx context.Context, key string, opts leaselock.Options, fn func(ctx context.Context) error) error
}

type CatalogRefresher interface {
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// ProcessCatalogRefresh reloads the catalog under a lease so that concurrent
// refresh requests hit the metas API once. The service persists the new
// snapshot; API processes learn about it from TopicCatalogUpdated.
func ProcessCatalogRefresh(ctx context.Context, svc CatalogRefresher, locker Locker, ch Channel, msg string) error {
	var data CatalogRefreshMsg
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return fmt.Errorf("failed to decode catalog refresh message: %w", err)
	}

	var snap *catalog.Snapshot
	err := locker.WithLease(ctx, catalogLockKey, leaselock.Options{TTL: 2 * time.Minute, Owner: "catalog/"}, func(ctx context.Context) error {
		var err error
		snap, err = svc.Refresh(ctx)
		return err
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Catalog refresh already running, skipping", "reason", data.Reason)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	body, err := json.Marshal(CatalogUpdatedMsg{
		LoadedAt: snap.LoadedAt,
		Entries:  snap.SummaryIndex.Len(),
	})
	if err != nil {
		return err
	}
	if err := PublishTopic(ch, TopicCatalogUpdated, body); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TopicCatalogUpdated, err)
	}

	logger.Info("[Queue] Catalog refreshed", "reason", data.Reason, "requested_by", data.RequestedBy, "entries", snap.SummaryIndex.Len())
	return nil
}
