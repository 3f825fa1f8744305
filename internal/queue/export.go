package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unl-extension/metas/backend/internal/metrics"
	"github.com/unl-extension/metas/backend/internal/storage"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/store"
	"github.com/unl-extension/metas/backend/pkg/summary"
)

type CatalogGetter interface {
	Get(ctx context.Context) (*catalog.Snapshot, error)
}

// ExportDeps are the collaborators of ProcessSummaryExport.
type ExportDeps struct {
	Activities  summary.ActivitySource
	Catalog     CatalogGetter
	Exports     store.ExportStore
	Objects     storage.ObjectPutter
	Bucket      string
	Concurrency int
}

// ProcessSummaryExport renders the area summary of an export job and uploads
// it as JSON. The job status is updated on every outcome; a failed job is
// returned as an error so the message is retried.
func ProcessSummaryExport(ctx context.Context, deps ExportDeps, msg string) error {
	var data SummaryExportMsg
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return fmt.Errorf("failed to decode summary export message: %w", err)
	}

	if err := deps.Exports.UpdateExportStatus(ctx, data.ExportID, store.ExportRunning, "", ""); err != nil {
		return err
	}

	key, err := runExport(ctx, deps, data)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(store.ExportFailed).Inc()
		if updateErr := deps.Exports.UpdateExportStatus(ctx, data.ExportID, store.ExportFailed, "", err.Error()); updateErr != nil {
			logger.Error("[Queue] Failed to mark export as failed", "export_id", data.ExportID, "err", updateErr)
		}
		return err
	}

	metrics.ExportsTotal.WithLabelValues(store.ExportCompleted).Inc()
	if err := deps.Exports.UpdateExportStatus(ctx, data.ExportID, store.ExportCompleted, key, ""); err != nil {
		return err
	}

	logger.Info("[Queue] Summary exported", "export_id", data.ExportID, "area", data.AreaID, "year", data.Year, "key", key)
	return nil
}

func runExport(ctx context.Context, deps ExportDeps, data SummaryExportMsg) (string, error) {
	// A stale catalog still renders; only a missing one is fatal.
	snap, err := deps.Catalog.Get(ctx)
	if err != nil && snap.Empty() {
		return "", fmt.Errorf("catalog unavailable: %w", err)
	}

	areaSummary, err := summary.BuildAreaSummary(ctx, deps.Activities, snap, summary.AreaParams{
		AreaID:      data.AreaID,
		Year:        data.Year,
		Concurrency: deps.Concurrency,
	})
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(areaSummary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal area summary: %w", err)
	}

	key := storage.ExportKey(data.ExportID)
	if err := storage.PutJSON(ctx, deps.Objects, deps.Bucket, key, body); err != nil {
		return "", err
	}
	return key, nil
}
