package summary

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/metas"
)

// DefaultConcurrency bounds the activity fetches of one area summary.
const DefaultConcurrency = 4

// ActivitySource is the part of the metas client an area summary needs.
type ActivitySource interface {
	GetAreaActivities(ctx context.Context, areaID, year int) ([]metas.ActivityItem, error)
	GetActivity(ctx context.Context, id int) (*metas.Activity, error)
}

// AreaSummary holds the summary card of every activity an area planned for a
// year, in the order the metas API lists them.
type AreaSummary struct {
	AreaID      int               `json:"idArea"`
	Year        int               `json:"anio"`
	Activities  []ActivitySummary `json:"actividades"`
	GeneratedAt time.Time         `json:"generado"`
}

type AreaParams struct {
	AreaID      int
	Year        int
	Concurrency int
}

// BuildAreaSummary fetches every activity of an area concurrently and
// summarizes it. The first failed fetch cancels the rest.
func BuildAreaSummary(ctx context.Context, src ActivitySource, snap *catalog.Snapshot, params AreaParams) (*AreaSummary, error) {
	items, err := src.GetAreaActivities(ctx, params.AreaID, params.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities of area %d: %w", params.AreaID, err)
	}

	limit := params.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	summaries := make([]ActivitySummary, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			activity, err := src.GetActivity(gctx, item.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch activity %d: %w", item.ID, err)
			}
			summaries[i] = Summarize(activity, snap)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("[Summary] Built area summary", "area", params.AreaID, "year", params.Year, "activities", len(summaries))

	return &AreaSummary{
		AreaID:      params.AreaID,
		Year:        params.Year,
		Activities:  summaries,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
