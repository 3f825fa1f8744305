package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/internal/server/util"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/summary"
)

// GetAreaActivitiesHandler lists the activities of an area for a year,
// optionally filtered by ?q= on the description.
func GetAreaActivitiesHandler(c echo.Context) error {
	type getAreaActivitiesParams struct {
		AreaID int    `param:"id" validate:"required,min=1"`
		Year   int    `param:"anio" validate:"required,min=2023,max=2100"`
		Query  string `query:"q"`
	}

	params := new(getAreaActivitiesParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	items, err := c.(*middleware.AppContext).MetasFor().GetAreaActivities(c.Request().Context(), params.AreaID, params.Year)
	if err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, util.FilterActivities(items, params.Query))
}

func GetActivityHandler(c echo.Context) error {
	activity, ok, err := fetchActivity(c)
	if !ok {
		return err
	}
	return respond(c, http.StatusOK, activity)
}

// GetActivityDetailHandler returns the activity with its relations resolved
// for the detail view.
func GetActivityDetailHandler(c echo.Context) error {
	activity, ok, err := fetchActivity(c)
	if !ok {
		return err
	}
	return respond(c, http.StatusOK, summary.Detail(activity, requestCatalog(c)))
}

// GetActivitySummaryHandler returns the summary card of one activity.
func GetActivitySummaryHandler(c echo.Context) error {
	activity, ok, err := fetchActivity(c)
	if !ok {
		return err
	}
	return respond(c, http.StatusOK, summary.Summarize(activity, requestCatalog(c)))
}

// fetchActivity loads the activity named by :id. When ok is false the
// response has been written and err must be returned by the handler.
func fetchActivity(c echo.Context) (activity *metas.Activity, ok bool, err error) {
	params := new(idParams)
	if !bindParams(c, params) {
		return nil, false, fail(c, http.StatusBadRequest, "Invalid request params")
	}

	activity, err = c.(*middleware.AppContext).MetasFor().GetActivity(c.Request().Context(), params.ID)
	if err != nil {
		return nil, false, upstreamFailure(c, err)
	}
	return activity, true, nil
}

// CatalogStaleHeader is set on rendered views when the catalog could not be
// reloaded and an older one, possibly empty, was used.
const CatalogStaleHeader = "X-Catalog-Stale"

// requestCatalog mounts a catalog view for the duration of the request and
// returns what it holds once its load settles.
func requestCatalog(c echo.Context) *catalog.Snapshot {
	ctx := c.Request().Context()

	var loadErr error
	view := c.(*middleware.AppContext).App.Catalog.NewView(catalog.WithErrorHandler(func(err error) {
		loadErr = err
	}))
	view.Mount(ctx)
	defer view.Unmount()

	if err := view.Wait(ctx); err != nil {
		return view.Snapshot()
	}
	if loadErr != nil {
		logger.Warn("[Catalog] Rendering with previous catalog", "path", c.Path(), "err", loadErr)
		c.Response().Header().Set(CatalogStaleHeader, "true")
	}
	return view.Snapshot()
}
