package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/pkg/summary"
)

// GetAreaSummaryHandler summarizes every activity of an area for a year.
func GetAreaSummaryHandler(c echo.Context) error {
	params := new(areaYearParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	ac := c.(*middleware.AppContext)
	areaSummary, err := summary.BuildAreaSummary(c.Request().Context(), ac.MetasFor(), requestCatalog(c), summary.AreaParams{
		AreaID:      params.AreaID,
		Year:        params.Year,
		Concurrency: ac.App.SummaryConcurrency,
	})
	if err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, areaSummary)
}
