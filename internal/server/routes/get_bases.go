package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/pkg/summary"
)

// GetBasesHandler returns the shared reference catalog. A stale catalog is
// served when the metas API is unreachable.
func GetBasesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	snap, err := app.Catalog.Get(c.Request().Context())
	if err != nil && snap.Empty() {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, snap.Bases)
}

func GetYearsHandler(c echo.Context) error {
	return respond(c, http.StatusOK, summary.Years(timeNow()))
}
