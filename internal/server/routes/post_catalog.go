package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/queue"
	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/pkg/logger"
)

// RefreshCatalogHandler asks a worker to reload the catalog. The local cache
// is invalidated right away so the next read on this process reloads too.
func RefreshCatalogHandler(c echo.Context) error {
	ac := c.(*middleware.AppContext)

	msg, err := json.Marshal(queue.CatalogRefreshMsg{
		Reason:      "manual",
		RequestedBy: ac.User.UserID,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	ac.App.Catalog.Invalidate()
	if err := queue.PublishFIFO(ac.App.Queue, queue.CatalogRefreshQueue, msg); err != nil {
		logger.Error("[Server] Failed to queue catalog refresh", "err", err)
		return fail(c, http.StatusServiceUnavailable, "No se pudo encolar la actualización")
	}

	return respond(c, http.StatusAccepted, map[string]string{"message": "Actualización encolada"})
}
