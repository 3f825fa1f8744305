package routes

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/unl-extension/metas/backend/internal/queue"
	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/store"
)

// CreateExportHandler records an export job and queues it for the worker.
func CreateExportHandler(c echo.Context) error {
	params := new(areaYearParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	ac := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	id, err := gonanoid.New()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	export, err := ac.App.Exports.CreateExport(ctx, store.Export{
		ID:     id,
		AreaID: params.AreaID,
		Year:   params.Year,
		UserID: ac.User.UserID,
		Status: store.ExportPending,
	})
	if err != nil {
		logger.Error("[Server] Failed to create export", "err", err)
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	msg, err := json.Marshal(queue.SummaryExportMsg{
		ExportID: export.ID,
		AreaID:   export.AreaID,
		Year:     export.Year,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if err := queue.PublishFIFO(ac.App.Queue, queue.SummaryExportQueue, msg); err != nil {
		logger.Error("[Server] Failed to queue export", "export_id", export.ID, "err", err)
		_ = ac.App.Exports.UpdateExportStatus(ctx, export.ID, store.ExportFailed, "", "queue unavailable")
		return fail(c, http.StatusServiceUnavailable, "No se pudo encolar la exportación")
	}

	return respond(c, http.StatusAccepted, export)
}
