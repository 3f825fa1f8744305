package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/internal/server/util"
	"github.com/unl-extension/metas/backend/internal/storage"
	internalutil "github.com/unl-extension/metas/backend/internal/util"
	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/store"
)

func GetExportHandler(c echo.Context) error {
	type getExportResponse struct {
		*store.Export
		State       string `json:"state"`
		DownloadURL string `json:"downloadUrl,omitempty"`
	}

	export, ok, err := ownedExport(c)
	if !ok {
		return err
	}

	ac := c.(*middleware.AppContext)
	resp := getExportResponse{
		Export: export,
		State:  util.ExportStatusFromStoreStatus(export.Status, true),
	}
	if export.Status == store.ExportCompleted && ac.App.S3 != nil {
		link, err := storage.GenerateDownloadLink(c.Request().Context(), ac.App.S3, ac.App.Bucket, export.ObjectKey, 15*time.Minute)
		if err != nil {
			logger.Warn("[Server] Failed to sign export link", "export_id", export.ID, "err", err)
		} else {
			resp.DownloadURL = link
		}
	}

	return respond(c, http.StatusOK, resp)
}

// DownloadExportHandler returns the area summary of a completed export
// through the API, for consoles that cannot reach the object store.
func DownloadExportHandler(c echo.Context) error {
	export, ok, err := ownedExport(c)
	if !ok {
		return err
	}
	if export.Status != store.ExportCompleted {
		return fail(c, http.StatusConflict, "Export not ready")
	}

	ac := c.(*middleware.AppContext)
	data, err := storage.GetFile(c.Request().Context(), ac.App.Objects, ac.App.Bucket, export.ObjectKey)
	if err != nil {
		logger.Error("[Server] Failed to read export", "export_id", export.ID, "key", export.ObjectKey, "err", err)
		return fail(c, http.StatusBadGateway, "Export unavailable")
	}

	return respond(c, http.StatusOK, json.RawMessage(data))
}

// ownedExport loads the export named by :id if the user may see it. When ok
// is false the response has been written and err must be returned.
func ownedExport(c echo.Context) (export *store.Export, ok bool, err error) {
	type exportParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(exportParams)
	if !bindParams(c, params) || !internalutil.IsNanoid(params.ID) {
		return nil, false, fail(c, http.StatusBadRequest, "Invalid request params")
	}

	ac := c.(*middleware.AppContext)
	export, err = ac.App.Exports.GetExport(c.Request().Context(), params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, fail(c, http.StatusNotFound, "Export not found")
	}
	if err != nil {
		logger.Error("[Server] Failed to get export", "export_id", params.ID, "err", err)
		return nil, false, fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if export.UserID != ac.User.UserID && !middleware.IsAdmin(ac.User) {
		return nil, false, fail(c, http.StatusNotFound, "Export not found")
	}
	return export, true, nil
}
