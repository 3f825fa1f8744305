package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/pkg/logger"
	"github.com/unl-extension/metas/backend/pkg/metas"
)

// envelope mirrors the response shape of the metas API so the console can
// treat both the same way.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{OK: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{OK: false, Error: msg})
}

// upstreamFailure translates a metas API error. Client errors keep their
// status and message; everything else becomes 502.
func upstreamFailure(c echo.Context, err error) error {
	var apiErr *metas.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.NotOK:
			return fail(c, http.StatusUnprocessableEntity, apiErr.Message)
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return fail(c, apiErr.Status, apiErr.Message)
		}
	}

	logger.Error("[Server] Metas request failed", "path", c.Path(), "err", err)
	return fail(c, http.StatusBadGateway, "Error al comunicarse con el servidor de metas")
}
