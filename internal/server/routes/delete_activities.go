package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
)

func DeleteActivityHandler(c echo.Context) error {
	params := new(idParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	if err := c.(*middleware.AppContext).MetasFor().DeleteActivity(c.Request().Context(), params.ID); err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, map[string]string{"message": "Actividad eliminada"})
}
