package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
)

func GetProgramsHandler(c echo.Context) error {
	type getProgramsParams struct {
		Year int `param:"anio" validate:"required,min=2023,max=2100"`
	}

	params := new(getProgramsParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	programs, err := c.(*middleware.AppContext).MetasFor().GetPrograms(c.Request().Context(), params.Year)
	if err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, programs)
}
