package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/pkg/metas"
)

// CreateActivityHandler creates an empty activity in an area. The period is
// set later through the edit form.
func CreateActivityHandler(c echo.Context) error {
	type createActivityBody struct {
		Number      int    `json:"nro" validate:"min=0"`
		Description string `json:"desc" validate:"required,max=500"`
	}

	params := new(areaYearParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	data := new(createActivityBody)
	if err := bindBody(c, data); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(data); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	err := c.(*middleware.AppContext).MetasFor().CreateActivity(c.Request().Context(), metas.NewActivity{
		AreaID:      params.AreaID,
		Number:      data.Number,
		Description: data.Description,
	})
	if err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusCreated, map[string]string{"message": "Actividad creada"})
}
