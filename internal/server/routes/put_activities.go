package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/internal/server/util"
	"github.com/unl-extension/metas/backend/pkg/metas"
)

// SaveActivityHandler validates and stores a full activity.
func SaveActivityHandler(c echo.Context) error {
	params := new(idParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	activity := new(metas.Activity)
	if err := bindBody(c, activity); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if activity.ID != 0 && activity.ID != params.ID {
		return fail(c, http.StatusBadRequest, "idActividad does not match the request path")
	}
	activity.ID = params.ID

	if err := util.ValidatePeriod(activity.StartDate, activity.EndDate); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	dates, err := util.NormalizePointDates(activity.PointDates)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	activity.PointDates = dates

	if err := c.(*middleware.AppContext).MetasFor().SaveActivity(c.Request().Context(), activity); err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, activity)
}

// CancelActivityHandler suspends an activity. A reason is mandatory.
func CancelActivityHandler(c echo.Context) error {
	type cancelActivityBody struct {
		Reason string `json:"motivoCancel" validate:"required,max=1000"`
	}

	params := new(idParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	data := new(cancelActivityBody)
	if err := bindBody(c, data); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	data.Reason = strings.TrimSpace(data.Reason)
	if err := c.Validate(data); err != nil {
		return fail(c, http.StatusBadRequest, "Debe indicar el motivo de la suspensión")
	}

	if err := c.(*middleware.AppContext).MetasFor().CancelActivity(c.Request().Context(), params.ID, data.Reason); err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, map[string]string{"message": "Actividad suspendida"})
}

func RestoreActivityHandler(c echo.Context) error {
	params := new(idParams)
	if !bindParams(c, params) {
		return fail(c, http.StatusBadRequest, "Invalid request params")
	}

	if err := c.(*middleware.AppContext).MetasFor().RestoreActivity(c.Request().Context(), params.ID); err != nil {
		return upstreamFailure(c, err)
	}

	return respond(c, http.StatusOK, map[string]string{"message": "Actividad restaurada"})
}
