package routes

import (
	"github.com/labstack/echo/v4"
)

type idParams struct {
	ID int `param:"id" validate:"required,min=1"`
}

type areaYearParams struct {
	AreaID int `param:"id" validate:"required,min=1"`
	Year   int `param:"anio" validate:"required,min=2023,max=2100"`
}

// bindParams binds path and query parameters only, leaving the body unread
// for bindBody.
func bindParams(c echo.Context, params any) bool {
	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, params); err != nil {
		return false
	}
	if err := binder.BindQueryParams(c, params); err != nil {
		return false
	}
	return c.Validate(params) == nil
}

func bindBody(c echo.Context, body any) error {
	return (&echo.DefaultBinder{}).BindBody(c, body)
}
