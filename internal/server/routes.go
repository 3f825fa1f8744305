package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unl-extension/metas/backend/internal/server/middleware"
	"github.com/unl-extension/metas/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.AuthMiddleware)

	// Catalog
	api.GET("/bases", routes.GetBasesHandler)
	api.GET("/years", routes.GetYearsHandler)
	api.GET("/programs/:anio", routes.GetProgramsHandler)
	api.POST("/catalog/refresh", routes.RefreshCatalogHandler, middleware.RequirePermission("catalog.refresh"))

	// Activities
	api.GET("/areas/:id/activities/:anio", routes.GetAreaActivitiesHandler)
	api.POST("/areas/:id/activities/:anio", routes.CreateActivityHandler, middleware.RequirePermission("activity.create"))
	api.GET("/activities/:id", routes.GetActivityHandler)
	api.GET("/activities/:id/detail", routes.GetActivityDetailHandler)
	api.GET("/activities/:id/summary", routes.GetActivitySummaryHandler)
	api.PUT("/activities/:id", routes.SaveActivityHandler, middleware.RequirePermission("activity.update"))
	api.PUT("/activities/:id/cancel", routes.CancelActivityHandler, middleware.RequirePermission("activity.cancel"))
	api.PUT("/activities/:id/restore", routes.RestoreActivityHandler, middleware.RequirePermission("activity.cancel"))
	api.DELETE("/activities/:id", routes.DeleteActivityHandler, middleware.RequirePermission("activity.delete"))

	// Summaries
	api.GET("/areas/:id/summary/:anio", routes.GetAreaSummaryHandler)
	api.POST("/areas/:id/summary/:anio/export", routes.CreateExportHandler, middleware.RequirePermission("summary.export"))
	api.GET("/exports/:id", routes.GetExportHandler)
	api.GET("/exports/:id/download", routes.DownloadExportHandler)
}
