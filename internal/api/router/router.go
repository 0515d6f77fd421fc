// Package router sets up the API routes for the application.
// This is used in serve mode; the CLI export path does not need it.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/evalplatform/evalreport/consts"
	"github.com/evalplatform/evalreport/internal/api/handler"
	"github.com/evalplatform/evalreport/internal/api/middleware"
	"github.com/evalplatform/evalreport/internal/config"
	"github.com/evalplatform/evalreport/internal/report"
	"github.com/evalplatform/evalreport/internal/store"
)

const bytesPerMB = 1 << 20

// Setup configures all API routes
func Setup(r *gin.Engine, cfg *config.Config, s store.Store, exp *report.Exporter) {
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.BodyLimit(int64(cfg.Server.MaxBodyMB) * bytesPerMB))
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))
	r.Use(otelgin.Middleware(consts.ServiceName))

	healthHandler := handler.NewHealthHandler(storeHealth(s))
	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/health", healthHandler.Health)

	exportHandler := handler.NewExportHandler(exp)
	exports := v1.Group("/exports")
	{
		exports.POST("/html", exportHandler.ExportHTML)
		exports.POST("/pdf", exportHandler.ExportPDF)
	}

	reportHandler := handler.NewSavedReportHandler(s, exp)
	reports := v1.Group("/reports")
	{
		reports.GET("", reportHandler.ListReports)
		reports.POST("", reportHandler.CreateReport)
		reports.GET("/:id", reportHandler.GetReport)
		reports.PATCH("/:id", reportHandler.UpdateReport)
		reports.DELETE("/:id", reportHandler.DeleteReport)
		reports.GET("/:id/export", reportHandler.ExportReport)
	}
}

// storeHealth pings the store's connection. Stores without one skip the probe.
func storeHealth(s store.Store) handler.HealthChecker {
	if s == nil || s.DB() == nil {
		return nil
	}
	return func() error {
		sqlDB, err := s.DB().DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}
}
