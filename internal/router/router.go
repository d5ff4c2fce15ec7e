package router

import (
	"github.com/gin-gonic/gin"

	"sparcsetl/internal/handler"
	"sparcsetl/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. The API
// is read-only; it serves run history out of the warehouse and the latest
// exported dataset off disk.
func Setup(
	healthH *handler.HealthHandler,
	runH *handler.RunHandler,
	datasetH *handler.DatasetHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	runs := v1.Group("/runs")
	runs.GET("", runH.List)
	runs.GET("/latest", runH.GetLatest)
	runs.GET("/:id", runH.GetByID)
	runs.GET("/:id/submissions", runH.ListSubmissions)

	v1.GET("/dataset", datasetH.Download)

	return r
}
