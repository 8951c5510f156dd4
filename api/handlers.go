package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/services"
)

// Version is reported by the health check and the CLI.
const Version = "1.0.0"

// API holds dependencies for API handlers, primarily the evaluation engine.
type API struct {
	engine services.Evaluator
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.Evaluator) *API {
	return &API{engine: engine}
}

// metricsProvider is implemented by engines that export Prometheus metrics.
type metricsProvider interface {
	MetricsHandler() http.Handler
}

// SetupRoutes defines all the API routes for the evaluation service.
func SetupRoutes(router *gin.Engine, engine services.Evaluator) {
	apiHandler := NewAPI(engine)

	router.Use(RequestIDMiddleware())

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Prometheus metrics
	if mp, ok := engine.(metricsProvider); ok {
		router.GET("/metrics", gin.WrapH(mp.MetricsHandler()))
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs of every group
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.DELETE("/:jobId", apiHandler.CancelJobHandler)   // Cancel a pending or running job
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	// Corpus group routes
	groupRoutes := router.Group("/groups")
	{
		groupRoutes.GET("", apiHandler.ListGroupsHandler)                    // List configured groups with their corpora
		groupRoutes.GET("/:groupName", apiHandler.GetGroupHandler)           // Get one group
		groupRoutes.POST("/:groupName/runs", apiHandler.RunGroupHandler)     // Start evaluating a group
		groupRoutes.GET("/:groupName/runs", apiHandler.ListGroupRunsHandler) // Reports of a group
		groupRoutes.GET("/:groupName/jobs", apiHandler.ListGroupJobsHandler) // Jobs of a group
	}

	// Run report routes
	runRoutes := router.Group("/runs")
	{
		runRoutes.POST("", apiHandler.RunAllHandler)       // Start evaluating every group
		runRoutes.GET("", apiHandler.ListRunsHandler)      // List reports, optionally ?group=
		runRoutes.GET("/:runId", apiHandler.GetRunHandler) // Get one report
	}
}

// HealthCheckHandler handles requests to the health check endpoint.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   Version,
		"groups":    len(api.engine.Groups()),
	})
}
