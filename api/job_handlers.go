package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/internal/engine"
	"github.com/gcbaptista/go-tagger-eval/services"
)

// jobCanceller is implemented by engines that can cancel jobs.
type jobCanceller interface {
	CancelJob(jobID string) error
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	if jobManager, ok := api.engine.(services.JobManager); ok {
		job, err := jobManager.GetJob(jobID)
		if err != nil {
			SendJobNotFoundError(c, jobID)
			return
		}
		c.JSON(http.StatusOK, job)
	} else {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job management not supported by this engine")
	}
}

// ListJobsHandler handles requests to list jobs of every group
func (api *API) ListJobsHandler(c *gin.Context) {
	status, result := ParseJobStatus(c.Query("status"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if jobManager, ok := api.engine.(services.JobManager); ok {
		jobs := jobManager.ListJobs("", status)
		c.JSON(http.StatusOK, gin.H{
			"jobs":  jobs,
			"total": len(jobs),
		})
	} else {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job management not supported by this engine")
	}
}

// CancelJobHandler cancels a pending or running job
func (api *API) CancelJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	canceller, ok := api.engine.(jobCanceller)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job cancellation not supported by this engine")
		return
	}
	if err := canceller.CancelJob(jobID); err != nil {
		SendEngineError(c, "cancel job", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Cancellation requested for job '" + jobID + "'",
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	if engineWithMetrics, ok := api.engine.(*engine.Engine); ok {
		metrics := engineWithMetrics.GetJobMetrics()
		c.JSON(http.StatusOK, gin.H{
			"metrics":          metrics,
			"success_rate":     metrics.SuccessRate,
			"current_workload": metrics.CurrentWorkload,
		})
	} else {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job metrics not supported by this engine")
	}
}
