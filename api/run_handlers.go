package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunAllHandler starts evaluating every configured group in the background.
func (api *API) RunAllHandler(c *gin.Context) {
	jobID, err := api.engine.RunAllAsync()
	if err != nil {
		SendEngineError(c, "run all groups", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Evaluation started for all groups",
		"job_id":  jobID,
	})
}

// ListRunsHandler lists stored run reports, optionally restricted with ?group=.
func (api *API) ListRunsHandler(c *gin.Context) {
	group := c.Query("group")
	runs := api.engine.ListRuns(group)
	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRunHandler returns one run report.
func (api *API) GetRunHandler(c *gin.Context) {
	runID := c.Param("runId")
	if result := ValidateRunID(runID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	run, err := api.engine.GetRun(runID)
	if err != nil {
		SendEngineError(c, "get run", err)
		return
	}
	c.JSON(http.StatusOK, run)
}
