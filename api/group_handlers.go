package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-tagger-eval/services"
)

// ListGroupsHandler lists configured groups with the corpora discovered for them.
func (api *API) ListGroupsHandler(c *gin.Context) {
	groups := api.engine.Groups()
	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"total":  len(groups),
	})
}

// GetGroupHandler returns one group.
func (api *API) GetGroupHandler(c *gin.Context) {
	groupName := c.Param("groupName")
	if result := ValidateGroupName(groupName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	for _, g := range api.engine.Groups() {
		if g.Name == groupName {
			c.JSON(http.StatusOK, g)
			return
		}
	}
	SendGroupNotFoundError(c, groupName)
}

// RunGroupHandler starts evaluating a group in the background.
// Response: 202 with the job ID to poll.
func (api *API) RunGroupHandler(c *gin.Context) {
	groupName := c.Param("groupName")
	if result := ValidateGroupName(groupName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.RunGroupAsync(groupName)
	if err != nil {
		SendEngineError(c, "run group", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Evaluation started for group '" + groupName + "'",
		"job_id":  jobID,
	})
}

// ListGroupRunsHandler lists the reports of a group.
func (api *API) ListGroupRunsHandler(c *gin.Context) {
	groupName := c.Param("groupName")
	if !api.hasGroup(groupName) {
		SendGroupNotFoundError(c, groupName)
		return
	}

	runs := api.engine.ListRuns(groupName)
	c.JSON(http.StatusOK, gin.H{
		"runs":       runs,
		"group_name": groupName,
		"total":      len(runs),
	})
}

// ListGroupJobsHandler lists the jobs of a group, optionally filtered by ?status=.
func (api *API) ListGroupJobsHandler(c *gin.Context) {
	groupName := c.Param("groupName")
	if !api.hasGroup(groupName) {
		SendGroupNotFoundError(c, groupName)
		return
	}

	jobManager, ok := api.engine.(services.JobManager)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Job management not supported by this engine")
		return
	}
	status, result := ParseJobStatus(c.Query("status"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobs := jobManager.ListJobs(groupName, status)
	c.JSON(http.StatusOK, gin.H{
		"jobs":       jobs,
		"group_name": groupName,
		"total":      len(jobs),
	})
}

func (api *API) hasGroup(name string) bool {
	for _, g := range api.engine.Groups() {
		if g.Name == name {
			return true
		}
	}
	return false
}
