package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gcbaptista/go-tagger-eval/internal/jobs"
	"github.com/gcbaptista/go-tagger-eval/internal/pipeline"
	"github.com/gcbaptista/go-tagger-eval/model"
)

// RunGroupAsync evaluates one group in the background and returns the job ID.
// Unknown groups and groups without corpora are rejected before a job is created.
func (e *Engine) RunGroupAsync(groupName string) (string, error) {
	g, err := e.ResolveGroup(groupName)
	if err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRunGroup, groupName, map[string]string{
		"pipeline": string(g.Variant),
		"corpora":  fmt.Sprintf("%d", len(g.Paths)),
	})
	err = e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeRunJob(ctx, jobID, []pipeline.Group{g})
	})
	if err != nil {
		return "", fmt.Errorf("failed to start run job: %w", err)
	}
	return jobID, nil
}

// RunAllAsync evaluates every configured group in the background. Groups are
// resolved when the job starts; one that does not resolve is skipped and its error
// is reported with the job.
func (e *Engine) RunAllAsync() (string, error) {
	jobID := e.jobManager.CreateJob(model.JobTypeRunAll, "", map[string]string{
		"groups": fmt.Sprintf("%d", len(e.settings.Groups)),
	})
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		var errs []error
		groups := make([]pipeline.Group, 0, len(e.settings.Groups))
		for _, gs := range e.settings.Groups {
			g, err := e.resolve(gs)
			if err != nil {
				log.Printf("Warning: skipping group '%s': %v", gs.Name, err)
				errs = append(errs, fmt.Errorf("group '%s': %w", gs.Name, err))
				continue
			}
			groups = append(groups, g)
		}
		errs = append(errs, e.executeRunJob(ctx, jobID, groups))
		return stderrors.Join(errs...)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start run job: %w", err)
	}
	return jobID, nil
}

// executeRunJob runs the groups in order, reporting one progress step per corpus.
// A failing group does not stop the next one unless the job was cancelled.
func (e *Engine) executeRunJob(ctx context.Context, jobID string, groups []pipeline.Group) error {
	total := 0
	for _, g := range groups {
		total += len(g.Paths)
	}
	done := 0
	e.jobManager.UpdateJobProgress(jobID, 0, total, "Starting evaluation")

	e.setProgress(func(r model.RunReport) {
		done++
		e.jobManager.UpdateJobProgress(jobID, done, total, fmt.Sprintf("%s: %s", r.Variant, filepath.Base(r.DataPath)))
	})
	defer e.setProgress(nil)

	var errs []error
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		reports, err := e.runGroup(ctx, g)
		ids := make([]string, 0, len(reports))
		for _, r := range reports {
			ids = append(ids, r.ID)
		}
		e.jobManager.AddRunIDs(jobID, ids...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		e.jobManager.UpdateJobProgress(jobID, total, total, "Evaluation finished")
	}
	return stderrors.Join(errs...)
}

// GetJob retrieves a job by ID
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns jobs for a group, or all jobs when groupName is empty
func (e *Engine) ListJobs(groupName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(groupName, status)
}

// CancelJob cancels a pending or running job
func (e *Engine) CancelJob(jobID string) error {
	return e.jobManager.CancelJob(jobID)
}

// GetJobMetrics returns job performance metrics
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
