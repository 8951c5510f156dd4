// Package engine orchestrates evaluation runs over the configured corpus groups.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcbaptista/go-tagger-eval/config"
	"github.com/gcbaptista/go-tagger-eval/internal/discovery"
	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/internal/jobs"
	"github.com/gcbaptista/go-tagger-eval/internal/metrics"
	"github.com/gcbaptista/go-tagger-eval/internal/pipeline"
	"github.com/gcbaptista/go-tagger-eval/model"
	"github.com/gcbaptista/go-tagger-eval/store"
)

const dataDirPerm = 0755

// Engine runs corpus groups through their pipelines and keeps the resulting reports.
// It implements services.Evaluator and services.JobManager.
type Engine struct {
	settings   *config.Settings
	runner     *pipeline.Runner
	reports    *store.ReportStore
	jobManager *jobs.Manager
	metrics    *metrics.Collector

	// runMu serializes runs: corpora are large and only one group may be in memory.
	runMu sync.Mutex

	progressMu sync.Mutex
	progress   func(model.RunReport)
}

// NewEngine creates an engine over the given settings and collaborators and loads
// reports persisted by earlier runs.
func NewEngine(settings *config.Settings, c pipeline.Collaborators) *Engine {
	e := &Engine{
		settings:   settings,
		reports:    store.NewReportStore(),
		jobManager: jobs.NewManager(1),
		metrics:    metrics.NewCollector(),
	}
	e.runner = pipeline.NewRunner(c, pipeline.Options{
		TrainRatio:           settings.TrainRatio,
		DevRatio:             settings.DevRatio,
		EntityLevel:          settings.EntityLevel,
		ForceReclaim:         settings.ForceReclaim,
		WarnOnLengthMismatch: settings.WarnOnLengthMismatch,
	})
	e.runner.SetObserver(e)

	if err := os.MkdirAll(settings.ReportDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create report directory %s: %v. Reports will not be persisted.", settings.ReportDir, err)
	}
	e.loadReports()
	e.jobManager.Start()
	return e
}

// Close stops background jobs and persists the reports.
func (e *Engine) Close() error {
	e.jobManager.Stop()
	return e.saveReports()
}

// Groups resolves every configured group. Resolution problems are reported per group
// instead of failing the whole listing.
func (e *Engine) Groups() []model.GroupInfo {
	infos := make([]model.GroupInfo, 0, len(e.settings.Groups))
	for _, gs := range e.settings.Groups {
		info := model.GroupInfo{
			Name:     gs.Name,
			Filter:   gs.Filter,
			Pipeline: e.settings.PipelineFor(gs),
			GoldPath: e.goldPath(gs),
			Paths:    make([]string, 0),
		}
		if g, err := e.resolve(gs); err != nil {
			info.Error = err.Error()
		} else {
			info.Paths = g.Paths
		}
		infos = append(infos, info)
	}
	return infos
}

// ResolveGroup discovers the tagged variants of a group and selects its pipeline.
func (e *Engine) ResolveGroup(name string) (pipeline.Group, error) {
	gs, ok := e.settings.Group(name)
	if !ok {
		return pipeline.Group{}, errors.NewGroupNotFoundError(name)
	}
	return e.resolve(gs)
}

func (e *Engine) resolve(gs config.GroupSettings) (pipeline.Group, error) {
	variant, err := pipeline.ParseVariant(e.settings.PipelineFor(gs))
	if err != nil {
		return pipeline.Group{}, err
	}
	// The gold file matches the filter too and stays in the list, so every group
	// also evaluates its gold reference against itself as a baseline.
	paths, err := discovery.Discover(e.settings.CorpusRoot, e.settings.Pattern, gs.Filter)
	if err != nil {
		return pipeline.Group{}, err
	}
	return pipeline.Group{
		Name:     gs.Name,
		Variant:  variant,
		Paths:    paths,
		GoldPath: e.goldPath(gs),
	}, nil
}

func (e *Engine) goldPath(gs config.GroupSettings) string {
	if filepath.IsAbs(gs.Gold) {
		return gs.Gold
	}
	return filepath.Join(e.settings.CorpusRoot, gs.Gold)
}

// RunGroup evaluates one group synchronously. Reports of the paths processed before
// a failure are stored and returned together with the error.
func (e *Engine) RunGroup(ctx context.Context, name string) ([]model.RunReport, error) {
	g, err := e.ResolveGroup(name)
	if err != nil {
		return nil, err
	}
	return e.runGroup(ctx, g)
}

// RunAll evaluates every configured group in order. A failing group does not stop
// its siblings; all group errors are joined.
func (e *Engine) RunAll(ctx context.Context) ([]model.RunReport, error) {
	var (
		all  []model.RunReport
		errs []error
	)
	for _, gs := range e.settings.Groups {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		g, err := e.resolve(gs)
		if err != nil {
			log.Printf("Warning: skipping group '%s': %v", gs.Name, err)
			errs = append(errs, fmt.Errorf("group '%s': %w", gs.Name, err))
			continue
		}
		reports, err := e.runGroup(ctx, g)
		all = append(all, reports...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return all, stderrors.Join(errs...)
}

func (e *Engine) runGroup(ctx context.Context, g pipeline.Group) ([]model.RunReport, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	log.Printf("Info: evaluating group '%s' with %s over %d corpora", g.Name, g.Variant, len(g.Paths))
	reports, err := e.runner.Run(ctx, g)
	e.reports.Add(reports...)
	if saveErr := e.saveReports(); saveErr != nil {
		log.Printf("Warning: failed to persist reports after group '%s': %v", g.Name, saveErr)
	}
	return reports, err
}

// ObserveRun implements pipeline.Observer.
func (e *Engine) ObserveRun(r model.RunReport) {
	e.metrics.ObserveRun(r)

	e.progressMu.Lock()
	fn := e.progress
	e.progressMu.Unlock()
	if fn != nil {
		fn(r)
	}
}

func (e *Engine) setProgress(fn func(model.RunReport)) {
	e.progressMu.Lock()
	e.progress = fn
	e.progressMu.Unlock()
}

// GetRun returns a stored run report.
func (e *Engine) GetRun(runID string) (model.RunReport, error) {
	return e.reports.Get(runID)
}

// ListRuns returns stored reports of a group, or of every group when name is empty.
func (e *Engine) ListRuns(groupName string) []model.RunReport {
	return e.reports.List(groupName)
}

// MetricsHandler serves the Prometheus metrics of this engine.
func (e *Engine) MetricsHandler() http.Handler {
	return e.metrics.Handler()
}
