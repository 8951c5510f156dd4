// Package pipeline drives the three evaluation pipelines over corpus groups.
//
// A run is strictly sequential: for each tagged variant of a group the corpus is
// loaded, split, handed to a trainer and dropped before the next one starts. The
// gold reference is loaded once per group, except for the BiLSTM-CRF pipeline which
// reloads it per variant. Only a small RunReport survives each iteration.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-tagger-eval/internal/align"
	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/internal/partition"
	"github.com/gcbaptista/go-tagger-eval/model"
	"github.com/gcbaptista/go-tagger-eval/services"
)

// Group is one corpus family: its tagged variants and the gold file they share.
type Group struct {
	Name     string
	Variant  Variant
	Paths    []string
	GoldPath string
}

// Options controls splitting and reporting for every pipeline.
type Options struct {
	TrainRatio  float64
	DevRatio    float64
	EntityLevel bool
	// ForceReclaim returns freed memory to the OS after each trainer invocation.
	ForceReclaim bool
	// WarnOnLengthMismatch logs when a tagged variant and the gold reference differ in length.
	WarnOnLengthMismatch bool
}

// DefaultOptions mirrors the original experiment setup.
func DefaultOptions() Options {
	return Options{
		TrainRatio:           partition.DefaultTrainRatio,
		DevRatio:             partition.DefaultDevRatio,
		EntityLevel:          true,
		WarnOnLengthMismatch: true,
	}
}

// Collaborators are the external services a Runner delegates to. Only the ones
// needed by the variants actually run have to be set.
type Collaborators struct {
	Loader       services.CorpusLoader
	CRF          services.LinearChainTrainer
	Tagged       services.TaggedTrainer
	Neural       services.NeuralTrainer
	Vocabulary   services.VocabularyBuilder
	Extender     services.MapExtender
	Preprocessor services.Preprocessor
}

// Observer is notified after every trainer invocation, successful or not.
type Observer interface {
	ObserveRun(report model.RunReport)
}

// Runner executes pipelines. It keeps no state between runs and is safe to reuse
// across groups, but it must not be used from several goroutines at once.
type Runner struct {
	c        Collaborators
	opts     Options
	observer Observer
	// group is stamped on reports while Run is evaluating a group.
	group string
}

// NewRunner creates a pipeline runner.
func NewRunner(c Collaborators, opts Options) *Runner {
	return &Runner{c: c, opts: opts}
}

// SetObserver registers an observer for run reports.
func (r *Runner) SetObserver(o Observer) {
	r.observer = o
}

// Run evaluates every path of the group with the group's variant. Reports of the
// paths processed before a failure are returned together with the error.
func (r *Runner) Run(ctx context.Context, g Group) ([]model.RunReport, error) {
	if err := r.check(g.Variant); err != nil {
		return nil, err
	}
	r.group = g.Name
	defer func() { r.group = "" }()

	var (
		reports []model.RunReport
		err     error
	)
	switch g.Variant {
	case VariantCRF:
		reports, err = r.RunCRF(ctx, g.Paths, g.GoldPath)
	case VariantCRFTagged:
		reports, err = r.RunCRFTagged(ctx, g.Paths, g.GoldPath)
	case VariantBiLSTMCRF:
		for _, path := range g.Paths {
			if err = ctx.Err(); err != nil {
				break
			}
			var report model.RunReport
			report, err = r.RunBiLSTMCRF(ctx, path, g.GoldPath)
			if report.ID != "" {
				reports = append(reports, report)
			}
			if err != nil {
				break
			}
		}
	}

	if err != nil {
		return reports, fmt.Errorf("group '%s' (%s): %w", g.Name, g.Variant, err)
	}
	return reports, nil
}

// RunCRF loads the gold reference once, then trains and evaluates a CRF for each
// tagged variant on a two-way split: train labels from the variant, test labels from gold.
func (r *Runner) RunCRF(ctx context.Context, paths []string, goldPath string) ([]model.RunReport, error) {
	if err := r.check(VariantCRF); err != nil {
		return nil, err
	}
	gold, err := r.c.Loader.Load(ctx, goldPath)
	if err != nil {
		return nil, err
	}
	return r.each(ctx, paths, func(path string) (model.RunReport, error) {
		return r.crf(ctx, path, gold)
	})
}

// RunCRFTagged loads the gold reference once, then aligns each tagged variant with
// it and trains the dictionary-feature CRF on a split of the aligned triples.
func (r *Runner) RunCRFTagged(ctx context.Context, paths []string, goldPath string) ([]model.RunReport, error) {
	if err := r.check(VariantCRFTagged); err != nil {
		return nil, err
	}
	gold, err := r.c.Loader.Load(ctx, goldPath)
	if err != nil {
		return nil, err
	}
	return r.each(ctx, paths, func(path string) (model.RunReport, error) {
		return r.crfTagged(ctx, path, gold)
	})
}

// RunBiLSTMCRF evaluates a single tagged variant with the BiLSTM-CRF pipeline.
func (r *Runner) RunBiLSTMCRF(ctx context.Context, path, goldPath string) (model.RunReport, error) {
	if err := r.check(VariantBiLSTMCRF); err != nil {
		return model.RunReport{}, err
	}
	gold, err := r.c.Loader.Load(ctx, goldPath)
	if err != nil {
		return model.RunReport{}, err
	}
	report, err := r.bilstmCRF(ctx, path, gold)
	r.reclaim()
	return report, err
}

// each runs fn for every path in order and stops at the first error.
func (r *Runner) each(ctx context.Context, paths []string, fn func(path string) (model.RunReport, error)) ([]model.RunReport, error) {
	reports := make([]model.RunReport, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := fn(path)
		reports = append(reports, report)
		r.reclaim()
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (r *Runner) crf(ctx context.Context, path string, gold model.Corpus) (model.RunReport, error) {
	report := r.newReport(VariantCRF, path, gold)
	tagged, err := r.c.Loader.Load(ctx, path)
	if err != nil {
		return r.fail(report, err), err
	}
	r.checkLengths(&report, tagged, gold)

	train, test := partition.Split(tagged.Sentences, gold.Labels, tagged.Labels, r.opts.TrainRatio)
	report.Sizes = model.PartitionSizes{Train: train.Len(), Test: test.Len()}
	log.Printf("Training and evaluating %s model for data: %s", VariantCRF.DisplayName(), stem(path))
	log.Printf("train data: %d, test data: %d", train.Len(), test.Len())

	pred, err := r.c.CRF.TrainEval(ctx, train, test, r.opts.EntityLevel)
	if err != nil {
		err = errors.NewTrainerError(string(VariantCRF), path, err)
		return r.fail(report, err), err
	}
	return r.complete(report, pred), nil
}

func (r *Runner) crfTagged(ctx context.Context, path string, gold model.Corpus) (model.RunReport, error) {
	report := r.newReport(VariantCRFTagged, path, gold)
	tagged, err := r.c.Loader.Load(ctx, path)
	if err != nil {
		return r.fail(report, err), err
	}
	r.checkLengths(&report, tagged, gold)

	data := align.Corpora(tagged, gold)
	train, test := partition.SplitTagged(data, r.opts.TrainRatio)
	report.Sizes = model.PartitionSizes{Train: len(train), Test: len(test)}
	log.Printf("Training and evaluating %s model for data tagged with: %s", VariantCRFTagged.DisplayName(), stem(path))
	log.Printf("train data: %d, test data: %d", len(train), len(test))

	pred, err := r.c.Tagged.TrainEvalTagged(ctx, train, test, r.opts.EntityLevel)
	if err != nil {
		err = errors.NewTrainerError(string(VariantCRFTagged), path, err)
		return r.fail(report, err), err
	}
	return r.complete(report, pred), nil
}

func (r *Runner) bilstmCRF(ctx context.Context, path string, gold model.Corpus) (model.RunReport, error) {
	report := r.newReport(VariantBiLSTMCRF, path, gold)
	tagged, err := r.c.Loader.Load(ctx, path)
	if err != nil {
		return r.fail(report, err), err
	}
	r.checkLengths(&report, tagged, gold)

	train, dev, test := partition.SplitWithDev(tagged.Sentences, gold.Labels, tagged.Labels, r.opts.TrainRatio, r.opts.DevRatio)
	report.Sizes = model.PartitionSizes{Train: train.Len(), Dev: dev.Len(), Test: test.Len()}

	if n, ok := r.c.Preprocessor.(services.WordNormalizer); ok {
		train, dev, test = n.NormalizeWords(train), n.NormalizeWords(dev), n.NormalizeWords(test)
	}

	// Maps come from the train partition only so dev/test tokens stay unseen.
	word2id := r.c.Vocabulary.BuildMap(train.Words)
	tag2id := r.c.Vocabulary.BuildMap(train.Tags)
	crfWord2id, crfTag2id := r.c.Extender.ExtendMaps(word2id, tag2id, true)

	train = r.c.Preprocessor.Adapt(train, false)
	dev = r.c.Preprocessor.Adapt(dev, false)
	test = r.c.Preprocessor.Adapt(test, true)

	log.Printf("Training and evaluating %s model for data: %s", VariantBiLSTMCRF.DisplayName(), stem(path))
	log.Printf("train data: %d, dev data: %d, test data: %d", train.Len(), dev.Len(), test.Len())

	maps := model.VocabularyMaps{Words: crfWord2id, Tags: crfTag2id}
	pred, err := r.c.Neural.TrainEval(ctx, train, dev, test, maps, r.opts.EntityLevel)
	if err != nil {
		err = errors.NewTrainerError(string(VariantBiLSTMCRF), path, err)
		return r.fail(report, err), err
	}
	return r.complete(report, pred), nil
}

// check verifies the collaborators a variant depends on are configured.
func (r *Runner) check(v Variant) error {
	missing := make([]string, 0)
	if r.c.Loader == nil {
		missing = append(missing, "loader")
	}
	switch v {
	case VariantCRF:
		if r.c.CRF == nil {
			missing = append(missing, "crf trainer")
		}
	case VariantCRFTagged:
		if r.c.Tagged == nil {
			missing = append(missing, "tagged trainer")
		}
	case VariantBiLSTMCRF:
		if r.c.Neural == nil {
			missing = append(missing, "neural trainer")
		}
		if r.c.Vocabulary == nil {
			missing = append(missing, "vocabulary builder")
		}
		if r.c.Extender == nil {
			missing = append(missing, "map extender")
		}
		if r.c.Preprocessor == nil {
			missing = append(missing, "preprocessor")
		}
	default:
		_, err := ParseVariant(string(v))
		return err
	}
	if len(missing) > 0 {
		return errors.NewValidationError("collaborators", fmt.Sprintf("%s pipeline is missing: %s", v, strings.Join(missing, ", ")))
	}
	return nil
}

func (r *Runner) newReport(v Variant, path string, gold model.Corpus) model.RunReport {
	return model.RunReport{
		ID:          uuid.New().String(),
		Group:       r.group,
		Variant:     string(v),
		DataPath:    path,
		GoldPath:    gold.Path,
		GoldLen:     gold.Len(),
		EntityLevel: r.opts.EntityLevel,
		StartedAt:   time.Now(),
	}
}

// checkLengths records both corpus lengths. Alignment stays positional either way.
func (r *Runner) checkLengths(report *model.RunReport, tagged, gold model.Corpus) {
	report.TaggedLen = tagged.Len()
	if r.opts.WarnOnLengthMismatch && tagged.Len() != gold.Len() {
		log.Printf("Warning: tagged corpus %s has %d sentences but gold %s has %d; aligning by position.",
			tagged.Path, tagged.Len(), gold.Path, gold.Len())
	}
}

func (r *Runner) complete(report model.RunReport, pred model.Predictions) model.RunReport {
	report.Status = model.RunStatusCompleted
	report.Metrics = pred.Metrics
	report.Duration = time.Since(report.StartedAt)
	r.notify(report)
	return report
}

func (r *Runner) fail(report model.RunReport, err error) model.RunReport {
	report.Status = model.RunStatusFailed
	report.Error = err.Error()
	report.Duration = time.Since(report.StartedAt)
	r.notify(report)
	return report
}

func (r *Runner) notify(report model.RunReport) {
	if r.observer != nil {
		r.observer.ObserveRun(report)
	}
}

// reclaim runs after each trainer invocation; everything the iteration allocated
// is unreachable by now.
func (r *Runner) reclaim() {
	if r.opts.ForceReclaim {
		debug.FreeOSMemory()
	}
}

// stem returns the file name without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
