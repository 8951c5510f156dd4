// Package testing provides utilities and helpers for testing the evaluation harness.
package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tagger-eval/internal/corpus"
	"github.com/gcbaptista/go-tagger-eval/model"
	"github.com/gcbaptista/go-tagger-eval/services"
)

// SentinelCorpus builds n one-token sentences. Word i is "w<i>" and its label is
// "<label><i>", so every label in a partition reveals which stream it came from.
func SentinelCorpus(n int, label string) (sentences, labels [][]string) {
	sentences = make([][]string, n)
	labels = make([][]string, n)
	for i := 0; i < n; i++ {
		sentences[i] = []string{fmt.Sprintf("w%d", i)}
		labels[i] = []string{fmt.Sprintf("%s%d", label, i)}
	}
	return sentences, labels
}

// WriteCorpus writes sentences and labels as a BIO file named name under dir.
func WriteCorpus(t *testing.T, dir, name string, sentences, labels [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, corpus.WriteFile(path, model.Corpus{Sentences: sentences, Labels: labels}))
	return path
}

// TrainerCall records the partitions one trainer invocation received.
type TrainerCall struct {
	Train       model.Partition
	Dev         model.Partition
	Test        model.Partition
	TrainTagged []model.TaggedSentence
	TestTagged  []model.TaggedSentence
	Maps        model.VocabularyMaps
	EntityLevel bool
}

// RecordingTrainer implements every trainer interface and records its calls.
// When FailOn is set, the call with that 1-based index returns Err.
type RecordingTrainer struct {
	mu      sync.Mutex
	Calls   []TrainerCall
	FailOn  int
	Err     error
	Metrics map[string]float64
}

// TrainEval implements services.LinearChainTrainer.
func (r *RecordingTrainer) TrainEval(_ context.Context, train, test model.Partition, entityLevel bool) (model.Predictions, error) {
	return r.record(TrainerCall{Train: train, Test: test, EntityLevel: entityLevel})
}

// TrainEvalTagged implements services.TaggedTrainer.
func (r *RecordingTrainer) TrainEvalTagged(_ context.Context, train, test []model.TaggedSentence, entityLevel bool) (model.Predictions, error) {
	return r.record(TrainerCall{TrainTagged: train, TestTagged: test, EntityLevel: entityLevel})
}

// NeuralTrainer adapts the recorder to services.NeuralTrainer, whose TrainEval
// signature differs from the linear-chain one.
func (r *RecordingTrainer) NeuralTrainer() services.NeuralTrainer {
	return neuralRecorder{r}
}

type neuralRecorder struct{ r *RecordingTrainer }

func (n neuralRecorder) TrainEval(_ context.Context, train, dev, test model.Partition, maps model.VocabularyMaps, entityLevel bool) (model.Predictions, error) {
	return n.r.record(TrainerCall{Train: train, Dev: dev, Test: test, Maps: maps, EntityLevel: entityLevel})
}

// CallCount returns the number of recorded invocations.
func (r *RecordingTrainer) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

func (r *RecordingTrainer) record(call TrainerCall) (model.Predictions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, call)
	if r.FailOn > 0 && len(r.Calls) == r.FailOn {
		return model.Predictions{}, r.Err
	}
	return model.Predictions{Metrics: r.Metrics}, nil
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJob polls a job until it reaches a terminal status or times out
func WaitForJob(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not finish within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusCancelled:
				return job
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedGroup string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedGroup, job.GroupName, "Job group name should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
