package services

import (
	"context"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// CorpusLoader reads a corpus file into parallel sentence and label streams.
// Both returned streams must have the same outer length.
type CorpusLoader interface {
	Load(ctx context.Context, path string) (model.Corpus, error)
}

// VocabularyBuilder assigns integer ids to every token seen in the given sequences.
type VocabularyBuilder interface {
	BuildMap(seqs [][]string) model.Vocabulary
}

// MapExtender adds reserved symbols to word and tag maps. When forCRF is set the
// decoding layer's boundary symbols are added as well. Inputs are never modified.
type MapExtender interface {
	ExtendMaps(words, tags model.Vocabulary, forCRF bool) (model.Vocabulary, model.Vocabulary)
}

// Preprocessor shapes a partition for neural consumption. testMode changes how the
// tag stream is treated; the exact contract belongs to the implementation.
type Preprocessor interface {
	Adapt(p model.Partition, testMode bool) model.Partition
}

// WordNormalizer rewrites the words of a partition into their canonical forms. A
// Preprocessor that also implements it is applied to the split partitions before the
// vocabulary maps are built, so map keys and trainer input agree.
type WordNormalizer interface {
	NormalizeWords(p model.Partition) model.Partition
}

// LinearChainTrainer trains a linear-chain tagger on train and evaluates it on test.
type LinearChainTrainer interface {
	TrainEval(ctx context.Context, train, test model.Partition, entityLevel bool) (model.Predictions, error)
}

// TaggedTrainer trains a linear-chain tagger that uses the tagged variant's labels as
// features, on partitions of aligned triples.
type TaggedTrainer interface {
	TrainEvalTagged(ctx context.Context, train, test []model.TaggedSentence, entityLevel bool) (model.Predictions, error)
}

// NeuralTrainer trains a neural tagger with a structured decoding layer, using dev for
// model selection and test for the final evaluation.
type NeuralTrainer interface {
	TrainEval(ctx context.Context, train, dev, test model.Partition, maps model.VocabularyMaps, entityLevel bool) (model.Predictions, error)
}

// JobManager defines operations for inspecting background evaluation jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(groupName string, status *model.JobStatus) []*model.Job
}

// Evaluator exposes corpus groups and run reports to outer surfaces such as the HTTP API
type Evaluator interface {
	Groups() []model.GroupInfo
	RunGroupAsync(groupName string) (string, error)
	RunAllAsync() (string, error)
	GetRun(runID string) (model.RunReport, error)
	ListRuns(groupName string) []model.RunReport
}
