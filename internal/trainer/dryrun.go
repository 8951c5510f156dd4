// Package trainer provides train+eval collaborators for the evaluation pipelines.
package trainer

import (
	"context"
	"log"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// DryRun implements every trainer interface without training anything. It logs what
// it received and returns empty predictions, which is enough to exercise discovery,
// loading and splitting end to end.
type DryRun struct{}

// NewDryRun creates a no-op trainer.
func NewDryRun() *DryRun {
	return &DryRun{}
}

// TrainEval implements services.LinearChainTrainer.
func (d *DryRun) TrainEval(ctx context.Context, train, test model.Partition, entityLevel bool) (model.Predictions, error) {
	if err := ctx.Err(); err != nil {
		return model.Predictions{}, err
	}
	log.Printf("Info: dry run CRF (train=%d, test=%d, entity_level=%t)", train.Len(), test.Len(), entityLevel)
	return dryPredictions(test.Len()), nil
}

// TrainEvalTagged implements services.TaggedTrainer.
func (d *DryRun) TrainEvalTagged(ctx context.Context, train, test []model.TaggedSentence, entityLevel bool) (model.Predictions, error) {
	if err := ctx.Err(); err != nil {
		return model.Predictions{}, err
	}
	log.Printf("Info: dry run tagged CRF (train=%d, test=%d, entity_level=%t)", len(train), len(test), entityLevel)
	return dryPredictions(len(test)), nil
}

// Neural returns the BiLSTM-CRF side of the dry run.
func (d *DryRun) Neural() *DryRunNeural {
	return &DryRunNeural{}
}

// DryRunNeural implements services.NeuralTrainer without training anything.
type DryRunNeural struct{}

// TrainEval implements services.NeuralTrainer.
func (d *DryRunNeural) TrainEval(ctx context.Context, train, dev, test model.Partition, maps model.VocabularyMaps, entityLevel bool) (model.Predictions, error) {
	if err := ctx.Err(); err != nil {
		return model.Predictions{}, err
	}
	log.Printf("Info: dry run Bi-LSTM-CRF (train=%d, dev=%d, test=%d, words=%d, tags=%d, entity_level=%t)",
		train.Len(), dev.Len(), test.Len(), len(maps.Words), len(maps.Tags), entityLevel)
	return dryPredictions(test.Len()), nil
}

func dryPredictions(n int) model.Predictions {
	return model.Predictions{
		Tags:    make([][]string, 0),
		Metrics: map[string]float64{"test_sentences": float64(n)},
	}
}
