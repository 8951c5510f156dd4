// Package preprocess shapes partitions for the BiLSTM-CRF trainer.
package preprocess

import (
	"github.com/gcbaptista/go-tagger-eval/internal/tokenizer"
	"github.com/gcbaptista/go-tagger-eval/internal/vocab"
	"github.com/gcbaptista/go-tagger-eval/model"
)

// Adapter implements services.Preprocessor.
//
// Every word sequence gets the <end> boundary symbol appended. Tag sequences get it
// too, except in test mode: test tags are compared against the decoder's output and
// must keep their original length. Padding to batch length is left to the trainer.
type Adapter struct {
	// Normalize makes NormalizeWords apply NFKC to every word.
	Normalize bool
}

// NewAdapter creates a preprocessing adapter.
func NewAdapter(normalize bool) *Adapter {
	return &Adapter{Normalize: normalize}
}

// Adapt returns a new partition; p is left untouched.
func (a *Adapter) Adapt(p model.Partition, testMode bool) model.Partition {
	out := model.Partition{
		Words: make([][]string, len(p.Words)),
		Tags:  make([][]string, len(p.Tags)),
	}
	for i, words := range p.Words {
		out.Words[i] = withEnd(words)
	}
	for i, tags := range p.Tags {
		if testMode {
			out.Tags[i] = append([]string(nil), tags...)
			continue
		}
		out.Tags[i] = withEnd(tags)
	}
	return out
}

// NormalizeWords implements services.WordNormalizer. Tags are shared with p; words
// are rewritten into new slices. Without Normalize, p is returned as is.
func (a *Adapter) NormalizeWords(p model.Partition) model.Partition {
	if !a.Normalize {
		return p
	}
	words := make([][]string, len(p.Words))
	for i, w := range p.Words {
		words[i] = tokenizer.NormalizeAll(w)
	}
	return model.Partition{Words: words, Tags: p.Tags}
}

func withEnd(seq []string) []string {
	out := make([]string, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, vocab.End)
}
