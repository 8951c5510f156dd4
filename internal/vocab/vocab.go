// Package vocab builds token-to-id maps from training sequences.
package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// Reserved symbols appended to every map, and the boundary symbols the CRF
// decoding layer needs on top of them.
const (
	Unknown = "<unk>"
	Padding = "<pad>"
	Start   = "<start>"
	End     = "<end>"
)

// Builder implements services.VocabularyBuilder and services.MapExtender.
type Builder struct{}

// NewBuilder creates a vocabulary builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildMap assigns ids in first-seen order.
func (b *Builder) BuildMap(seqs [][]string) model.Vocabulary {
	return BuildMap(seqs)
}

// ExtendMaps returns copies of words and tags with the reserved symbols appended.
func (b *Builder) ExtendMaps(words, tags model.Vocabulary, forCRF bool) (model.Vocabulary, model.Vocabulary) {
	return ExtendMaps(words, tags, forCRF)
}

// BuildMap assigns each distinct token an id in the order it is first seen.
func BuildMap(seqs [][]string) model.Vocabulary {
	v := make(model.Vocabulary)
	for _, seq := range seqs {
		for _, tok := range seq {
			if _, ok := v[tok]; !ok {
				v[tok] = len(v)
			}
		}
	}
	return v
}

// ExtendMaps appends <unk> and <pad> to both maps, then <start> and <end> when
// forCRF is set. Symbols already present keep their id. The inputs are not modified.
func ExtendMaps(words, tags model.Vocabulary, forCRF bool) (model.Vocabulary, model.Vocabulary) {
	symbols := []string{Unknown, Padding}
	if forCRF {
		symbols = append(symbols, Start, End)
	}
	return extend(words, symbols), extend(tags, symbols)
}

func extend(v model.Vocabulary, symbols []string) model.Vocabulary {
	out := v.Clone()
	for _, s := range symbols {
		if _, ok := out[s]; !ok {
			out[s] = len(out)
		}
	}
	return out
}

// Save writes a vocabulary as a JSON object to path.
func Save(path string, v model.Vocabulary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write vocabulary %s: %w", path, err)
	}
	return nil
}
