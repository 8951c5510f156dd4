package corpus

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tagger-eval/model"
)

func TestWrite_RoundTripsThroughLoad(t *testing.T) {
	c := model.Corpus{
		Sentences: [][]string{{"山田", "太郎"}, {"東京"}},
		Labels:    [][]string{{"B-PER", "I-PER"}, {"B-LOC"}},
	}
	path := filepath.Join(t.TempDir(), "nested", "out.bio")
	require.NoError(t, WriteFile(path, c))

	got, err := NewLoader(false).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, c.Sentences, got.Sentences)
	assert.Equal(t, c.Labels, got.Labels)
}

func TestWrite_RejectsInconsistentCorpus(t *testing.T) {
	tests := []struct {
		name string
		c    model.Corpus
	}{
		{"outer length", model.Corpus{Sentences: [][]string{{"a"}}}},
		{"inner length", model.Corpus{Sentences: [][]string{{"a", "b"}}, Labels: [][]string{{"O"}}}},
		{"separator in token", model.Corpus{Sentences: [][]string{{"a\tb"}}, Labels: [][]string{{"O"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, Write(&buf, tt.c))
		})
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.Corpus{}))
	assert.Empty(t, buf.String())
}
