package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-tagger-eval/model"
)

func partition() model.Partition {
	return model.Partition{
		Words: [][]string{{"ＳＯＮＹ", "が"}, {"東京"}},
		Tags:  [][]string{{"B-ORG", "O"}, {"B-LOC"}},
	}
}

func TestAdapt_TrainMode(t *testing.T) {
	got := NewAdapter(false).Adapt(partition(), false)

	assert.Equal(t, [][]string{{"ＳＯＮＹ", "が", "<end>"}, {"東京", "<end>"}}, got.Words)
	assert.Equal(t, [][]string{{"B-ORG", "O", "<end>"}, {"B-LOC", "<end>"}}, got.Tags)
}

func TestAdapt_TestModeKeepsTags(t *testing.T) {
	got := NewAdapter(false).Adapt(partition(), true)

	assert.Equal(t, [][]string{{"ＳＯＮＹ", "が", "<end>"}, {"東京", "<end>"}}, got.Words)
	assert.Equal(t, [][]string{{"B-ORG", "O"}, {"B-LOC"}}, got.Tags)
}

func TestNormalizeWords(t *testing.T) {
	in := partition()
	got := NewAdapter(true).NormalizeWords(in)

	assert.Equal(t, [][]string{{"SONY", "が"}, {"東京"}}, got.Words)
	assert.Equal(t, in.Tags, got.Tags)
	assert.Equal(t, partition(), in)
}

func TestNormalizeWords_Disabled(t *testing.T) {
	got := NewAdapter(false).NormalizeWords(partition())
	assert.Equal(t, partition(), got)
}

func TestAdapt_LeavesNormalizationToNormalizeWords(t *testing.T) {
	got := NewAdapter(true).Adapt(partition(), false)
	assert.Equal(t, []string{"ＳＯＮＹ", "が", "<end>"}, got.Words[0])
}

func TestAdapt_DoesNotMutateInput(t *testing.T) {
	in := partition()
	NewAdapter(true).Adapt(in, false)

	assert.Equal(t, partition(), in)
}

func TestAdapt_Empty(t *testing.T) {
	got := NewAdapter(false).Adapt(model.Partition{}, false)
	assert.Zero(t, got.Len())
	assert.Empty(t, got.Tags)
}

func TestAdapt_UnequalStreams(t *testing.T) {
	p := model.Partition{Words: [][]string{{"a"}, {"b"}}, Tags: [][]string{{"O"}}}
	got := NewAdapter(false).Adapt(p, false)

	assert.Len(t, got.Words, 2)
	assert.Len(t, got.Tags, 1)
}
