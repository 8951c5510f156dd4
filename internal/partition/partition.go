// Package partition splits ordered corpora into contiguous train/dev/test partitions.
//
// The label source is fixed per partition: train always draws its tags from the
// tagged stream, dev and test always draw from the gold stream. A model therefore
// learns from whatever process produced the tagged file and is scored against gold.
//
// All functions are pure. Ratios are not validated; a ratio that yields an empty
// train or test partition is returned as is, and it is up to the trainer to reject it.
package partition

import (
	"math"

	"github.com/gcbaptista/go-tagger-eval/model"
)

const (
	// DefaultTrainRatio is the share of sentences used for training.
	DefaultTrainRatio = 0.7
	// DefaultDevRatio is the cumulative share of sentences covered by train and dev.
	DefaultDevRatio = 0.85
)

// Index returns floor(n*ratio) clamped to [0, n]. Ratios are fractions of the
// corpus: a negative ratio (or NaN) yields 0, it never counts back from the end.
func Index(n int, ratio float64) int {
	k := int(math.Floor(float64(n) * ratio))
	if k < 0 || math.IsNaN(ratio) {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

// Split performs the two-way split: train = (words[:k], tags[:k]) and
// test = (words[k:], gold[k:]) with k = floor(len(words)*trainRatio).
func Split(words, gold, tags [][]string, trainRatio float64) (train, test model.Partition) {
	n := len(words)
	k := Index(n, trainRatio)

	train = model.Partition{Words: window(words, 0, k), Tags: window(tags, 0, k)}
	test = model.Partition{Words: window(words, k, n), Tags: window(gold, k, len(gold))}
	return train, test
}

// SplitWithDev performs the three-way split. Train covers [0, floor(n*trainRatio)) with
// tagged labels, dev covers [floor(n*trainRatio), floor(n*devRatio)) and test covers the
// rest, both with gold labels.
func SplitWithDev(words, gold, tags [][]string, trainRatio, devRatio float64) (train, dev, test model.Partition) {
	n := len(words)
	tk := Index(n, trainRatio)
	dk := max(Index(n, devRatio), tk)

	train = model.Partition{Words: window(words, 0, tk), Tags: window(tags, 0, tk)}
	dev = model.Partition{Words: window(words, tk, dk), Tags: window(gold, tk, dk)}
	test = model.Partition{Words: window(words, dk, n), Tags: window(gold, dk, len(gold))}
	return train, dev, test
}

// SplitTagged splits aligned triples at floor(len(data)*trainRatio). Both sides keep
// complete triples, so there is no label-source asymmetry here.
func SplitTagged(data []model.TaggedSentence, trainRatio float64) (train, test []model.TaggedSentence) {
	k := Index(len(data), trainRatio)
	return data[:k:k], data[k:]
}

// window returns seq[from:to] with both bounds clipped to the sequence's own length.
// The capacity is capped so appending to a partition never writes into its neighbour.
func window(seq [][]string, from, to int) [][]string {
	from = min(max(from, 0), len(seq))
	to = min(max(to, from), len(seq))
	return seq[from:to:to]
}
