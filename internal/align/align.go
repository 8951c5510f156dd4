// Package align pairs a tagged corpus with an independently loaded gold corpus.
//
// Alignment is purely positional: sentence i of the tagged corpus is paired with
// gold sentence i. Nothing is matched or validated, and when the streams differ in
// length the result stops at the shortest one. Keeping both files in the same
// document order is the caller's job.
package align

import (
	"github.com/gcbaptista/go-tagger-eval/model"
)

// Align zips words, tags and gold into triples, truncated to the shortest input.
func Align(words, tags, gold [][]string) []model.TaggedSentence {
	n := min(len(words), len(tags), len(gold))
	out := make([]model.TaggedSentence, n)
	for i := 0; i < n; i++ {
		out[i] = model.TaggedSentence{
			Words:      words[i],
			TagLabels:  tags[i],
			GoldLabels: gold[i],
		}
	}
	return out
}

// Corpora aligns a tagged variant with the gold reference. The gold corpus only
// contributes its labels; its own sentences are ignored.
func Corpora(tagged, gold model.Corpus) []model.TaggedSentence {
	return Align(tagged.Sentences, tagged.Labels, gold.Labels)
}
