package model

// Corpus is an ordered collection of tokenized sentences with a parallel tag stream.
// Sentences[i] and Labels[i] describe the same sentence; order encodes document position
// and is preserved by every downstream split.
type Corpus struct {
	Path      string     `json:"path"`
	Sentences [][]string `json:"sentences"`
	Labels    [][]string `json:"labels"`
}

// Len returns the number of sentences in the corpus.
func (c Corpus) Len() int {
	return len(c.Sentences)
}

// Partition is a contiguous slice of a corpus used for one experimental role.
// Words and Tags come from the same index range but may originate from different
// label streams (tagged for train, gold for dev/test).
type Partition struct {
	Words [][]string `json:"words"`
	Tags  [][]string `json:"tags"`
}

// Len returns the number of sentences in the partition.
func (p Partition) Len() int {
	return len(p.Words)
}

// TaggedSentence pairs a tagged variant's sentence with its own tags and the gold tags
// found at the same position.
type TaggedSentence struct {
	Words      []string `json:"words"`
	TagLabels  []string `json:"tag_labels"`
	GoldLabels []string `json:"gold_labels"`
}

// Vocabulary maps a token (word or tag) to its integer id.
type Vocabulary map[string]int

// Clone returns an independent copy of the vocabulary.
func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	for k, id := range v {
		out[k] = id
	}
	return out
}

// VocabularyMaps bundles the word and tag maps handed to the neural trainer.
type VocabularyMaps struct {
	Words Vocabulary `json:"word2id"`
	Tags  Vocabulary `json:"tag2id"`
}

// Predictions holds the tag sequences produced by a trainer for its test partition.
// Trainers that only report metrics may return an empty value.
type Predictions struct {
	Tags    [][]string         `json:"tags,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}
