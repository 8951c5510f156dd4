// Package corpus reads BIO/CoNLL-style corpus files.
//
// Each non-blank line holds one token: the word in the first column and its tag in
// the last one, separated by tabs or spaces. Blank lines end a sentence.
package corpus

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
	"github.com/gcbaptista/go-tagger-eval/internal/tokenizer"
	"github.com/gcbaptista/go-tagger-eval/model"
)

// docStart marks a document boundary in CoNLL-2003 style files.
const docStart = "-DOCSTART-"

// maxLineSize bounds a single corpus line.
const maxLineSize = 1 << 20

// Loader implements services.CorpusLoader for BIO files.
type Loader struct {
	// SkipComments drops lines whose first column starts with '#'.
	SkipComments bool
}

// NewLoader creates a BIO loader.
func NewLoader(skipComments bool) *Loader {
	return &Loader{SkipComments: skipComments}
}

// Load reads the file at path into parallel sentence and label streams.
func (l *Loader) Load(ctx context.Context, path string) (model.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return model.Corpus{}, err
	}

	file, err := os.Open(path) // #nosec G304 -- path comes from corpus discovery, not user input
	if err != nil {
		return model.Corpus{}, errors.NewCorpusLoadError(path, err)
	}
	defer file.Close()

	c := model.Corpus{
		Path:      path,
		Sentences: make([][]string, 0),
		Labels:    make([][]string, 0),
	}
	var words, tags []string
	flush := func() {
		if len(words) > 0 {
			c.Sentences = append(c.Sentences, words)
			c.Labels = append(c.Labels, tags)
		}
		words, tags = nil, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := tokenizer.Fields(scanner.Text())
		if len(fields) == 0 {
			flush()
			continue
		}
		if fields[0] == docStart {
			flush()
			continue
		}
		if l.SkipComments && strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 2 {
			return model.Corpus{}, errors.NewMalformedCorpusError(path, lineNo, "expected word and tag columns")
		}
		words = append(words, fields[0])
		tags = append(tags, fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return model.Corpus{}, errors.NewCorpusLoadError(path, err)
	}
	flush()

	return c, nil
}
