package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// Write serializes c in the format Load reads: one "word<TAB>tag" line per token and
// a blank line after every sentence.
func Write(w io.Writer, c model.Corpus) error {
	if len(c.Sentences) != len(c.Labels) {
		return fmt.Errorf("corpus has %d sentences but %d label sequences", len(c.Sentences), len(c.Labels))
	}
	bw := bufio.NewWriter(w)
	for i, words := range c.Sentences {
		tags := c.Labels[i]
		if len(words) != len(tags) {
			return fmt.Errorf("sentence %d has %d words but %d tags", i, len(words), len(tags))
		}
		for j, word := range words {
			if strings.ContainsAny(word, "\t\n") || strings.ContainsAny(tags[j], "\t\n") {
				return fmt.Errorf("sentence %d token %d contains a column separator", i, j)
			}
			if _, err := fmt.Fprintf(bw, "%s\t%s\n", word, tags[j]); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes c to path, creating parent directories as needed.
func WriteFile(path string, c model.Corpus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create corpus file %s: %w", path, err)
	}
	if err := Write(f, c); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write corpus file %s: %w", path, err)
	}
	return f.Close()
}
