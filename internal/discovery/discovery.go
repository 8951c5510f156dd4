// Package discovery lists the corpus files of a corpus family.
package discovery

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
)

// Discover globs root/pattern, keeps the paths containing filter and orders them by
// path-string length ascending. Equal lengths are ordered lexically so the result
// does not depend on directory listing order.
//
// An empty result is an error: a group without corpora cannot be evaluated.
func Discover(root, pattern, filter string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, errors.NewValidationError("pattern", err.Error())
	}

	paths := Filter(matches, filter)
	if len(paths) == 0 {
		return nil, errors.NewNoCorpusMatchError(root, pattern, filter)
	}
	SortByLength(paths)
	return paths, nil
}

// Filter returns the paths whose string contains substr, in their original order.
func Filter(paths []string, substr string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.Contains(p, substr) {
			out = append(out, p)
		}
	}
	return out
}

// SortByLength orders paths by length ascending, ties broken lexically.
func SortByLength(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) < len(paths[j])
		}
		return paths[i] < paths[j]
	})
}
