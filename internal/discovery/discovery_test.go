package discovery

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-tagger-eval/internal/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a\tO\n"), 0600))
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"bccwj_unidic_dict.bio",
		"bccwj.bio",
		"bccwj_ipa.bio",
		"mainichi.bio",
		"mainichi_ipa.bio",
		"bccwj_notes.txt",
	)

	paths, err := Discover(dir, "*.bio", "bccwj")
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "bccwj.bio"),
		filepath.Join(dir, "bccwj_ipa.bio"),
		filepath.Join(dir, "bccwj_unidic_dict.bio"),
	}
	assert.Equal(t, want, paths)

	paths, err = Discover(dir, "*.bio", "mainichi")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "mainichi.bio"), filepath.Join(dir, "mainichi_ipa.bio")}, paths)
}

func TestDiscover_NoMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bccwj.bio")

	_, err := Discover(dir, "*.bio", "mainichi")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoCorpusMatch))

	_, err = Discover(filepath.Join(dir, "missing"), "*.bio", "")
	assert.True(t, stderrors.Is(err, errors.ErrNoCorpusMatch))
}

func TestDiscover_BadPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), "[", "")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
}

func TestSortByLength(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", []string{}, []string{}},
		{"by length", []string{"ccc", "a", "bb"}, []string{"a", "bb", "ccc"}},
		{"ties lexical", []string{"b.bio", "a.bio", "c.bio", "aa.bio"}, []string{"a.bio", "b.bio", "c.bio", "aa.bio"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortByLength(tt.input)
			assert.Equal(t, tt.want, tt.input)
		})
	}
}

func TestFilter(t *testing.T) {
	in := []string{"x/bccwj.bio", "x/mainichi.bio", "x/bccwj_dict.bio"}
	assert.Equal(t, []string{"x/bccwj.bio", "x/bccwj_dict.bio"}, Filter(in, "bccwj"))
	assert.Equal(t, in, Filter(in, ""))
	assert.Empty(t, Filter(in, "kyoto"))
}
