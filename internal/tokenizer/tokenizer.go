package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// columnSeparator matches the runs of tabs or ASCII spaces between corpus columns.
// The ideographic space (U+3000) is not a separator: it can be a token.
var columnSeparator = regexp.MustCompile(`[\t ]+`)

// byteOrderMark is stripped from the first line of files exported on Windows.
const byteOrderMark = "\ufeff"

// Fields splits a corpus line into its columns.
// Leading/trailing whitespace and a trailing carriage return are ignored.
func Fields(line string) []string {
	line = strings.TrimPrefix(line, byteOrderMark)
	line = strings.TrimRight(line, "\r\n")
	line = strings.Trim(line, "\t ")
	if line == "" {
		return make([]string, 0) // Return empty slice instead of nil
	}
	return columnSeparator.Split(line, -1)
}

// Normalize applies Unicode NFKC normalization to a token, folding full-width
// Latin letters and digits and half-width katakana into their canonical forms.
func Normalize(token string) string {
	if norm.NFKC.IsNormalString(token) {
		return token
	}
	return norm.NFKC.String(token)
}

// NormalizeAll normalizes every token of a sequence into a new slice.
func NormalizeAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Normalize(t)
	}
	return out
}
