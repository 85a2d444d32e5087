// Package diffview renders the preview shown by a dry run.
package diffview

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vk/blockfold/internal/document"
)

// Unified returns a unified diff between before and after, labelled with
// path. It returns an empty string when the documents are equal.
func Unified(path string, before, after *document.Document, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        withNewlines(before.Lines()),
		B:        withNewlines(after.Lines()),
		FromFile: "a/" + strings.TrimPrefix(path, "/"),
		ToFile:   "b/" + strings.TrimPrefix(path, "/"),
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Stats counts added and removed lines in a unified diff.
func Stats(unified string) (added, removed int) {
	inHunk := false
	for _, l := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(l, "@@"):
			inHunk = true
		case !inHunk:
		case strings.HasPrefix(l, "+"):
			added++
		case strings.HasPrefix(l, "-"):
			removed++
		}
	}
	return added, removed
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
