package rewrite

import (
	"fmt"
	"sort"
	"strings"
)

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original text, with End exclusive.
// Replacement replaces text[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// applyEdits splices a set of non-overlapping edits into text in a single
// left-to-right pass, preserving all unedited text verbatim. Edits may be
// given in any order; offsets always refer to the original text.
func applyEdits(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", fmt.Errorf("invalid edit [%d:%d] for text of length %d", e.Start, e.End, len(text))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return "", fmt.Errorf("overlapping edits at offset %d", e.Start)
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range sorted {
		b.WriteString(text[pos:e.Start])
		b.WriteString(e.Replacement)
		pos = e.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}
