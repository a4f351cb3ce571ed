package markdown

import (
	"errors"
	"fmt"
	"slices"
)

// Edit replaces source[Start:End] (End exclusive) with Replacement. Rewriting a
// fence this way leaves the rest of the document byte for byte as it was.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits, all expressed as offsets into the
// original source, and returns the new content. source is not modified.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	// Last edit first, so offsets of the remaining edits stay valid.
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if a.Start == b.Start {
			return b.End - a.End
		}
		return b.Start - a.Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("invalid edit[%d]: negative range", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("invalid edit[%d]: end before start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
		if i > 0 {
			prev := sorted[i-1]
			if e.End > prev.Start {
				return nil, errors.New("invalid edits: overlapping ranges")
			}
		}
	}

	out := slices.Clone(source)
	for _, e := range sorted {
		out = slices.Concat(out[:e.Start], e.Replacement, out[e.End:])
	}
	return out, nil
}
