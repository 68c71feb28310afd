// Package ordering holds the pure reorder/move logic for board links.
// Nothing here touches storage or HTTP; callers feed in sequences and
// persist whatever comes back.
package ordering

import (
	"sort"

	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
)

// SortForDisplay returns a copy of links in display order: pinned links
// before unpinned, then ascending manual order within each group. The
// sort is stable so equal entries keep their relative positions.
func SortForDisplay(links []board.Link) []board.Link {
	out := make([]board.Link, len(links))
	copy(out, links)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// Reindex returns a copy of seq with Order set to each element's
// position in the sequence. This is a full re-index, not a delta patch:
// previous order values are ignored entirely.
func Reindex(seq []board.Link) []board.Link {
	out := make([]board.Link, len(seq))
	copy(out, seq)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Move splices the element at from into position to and re-indexes the
// whole sequence. Out-of-range indices return the input re-indexed
// unchanged in element order.
func Move(seq []board.Link, from, to int) []board.Link {
	if from < 0 || from >= len(seq) || to < 0 || to >= len(seq) {
		return Reindex(seq)
	}
	out := make([]board.Link, 0, len(seq))
	out = append(out, seq...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := make([]board.Link, 0, len(seq))
	rest = append(rest, out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	return Reindex(rest)
}

// MoveAcross removes linkID from source and appends it to dest with a
// fresh order equal to dest's pre-insertion length. Remaining source
// links keep their prior order values: they stay uniquely ordered
// relative to each other but may no longer be contiguous. Returns the
// new sequences, the moved link, and whether the link was found.
func MoveAcross(source, dest []board.Link, linkID, destCategoryID uint) ([]board.Link, []board.Link, board.Link, bool) {
	idx := -1
	for i, l := range source {
		if l.ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return source, dest, board.Link{}, false
	}

	moved := source[idx]
	newSource := make([]board.Link, 0, len(source)-1)
	newSource = append(newSource, source[:idx]...)
	newSource = append(newSource, source[idx+1:]...)

	moved.CategoryID = destCategoryID
	moved.Order = len(dest)
	newDest := make([]board.Link, 0, len(dest)+1)
	newDest = append(newDest, dest...)
	newDest = append(newDest, moved)

	return newSource, newDest, moved, true
}

// ResolveDropTarget maps a drag gesture's hover target to a category.
// A direct category hit wins; otherwise a hovered link resolves to its
// owning category. Returns false when neither identifies a category, in
// which case the gesture must be aborted with no state change.
func ResolveDropTarget(categories []board.Category, overCategoryID, overLinkID uint) (uint, bool) {
	if overCategoryID != 0 {
		for _, c := range categories {
			if c.ID == overCategoryID {
				return c.ID, true
			}
		}
	}
	if overLinkID != 0 {
		for _, c := range categories {
			for _, l := range c.Links {
				if l.ID == overLinkID {
					return c.ID, true
				}
			}
		}
	}
	return 0, false
}
