package search

import "github.com/coreterm/vtcore"

// ActiveSearch searches the currently visible rows of a Screen's page list.
type ActiveSearch struct {
	window *SlidingWindow
}

// NewActiveSearch creates an ActiveSearch for needle.
func NewActiveSearch(needle string) *ActiveSearch {
	return &ActiveSearch{window: NewSlidingWindow(Forward, needle)}
}

// Update rebuilds the search window from list: the active area's page (per
// the page-list invariant that the tail page always holds the full active
// area), plus prior pages while the boundary row wraps, bounded to
// needle-length-minus-one bytes of extra overlap context.
func (a *ActiveSearch) Update(list *vtcore.PageList) {
	a.window.Reset(string(a.window.needle))
	tail := list.ActivePage()
	a.window.Append(list, tail)

	overlapBudget := len(a.window.needle) - 1
	if overlapBudget <= 0 {
		return
	}
	offset := list.ActiveRowOffset()
	boundaryRow := tail.Row(offset)
	prev := tailPrev(list, tail)
	for boundaryRow != nil && boundaryRow.Wrapped() && prev != nil && overlapBudget > 0 {
		n := a.window.Append(list, prev)
		overlapBudget -= n
		prev = tailPrev(list, prev)
	}
}

func tailPrev(list *vtcore.PageList, page *vtcore.Page) *vtcore.Page {
	var prev *vtcore.Page
	list.Pages(func(p *vtcore.Page) bool {
		if p == page {
			return false
		}
		prev = p
		return true
	})
	return prev
}

// Next returns the next match, or ok=false if the window is exhausted.
func (a *ActiveSearch) Next() (vtcore.UntrackedHighlight, bool) {
	return a.window.Next()
}
