package search

import "github.com/coreterm/vtcore"

// PageListSearch walks scrollback backward from a starting page, feeding
// one page at a time into a reverse sliding window.
type PageListSearch struct {
	window *SlidingWindow
	list   *vtcore.PageList
	next   *vtcore.Page // next page to feed; nil once scrollback is exhausted
	done   bool
}

// NewPageListSearch creates a PageListSearch for needle.
func NewPageListSearch(needle string) *PageListSearch {
	return &PageListSearch{window: NewSlidingWindow(Reverse, needle)}
}

// Init places the reverse cursor at startNode and clears any prior state.
func (s *PageListSearch) Init(list *vtcore.PageList, startNode *vtcore.Page) {
	s.list = list
	s.next = startNode
	s.done = false
	s.window.Reset(string(s.window.needle))
}

// Feed pulls one more page of scrollback into the window, with
// needle-length overlap already implicit in the window's running buffer.
// Returns false once there is no earlier page to feed.
func (s *PageListSearch) Feed() bool {
	if s.next == nil {
		s.done = true
		return false
	}
	s.window.Append(s.list, s.next)
	s.next = prevPage(s.list, s.next)
	return true
}

func prevPage(list *vtcore.PageList, page *vtcore.Page) *vtcore.Page {
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

// Next yields one match at a time from already-buffered data, or ok=false
// if Feed is needed before another match can surface.
func (s *PageListSearch) Next() (vtcore.UntrackedHighlight, bool) {
	return s.window.Next()
}

// Done reports whether scrollback has been exhausted.
func (s *PageListSearch) Done() bool { return s.done }
