package search

import "github.com/coreterm/vtcore"

// ViewportSearch re-runs only when the set of pages spanning the viewport
// changes, tracked as a "fingerprint": the ordered list of page pointers.
//
// The fingerprint is compared by pointer identity, never by content
// (reflect.DeepEqual on cell contents would be far more expensive and is
// not what this is for): an implementation that ever reuses a *vtcore.Page
// value in place for different content, instead of allocating a fresh one,
// would silently defeat this cache. vtcore's Page lifecycle never does
// that — pages are only ever appended or pruned wholesale — so pointer
// comparison is safe here.
type ViewportSearch struct {
	needle      string
	fingerprint []*vtcore.Page
	window      *SlidingWindow
}

// NewViewportSearch creates a ViewportSearch for needle.
func NewViewportSearch(needle string) *ViewportSearch {
	return &ViewportSearch{needle: needle, window: NewSlidingWindow(Forward, needle)}
}

// Update compares the current viewport's page fingerprint against the
// cached one. If unchanged and scr is not dirty, it is a no-op and returns
// false. Otherwise it rebuilds the window with needle-length overlap on
// both sides of the viewport (respecting wrap), so matches straddling a
// viewport edge are still found, and returns true.
func (v *ViewportSearch) Update(scr *vtcore.Screen) bool {
	list := scr.PageList()
	fp := viewportFingerprint(list)
	if !scr.Dirty() && fingerprintEqual(v.fingerprint, fp) {
		return false
	}
	v.fingerprint = fp
	v.window.Reset(v.needle)
	for _, p := range fp {
		v.window.Append(list, p)
	}
	return true
}

// viewportFingerprint returns the page(s) spanning the active area. Under
// the page-list invariant that a page's row capacity always covers the
// active area, this is always the single tail page; generalized to a slice
// so the comparison logic doesn't special-case the count.
func viewportFingerprint(list *vtcore.PageList) []*vtcore.Page {
	return []*vtcore.Page{list.ActivePage()}
}

func fingerprintEqual(a, b []*vtcore.Page) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] { // pointer identity, not content — see type doc
			return false
		}
	}
	return true
}

// Next returns the next buffered match.
func (v *ViewportSearch) Next() (vtcore.UntrackedHighlight, bool) {
	return v.window.Next()
}
