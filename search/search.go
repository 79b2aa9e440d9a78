// Package search implements sliding-window substring search across a
// terminal's page list: a needle is matched against decoded row text, with
// wrap-aware line joining and needle-length overlap at buffer boundaries so
// matches straddling a page or viewport edge are never missed.
package search

import "github.com/coreterm/vtcore"

// Direction is the order pages are absorbed into a SlidingWindow.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// SlidingWindow is a bounded buffer of decoded page text plus a needle and
// a scan cursor. It is the primitive both ActiveSearch and PageListSearch
// build on.
type SlidingWindow struct {
	dir    Direction
	needle []rune

	runes  []rune
	pins   []vtcore.Pin
	cursor int // Forward: next rune index to resume scanning from.
}

// NewSlidingWindow creates an empty window that will search for needle in
// the given direction.
func NewSlidingWindow(dir Direction, needle string) *SlidingWindow {
	return &SlidingWindow{dir: dir, needle: []rune(needle)}
}

// Reset clears all buffered text and rewinds the cursor, keeping the
// direction and needle (used when the needle itself changes).
func (w *SlidingWindow) Reset(needle string) {
	w.needle = []rune(needle)
	w.runes = w.runes[:0]
	w.pins = w.pins[:0]
	w.cursor = 0
}

// Append absorbs one page's text into the window (at the tail for Forward,
// at the head for Reverse), and returns the number of runes added. Wrapped
// rows are joined without a separator; unwrapped rows get a synthetic
// newline so matches never span unrelated lines.
func (w *SlidingWindow) Append(list *vtcore.PageList, page *vtcore.Page) int {
	runes, pins := decodePage(page)
	if w.dir == Forward {
		w.runes = append(w.runes, runes...)
		w.pins = append(w.pins, pins...)
		return len(runes)
	}
	newRunes := make([]rune, 0, len(runes)+len(w.runes))
	newPins := make([]vtcore.Pin, 0, len(pins)+len(w.pins))
	newRunes = append(newRunes, runes...)
	newRunes = append(newRunes, w.runes...)
	newPins = append(newPins, pins...)
	newPins = append(newPins, w.pins...)
	w.runes, w.pins = newRunes, newPins
	w.cursor += len(runes)
	return len(runes)
}

// Trim drops every rune more than keep positions away from the scan
// boundary (the tail for Forward, the head for Reverse), bounding memory
// while preserving enough context for a needle to still match across the
// next Append.
func (w *SlidingWindow) Trim(keep int) {
	if keep < len(w.needle)-1 {
		keep = len(w.needle) - 1
	}
	if w.dir == Forward {
		if w.cursor > keep {
			drop := w.cursor - keep
			w.runes = w.runes[drop:]
			w.pins = w.pins[drop:]
			w.cursor -= drop
		}
		return
	}
	if len(w.runes)-w.cursor > keep {
		w.runes = w.runes[:w.cursor+keep]
		w.pins = w.pins[:w.cursor+keep]
	}
}

// Next returns the next match as an untracked highlight, or ok=false if no
// match is found in the data buffered so far (the caller should Append more
// and retry).
func (w *SlidingWindow) Next() (hl vtcore.UntrackedHighlight, ok bool) {
	if len(w.needle) == 0 {
		return hl, false
	}
	if w.dir == Forward {
		for i := w.cursor; i+len(w.needle) <= len(w.runes); i++ {
			if runesEqual(w.runes[i:i+len(w.needle)], w.needle) {
				w.cursor = i + len(w.needle)
				return vtcore.UntrackedHighlight{
					Kind:  vtcore.HighlightSearchMatch,
					Start: w.pins[i],
					End:   w.pins[i+len(w.needle)-1],
				}, true
			}
		}
		return hl, false
	}
	for i := w.cursor - len(w.needle); i >= 0; i-- {
		if runesEqual(w.runes[i:i+len(w.needle)], w.needle) {
			w.cursor = i
			return vtcore.UntrackedHighlight{
				Kind:  vtcore.HighlightSearchMatch,
				Start: w.pins[i],
				End:   w.pins[i+len(w.needle)-1],
			}, true
		}
	}
	return hl, false
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decodePage flattens every live row of page into runes, joining wrapped
// rows without a separator and inserting a synthetic newline between
// unwrapped (logical-line-ending) rows. pins[i] gives the source location
// of runes[i]; the synthetic newline reuses the last real cell's pin.
func decodePage(page *vtcore.Page) (runes []rune, pins []vtcore.Pin) {
	for y := 0; y < page.Rows(); y++ {
		row := page.Row(y)
		cells := row.Cells()
		lastNonBlank := -1
		for i, c := range cells {
			if c.IsWideSpacerTail() {
				continue
			}
			if c.Codepoint != ' ' || c.Tag == vtcore.ContentGrapheme {
				lastNonBlank = i
			}
		}
		for i := 0; i <= lastNonBlank; i++ {
			c := cells[i]
			if c.IsWideSpacerTail() {
				continue
			}
			if c.Tag == vtcore.ContentGrapheme {
				cluster := page.GraphemeOf(c.Grapheme)
				for _, r := range cluster {
					runes = append(runes, r)
					pins = append(pins, vtcore.Pin{Page: page, Row: y, Col: i})
				}
				continue
			}
			runes = append(runes, c.Codepoint)
			pins = append(pins, vtcore.Pin{Page: page, Row: y, Col: i})
		}
		if !row.Wrapped() && y < page.Rows()-1 {
			runes = append(runes, '\n')
			pin := vtcore.Pin{Page: page, Row: y, Col: len(cells)}
			pins = append(pins, pin)
		}
	}
	return runes, pins
}
