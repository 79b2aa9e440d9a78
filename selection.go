package vtcore

// SelectionMode distinguishes how a selection's endpoints bound included
// cells.
type SelectionMode int

const (
	SelectionNormal SelectionMode = iota
	SelectionBlock                // rectangular, column-bounded on every row
	SelectionLine                 // whole rows, regardless of column
)

// Selection is a screen's current text selection, expressed as a pair of
// endpoints (Pin-valued, so it survives being read across scrollback and
// live rows alike). Anchor is where the selection began; Head tracks the
// live end as the user drags or extends it.
type Selection struct {
	Anchor, Head Pin
	Mode         SelectionMode
}

// ordered returns the endpoints sorted into (start, end) screen order.
func (s *Selection) ordered(list *PageList) (start, end Pin) {
	if s.Anchor.Less(s.Head, list) {
		return s.Anchor, s.Head
	}
	return s.Head, s.Anchor
}

// Contains reports whether (row, col) on page falls within the selection.
func (s *Selection) Contains(list *PageList, page *Page, row, col int) bool {
	if s == nil {
		return false
	}
	start, end := s.ordered(list)
	p := Pin{Page: page, Row: row, Col: col}

	switch s.Mode {
	case SelectionBlock:
		rp, rs, re := Pin{Page: page, Row: row}, Pin{Page: start.Page, Row: start.Row}, Pin{Page: end.Page, Row: end.Row}
		if rp.Less(rs, list) || re.Less(rp, list) {
			return false
		}
		lo, hi := start.Col, end.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		return col >= lo && col <= hi
	case SelectionLine:
		rp, rs, re := Pin{Page: page, Row: row}, Pin{Page: start.Page, Row: start.Row}, Pin{Page: end.Page, Row: end.Row}
		return !rp.Less(rs, list) && !re.Less(rp, list)
	default: // SelectionNormal
		if p.Less(start, list) {
			return false
		}
		if end.Less(p, list) {
			return false
		}
		return true
	}
}

// HighlightKind distinguishes an ordinary search match from the currently
// selected (active) search match.
type HighlightKind int

const (
	HighlightSearchMatch HighlightKind = iota
	HighlightSearchActive
)

// Highlight is a non-selection decoration (search hits) over a span of
// cells. Untracked highlights reference Pins directly and go stale across a
// prune; Flattened highlights have been resolved to absolute (page-index,
// row, col) coordinates at snapshot time and are safe to hand to a renderer
// that outlives the next mutation (spec §8 RenderState).
type Highlight struct {
	Kind  HighlightKind
	Start Pin
	End   Pin
}

// UntrackedHighlight is the live form: Start/End are plain Pins, valid only
// until the next PageList mutation.
type UntrackedHighlight struct {
	Kind  HighlightKind
	Start Pin
	End   Pin
}

// FlattenedHighlight is a snapshot-safe form: page identity replaced with a
// stable page ordinal captured at flatten time.
type FlattenedHighlight struct {
	Kind                   HighlightKind
	StartPage, EndPage     int
	StartRow, StartCol     int
	EndRow, EndCol         int
}

// Flatten resolves an UntrackedHighlight against list into a
// FlattenedHighlight, safe to retain past the current lock hold.
func (h UntrackedHighlight) Flatten(list *PageList) FlattenedHighlight {
	return FlattenedHighlight{
		Kind:      h.Kind,
		StartPage: list.pageIndex(h.Start.Page),
		EndPage:   list.pageIndex(h.End.Page),
		StartRow:  h.Start.Row,
		StartCol:  h.Start.Col,
		EndRow:    h.End.Row,
		EndCol:    h.End.Col,
	}
}
