package vtcore

import "strings"

// DirtyVerdict tells a renderer how much of the screen changed since the
// last snapshot, so it can choose between a full repaint and a partial one.
type DirtyVerdict int

const (
	DirtyNone DirtyVerdict = iota
	DirtyPartial
	DirtyFull
)

// RenderLine is one row of a RenderState snapshot: cells, whether the
// logical line wraps onto the next row, and the row's dirty state at
// capture time.
type RenderLine struct {
	Cells   []Cell
	Wrapped bool
	Dirty   bool
}

// LinkCell records that a cell at (Row, Col) participates in a hyperlink,
// resolved to its URI at snapshot time (so a renderer doesn't need to hold
// the Terminal lock to look it up later).
type LinkCell struct {
	Row, Col int
	URI      string
}

// RenderState is a point-in-time, lock-free-to-read snapshot of a Screen,
// safe for a renderer to consume after the Terminal's mutex has been
// released.
type RenderState struct {
	Rows, Cols int
	Lines      []RenderLine
	Cursor     Cursor
	Verdict    DirtyVerdict
	Links      []LinkCell
	Highlights []FlattenedHighlight
}

// Snapshot captures scr's current active-area state. highlights, if
// non-nil, are flattened against scr's page list before being attached.
func Snapshot(scr *Screen, highlights []UntrackedHighlight) RenderState {
	rows, cols := scr.Rows(), scr.Cols()
	rs := RenderState{Rows: rows, Cols: cols, Cursor: scr.Cursor()}

	anyDirty, allDirty := false, true
	page := scr.list.ActivePage()
	off := scr.list.ActiveRowOffset()

	rs.Lines = make([]RenderLine, rows)
	for y := 0; y < rows; y++ {
		row := page.Row(off + y)
		line := RenderLine{
			Cells:   append([]Cell(nil), row.Cells()...),
			Wrapped: row.Wrapped(),
			Dirty:   row.Dirty(),
		}
		rs.Lines[y] = line
		if row.Dirty() {
			anyDirty = true
		} else {
			allDirty = false
		}

		for x, c := range row.Cells() {
			if c.HasHyperlink() {
				if hl, ok := page.HyperlinkOf(c.Hyperlink); ok {
					rs.Links = append(rs.Links, LinkCell{Row: y, Col: x, URI: hl.URI})
				}
			}
		}
	}

	switch {
	case scr.Dirty() && allDirty:
		rs.Verdict = DirtyFull
	case anyDirty:
		rs.Verdict = DirtyPartial
	default:
		rs.Verdict = DirtyNone
	}

	for _, h := range highlights {
		rs.Highlights = append(rs.Highlights, h.Flatten(scr.list))
	}

	return rs
}

// ClearDirty clears the dirty bits this snapshot observed, so the next
// Snapshot starts from DirtyNone unless new writes land first. Call after
// the renderer has consumed the snapshot.
func ClearDirty(scr *Screen) {
	page := scr.list.ActivePage()
	off := scr.list.ActiveRowOffset()
	for y := 0; y < scr.Rows(); y++ {
		page.Row(off + y).ClearDirty()
	}
	scr.ClearDirty()
}

// String renders the snapshot as plain text, one line per row, with
// trailing blanks trimmed per line and wide-spacer-tail cells skipped.
// Grapheme cells are written as their base rune only; the rest of the
// cluster is not included.
func (rs RenderState) String() string {
	var b strings.Builder
	for i, line := range rs.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.plainText())
	}
	return b.String()
}

func (l RenderLine) plainText() string {
	var b strings.Builder
	last := -1
	for i, c := range l.Cells {
		if c.IsWideSpacerTail() {
			continue
		}
		if c.Tag == ContentGrapheme || c.Codepoint != ' ' {
			last = i
		}
	}
	for i, c := range l.Cells {
		if i > last {
			break
		}
		if c.IsWideSpacerTail() {
			continue
		}
		if c.Tag == ContentGrapheme {
			// caller resolves grapheme text via the owning page; plain String()
			// output falls back to the base rune when called standalone.
			b.WriteRune(c.Codepoint)
			continue
		}
		b.WriteRune(c.Codepoint)
	}
	return b.String()
}
