package vtcore

import "testing"

func newTestTerminal(rows, cols int) (*Terminal, *Stream) {
	term := NewTerminal(WithGeometry(rows, cols), WithScrollback(0))
	return term, NewStream(term)
}

func cellAt(t *Terminal, y, x int) Cell {
	return t.Active().PageList().ActiveRow(y).Cells()[x]
}

// TestCursorWrap is spec §8 scenario 1: 10x3 screen, write "0123456789X".
// Row 0 = "0123456789", row 1 starts with "X", row 0's wrap flag set.
func TestCursorWrap(t *testing.T) {
	term, stream := newTestTerminal(3, 10)
	stream.Feed([]byte("0123456789X"))

	row0 := term.Active().PageList().ActiveRow(0)
	for i, want := range "0123456789" {
		if got := row0.Cells()[i].Codepoint; got != want {
			t.Errorf("row0[%d] = %q, want %q", i, got, want)
		}
	}
	if row0.Flags&RowWrap == 0 {
		t.Error("row0 should have the wrap flag set")
	}
	if got := cellAt(term, 1, 0).Codepoint; got != 'X' {
		t.Errorf("row1[0] = %q, want 'X'", got)
	}
}

// TestWideAtLastColumn is spec §8 scenario 2: 10x3, write "AB" then a wide
// codepoint at the last column. Expect AB at 0-1, the wide pair wraps to
// the next row rather than straddling.
func TestWideAtLastColumn(t *testing.T) {
	term, stream := newTestTerminal(3, 10)
	stream.Feed([]byte("AB"))
	stream.term.Active().Goto(0, 9)
	stream.Input('中')

	if got := cellAt(term, 0, 0).Codepoint; got != 'A' {
		t.Errorf("row0[0] = %q, want 'A'", got)
	}
	if got := cellAt(term, 0, 1).Codepoint; got != 'B' {
		t.Errorf("row0[1] = %q, want 'B'", got)
	}
	wide := cellAt(term, 1, 0)
	tail := cellAt(term, 1, 1)
	if !wide.IsWide() {
		t.Errorf("row1[0] should be the wide lead cell, got %+v", wide)
	}
	if !tail.IsWideSpacerTail() {
		t.Errorf("row1[1] should be the spacer tail, got %+v", tail)
	}
}

// TestSGRBoldThenReset is spec §8 scenario 3.
func TestSGRBoldThenReset(t *testing.T) {
	term, stream := newTestTerminal(3, 10)
	stream.Feed([]byte("\x1b[1mA\x1b[0mB"))

	page := term.Active().PageList().ActivePage()
	a := cellAt(term, 0, 0)
	if style := page.StyleOf(a.Style); style.Flags&StyleBold == 0 {
		t.Errorf("cell(0,0) style should be bold, got %+v", style)
	}
	b := cellAt(term, 0, 1)
	if style := page.StyleOf(b.Style); style.Flags != 0 {
		t.Errorf("cell(0,1) style should be default after reset, got %+v", style)
	}
}

// TestNarrowWrapPendingFlagCancelledByMovement exercises spec §4.B: cursor
// movement cancels a pending wrap rather than letting the next printable
// character perform it.
func TestNarrowWrapPendingFlagCancelledByMovement(t *testing.T) {
	term, stream := newTestTerminal(3, 10)
	stream.Feed([]byte("0123456789"))
	if !term.Active().Cursor().PendingWrap {
		t.Fatal("expected pending-wrap after filling the last column")
	}
	stream.term.Active().Goto(0, 0)
	if term.Active().Cursor().PendingWrap {
		t.Error("cursor movement should cancel pending-wrap")
	}
}
